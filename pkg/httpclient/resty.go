package httpclient

import (
	"context"
	"etf-dashboard/pkg/logger"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

type RestyClient struct {
	client *resty.Client
	log    *logger.Logger
}

type Option func(*RestyClient)

// WithRetryOnTooManyRequests retries 429 responses up to count times,
// backing off from wait and doubling on every attempt.
func WithRetryOnTooManyRequests(count int, wait time.Duration) Option {
	return func(rc *RestyClient) {
		if count <= 0 {
			return
		}
		rc.client.
			SetRetryCount(count).
			SetRetryWaitTime(wait).
			SetRetryMaxWaitTime(wait << count).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return r != nil && r.StatusCode() == http.StatusTooManyRequests
			}).
			AddRetryHook(func(r *resty.Response, err error) {
				if r == nil {
					return
				}
				rc.log.Warn("Rate limited by upstream, retrying",
					logger.StringField("url", r.Request.URL),
					logger.IntField("attempt", r.Request.Attempt),
				)
			})
	}
}

func WithHeaders(headers map[string]string) Option {
	return func(rc *RestyClient) {
		rc.client.SetHeaders(headers)
	}
}

func New(log *logger.Logger, baseURL string, timeout time.Duration, opts ...Option) HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	rc := &RestyClient{client: client, log: log}
	for _, opt := range opts {
		opt(rc)
	}
	return rc
}

func (rc *RestyClient) request(ctx context.Context, headers map[string]string, result interface{}) *resty.Request {
	req := rc.client.R().SetContext(ctx)
	if result != nil {
		req.SetResult(result)
	}
	if headers != nil {
		req.SetHeaders(headers)
	}
	return req
}

func toBaseResponse(resp *resty.Response) *BaseResponse {
	if resp == nil {
		return &BaseResponse{}
	}
	return &BaseResponse{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
		Headers:    resp.Header(),
	}
}

// GET request with optional query params
func (rc *RestyClient) Get(ctx context.Context, endpoint string, queryParams map[string]string, headers map[string]string, result interface{}) (*BaseResponse, error) {
	req := rc.request(ctx, headers, result)
	if queryParams != nil {
		req.SetQueryParams(queryParams)
	}

	resp, err := req.Get(endpoint)
	return toBaseResponse(resp), err
}
