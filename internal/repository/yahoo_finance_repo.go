package repository

import (
	"context"
	"encoding/json"
	"errors"
	"etf-dashboard/config"
	"etf-dashboard/internal/dto"
	"etf-dashboard/pkg/cache"
	"etf-dashboard/pkg/httpclient"
	"etf-dashboard/pkg/logger"
	"etf-dashboard/pkg/ratelimit"
	"etf-dashboard/pkg/utils"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	yahooCrumbCacheKey = "yahoo_finance:crumb"
	yahooLimiterKey    = "yahoo_finance"
	yahooNotFoundCode  = "Not Found"
)

type YahooFinanceRepository interface {
	GetFundInfo(ctx context.Context, symbol string) (*dto.FundInfo, error)
	GetChart(ctx context.Context, symbol, rng, interval string) (*dto.ChartData, error)
}

type yahooFinanceRepository struct {
	httpClient httpclient.HTTPClient
	cfg        *config.Config
	logger     *logger.Logger
	cache      cache.Cache
	limiters   *ratelimit.LimiterStore
	crumbMu    sync.Mutex
}

// NewYahooFinanceRepository creates a new instance of yahooFinanceRepository.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger, inmemoryCache cache.Cache) YahooFinanceRepository {
	limit := rate.Inf
	if cfg.YahooFinance.MaxRequestPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.YahooFinance.MaxRequestPerMinute))
	}

	client := httpclient.New(log, cfg.YahooFinance.BaseURL, cfg.YahooFinance.Timeout,
		httpclient.WithHeaders(map[string]string{
			"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0.0.0 Safari/537.36",
			"Accept-Language": "en-US,en;q=0.9",
			"Referer":         "https://finance.yahoo.com/",
		}),
		httpclient.WithRetryOnTooManyRequests(cfg.YahooFinance.MaxRetries, cfg.YahooFinance.RetryWait),
	)

	return &yahooFinanceRepository{
		httpClient: client,
		cfg:        cfg,
		logger:     log,
		cache:      inmemoryCache,
		limiters:   ratelimit.NewLimiterStore(limit, 1),
	}
}

func (r *yahooFinanceRepository) wait(ctx context.Context) error {
	queued, err := r.limiters.Wait(ctx, yahooLimiterKey)
	if queued {
		r.logger.DebugContext(ctx, "Yahoo Finance request queued by limiter",
			logger.IntField("max_request_per_minute", r.cfg.YahooFinance.MaxRequestPerMinute),
		)
	}
	return err
}

// crumb returns the session crumb the quote endpoints expect, fetching a
// fresh cookie and crumb when the cached one expired. An empty crumb is
// returned when Yahoo refuses to hand one out.
func (r *yahooFinanceRepository) crumb(ctx context.Context) string {
	if crumb, ok := cache.GetFromCache[string](r.cache, yahooCrumbCacheKey); ok {
		return crumb
	}

	r.crumbMu.Lock()
	defer r.crumbMu.Unlock()
	if crumb, ok := cache.GetFromCache[string](r.cache, yahooCrumbCacheKey); ok {
		return crumb
	}

	if r.cfg.YahooFinance.CookieURL != "" {
		// fc.yahoo.com answers 404 but sets the session cookie.
		if _, err := r.httpClient.Get(ctx, r.cfg.YahooFinance.CookieURL, nil, nil, nil); err != nil {
			r.logger.WarnContext(ctx, "Failed to fetch Yahoo session cookie", logger.ErrorField(err))
		}
	}

	resp, err := r.httpClient.Get(ctx, "/v1/test/getcrumb", nil, nil, nil)
	if err != nil {
		r.logger.WarnContext(ctx, "Failed to fetch Yahoo crumb, continuing without it", logger.ErrorField(err))
		return ""
	}
	if resp.StatusCode != http.StatusOK || len(resp.Body) == 0 {
		r.logger.WarnContext(ctx, "Yahoo refused to issue a crumb, continuing without it",
			logger.IntField("status_code", resp.StatusCode),
		)
		return ""
	}

	crumb := strings.TrimSpace(string(resp.Body))
	r.cache.Set(yahooCrumbCacheKey, crumb, r.cfg.YahooFinance.CrumbTTL)
	return crumb
}

func (r *yahooFinanceRepository) withCrumb(ctx context.Context, params map[string]string) map[string]string {
	if crumb := r.crumb(ctx); crumb != "" {
		params["crumb"] = crumb
	}
	return params
}

// GetFundInfo merges the quoteSummary modules and the /v7 quote of symbol
// into one flat QuoteInfo plus the typed fund structures.
func (r *yahooFinanceRepository) GetFundInfo(ctx context.Context, symbol string) (*dto.FundInfo, error) {
	modules, err := r.getQuoteSummary(ctx, symbol)
	if err != nil {
		return nil, err
	}

	quote, err := r.getQuote(ctx, symbol)
	if err != nil {
		r.logger.WarnContext(ctx, "Yahoo quote lookup failed, using quote summary only",
			logger.StringField("symbol", symbol),
			logger.ErrorField(err),
		)
	}

	info := dto.QuoteInfo{}
	var funds dto.FundsData
	for name, raw := range modules {
		flattenInto(info, raw)

		switch name {
		case "topHoldings":
			var th dto.TopHoldingsModule
			if err := json.Unmarshal(raw, &th); err != nil {
				r.logger.WarnContext(ctx, "Failed to decode topHoldings", logger.StringField("symbol", symbol), logger.ErrorField(err))
				continue
			}
			funds.TopHoldings = &th
		case "fundProfile":
			var fp dto.FundProfileModule
			if err := json.Unmarshal(raw, &fp); err != nil {
				r.logger.WarnContext(ctx, "Failed to decode fundProfile", logger.StringField("symbol", symbol), logger.ErrorField(err))
				continue
			}
			funds.FundProfile = &fp
		}
	}
	for key, value := range quote {
		if value != nil {
			info[key] = value
		}
	}
	if s := info.String("longBusinessSummary"); s != nil {
		funds.Description = *s
	}

	return &dto.FundInfo{Symbol: symbol, Info: info, Funds: funds}, nil
}

func (r *yahooFinanceRepository) getQuoteSummary(ctx context.Context, symbol string) (map[string]json.RawMessage, error) {
	for attempt := 0; attempt < 2; attempt++ {
		if err := r.wait(ctx); err != nil {
			return nil, err
		}

		params := r.withCrumb(ctx, map[string]string{
			"modules":   strings.Join(dto.QuoteSummaryModules, ","),
			"formatted": "false",
		})
		var out dto.YahooQuoteSummaryResponse
		resp, err := r.httpClient.Get(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(symbol), params, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch quote summary from yahoo finance: %w", err)
		}
		if resp.StatusCode == http.StatusUnauthorized && attempt == 0 {
			r.cache.Delete(yahooCrumbCacheKey)
			continue
		}
		if len(resp.Body) > 0 {
			if err := json.Unmarshal(resp.Body, &out); err != nil && resp.StatusCode == http.StatusOK {
				return nil, fmt.Errorf("failed to decode quote summary: %w", err)
			}
		}

		if resp.StatusCode == http.StatusNotFound || isNotFound(out.QuoteSummary.Error) {
			return nil, fmt.Errorf("%w: %s", dto.ErrSymbolNotAvailable, symbol)
		}
		if resp.StatusCode != http.StatusOK {
			r.logger.ErrorContext(ctx, "Yahoo Finance API returned Non-OK status",
				logger.IntField("status_code", resp.StatusCode),
				logger.StringField("body", string(resp.Body)))
			return nil, fmt.Errorf("yahoo finance api returned status: %d", resp.StatusCode)
		}
		if out.QuoteSummary.Error != nil {
			return nil, fmt.Errorf("yahoo finance api error: %s", out.QuoteSummary.Error.Description)
		}
		if len(out.QuoteSummary.Result) == 0 {
			return nil, fmt.Errorf("%w: %s", dto.ErrSymbolNotAvailable, symbol)
		}
		return out.QuoteSummary.Result[0], nil
	}
	return nil, errors.New("yahoo finance rejected the session crumb")
}

func (r *yahooFinanceRepository) getQuote(ctx context.Context, symbol string) (map[string]interface{}, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}

	params := r.withCrumb(ctx, map[string]string{"symbols": symbol})
	var out dto.YahooQuoteResponse
	resp, err := r.httpClient.Get(ctx, "/v7/finance/quote", params, nil, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote from yahoo finance: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo finance api returned status: %d", resp.StatusCode)
	}
	if len(out.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", dto.ErrSymbolNotAvailable, symbol)
	}
	return out.QuoteResponse.Result[0], nil
}

// GetChart fetches daily (or other interval) bars over rng. Bars without a
// close are dropped.
func (r *yahooFinanceRepository) GetChart(ctx context.Context, symbol, rng, interval string) (*dto.ChartData, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}

	queryParams := map[string]string{
		"range":                rng,
		"interval":             interval,
		"includePrePost":       "false",
		"includeAdjustedClose": "true",
		"events":               "div,split",
	}

	var yahooResp dto.YahooChartResponse
	resp, err := r.httpClient.Get(ctx, "/v8/finance/chart/"+url.PathEscape(symbol), queryParams, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch data from yahoo finance: %w", err)
	}
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &yahooResp); err != nil && resp.StatusCode == http.StatusOK {
			return nil, fmt.Errorf("failed to decode chart: %w", err)
		}
	}

	if resp.StatusCode == http.StatusNotFound || isNotFound(yahooResp.Chart.Error) {
		return nil, fmt.Errorf("%w: %s", dto.ErrSymbolNotAvailable, symbol)
	}
	if resp.StatusCode != http.StatusOK {
		r.logger.ErrorContext(ctx, "Yahoo Finance API returned Non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(resp.Body)))
		return nil, fmt.Errorf("yahoo finance api returned status: %d", resp.StatusCode)
	}
	if yahooResp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo finance api error: %s", yahooResp.Chart.Error.Description)
	}
	if len(yahooResp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no data returned for symbol: %s", symbol)
	}

	result := yahooResp.Chart.Result[0]
	data := &dto.ChartData{
		Symbol:   symbol,
		Currency: result.Meta.Currency,
		Range:    rng,
		Interval: interval,
	}
	if len(result.Indicators.Quote) == 0 {
		return data, nil
	}

	loc := time.UTC
	if result.Meta.ExchangeTimezoneName != "" {
		if l, err := time.LoadLocation(result.Meta.ExchangeTimezoneName); err == nil {
			loc = l
		}
	}

	quote := result.Indicators.Quote[0]
	var adjClose []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adjClose = result.Indicators.AdjClose[0].AdjClose
	}

	for i, ts := range result.Timestamp {
		closePrice := at(quote.Close, i)
		if closePrice == nil || *closePrice == 0 {
			continue
		}
		data.Bars = append(data.Bars, dto.ChartBar{
			Date:     utils.TruncateToDate(time.Unix(ts, 0).In(loc)),
			Open:     at(quote.Open, i),
			High:     at(quote.High, i),
			Low:      at(quote.Low, i),
			Close:    *closePrice,
			AdjClose: at(adjClose, i),
			Volume:   at(quote.Volume, i),
		})
	}

	return data, nil
}

func at[T any](values []*T, i int) *T {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

func isNotFound(e *dto.YahooError) bool {
	return e != nil && strings.EqualFold(e.Code, yahooNotFoundCode)
}

// flattenInto copies the scalars of one quoteSummary module into info,
// unwrapping {raw, fmt} pairs. Nested objects and lists are skipped.
func flattenInto(info dto.QuoteInfo, raw json.RawMessage) {
	var module map[string]interface{}
	if err := json.Unmarshal(raw, &module); err != nil {
		return
	}
	for key, value := range module {
		switch v := value.(type) {
		case map[string]interface{}:
			if rawValue, ok := v["raw"]; ok && rawValue != nil {
				info[key] = rawValue
			}
		case float64, string, bool:
			info[key] = v
		}
	}
}
