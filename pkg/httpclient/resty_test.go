package httpclient

import (
	"context"
	"etf-dashboard/pkg/logger"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestyClient_GetDecodesResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote", r.URL.Path)
		assert.Equal(t, "SPY", r.URL.Query().Get("symbols"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol":"SPY"}`))
	}))
	defer srv.Close()

	client := New(logger.NewNop(), srv.URL, time.Second)
	var out struct {
		Symbol string `json:"symbol"`
	}
	resp, err := client.Get(context.Background(), "/quote", map[string]string{"symbols": "SPY"}, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "SPY", out.Symbol)
}

func TestRestyClient_GetWithoutResultKeepsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("crumb-value"))
	}))
	defer srv.Close()

	client := New(logger.NewNop(), srv.URL, time.Second)
	resp, err := client.Get(context.Background(), "/crumb", nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "crumb-value", string(resp.Body))
}

func TestRestyClient_RetriesTooManyRequests(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := New(logger.NewNop(), srv.URL, time.Second, WithRetryOnTooManyRequests(3, time.Millisecond))
	resp, err := client.Get(context.Background(), "/", nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRestyClient_GivesUpAfterRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := New(logger.NewNop(), srv.URL, time.Second, WithRetryOnTooManyRequests(2, time.Millisecond))
	resp, err := client.Get(context.Background(), "/", nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}
