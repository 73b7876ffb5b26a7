package middleware

import (
	"etf-dashboard/config"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func serve(e *echo.Echo) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestNewRateLimiterMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(NewRateLimiterMiddleware(config.API{RateLimit: 0.001, RateBurst: 1, RateExpiresIn: time.Minute}))
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(e))
	assert.Equal(t, http.StatusTooManyRequests, serve(e))
}

func TestNewRateLimiterMiddleware_Disabled(t *testing.T) {
	e := echo.New()
	e.Use(NewRateLimiterMiddleware(config.API{}))
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, serve(e))
	}
}
