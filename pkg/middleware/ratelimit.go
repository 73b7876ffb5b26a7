package middleware

import (
	"etf-dashboard/config"
	"etf-dashboard/internal/dto"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// NewRateLimiterMiddleware limits requests per client IP. A zero rate
// disables limiting.
func NewRateLimiterMiddleware(cfg config.API) echo.MiddlewareFunc {
	limiterConfig := middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return cfg.RateLimit <= 0
		},
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(cfg.RateLimit),
				Burst:     cfg.RateBurst,
				ExpiresIn: cfg.RateExpiresIn,
			},
		),

		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			id := ctx.RealIP()
			return id, nil
		},

		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(http.StatusForbidden, dto.NewBaseResponse(
				http.StatusForbidden,
				"Access forbidden: Rate limiter error occurred",
				nil,
			))
		},

		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(http.StatusTooManyRequests, dto.NewBaseResponse(
				http.StatusTooManyRequests,
				"Too many requests: Rate limit exceeded. Please try again later",
				nil,
			))
		},
	}

	return middleware.RateLimiterWithConfig(limiterConfig)
}
