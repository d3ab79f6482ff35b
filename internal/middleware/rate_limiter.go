package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// Default limits for the form submission routes: a short burst, then one request every six seconds.
const (
	DefaultSubmitRate  = rate.Limit(10.0 / 60.0)
	DefaultSubmitBurst = 10
)

// RateLimiter limits requests per client IP on the routes it is applied to. Every form POST
// reaches the remote account service, so these routes carry it.
func RateLimiter(limit rate.Limit, burst int) echo.MiddlewareFunc {
	config := middleware.RateLimiterConfig{
		// In-memory store, suitable for single-instance deployments.
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      limit,
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			FromContext(c.Request().Context()).Warn("Rate limit exceeded", "client", identifier)
			return c.String(http.StatusTooManyRequests, "Too many requests. Please try again later.")
		},
		ErrorHandler: func(c echo.Context, err error) error {
			slog.ErrorContext(c.Request().Context(), "Rate limiter could not identify client", "error", err)
			return c.String(http.StatusForbidden, "Unable to identify client.")
		},
	}
	return middleware.RateLimiterWithConfig(config)
}
