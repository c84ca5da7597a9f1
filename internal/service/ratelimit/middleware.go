package ratelimit

import (
	xhttp "MarketAtlas/pkg/http"

	"github.com/labstack/echo/v4"
)

// Middleware rejects requests from a client IP that exhausted its bucket.
func Middleware(l *Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().URL.Path == "/healthz" {
				return next(c)
			}
			if !l.Allow(c.RealIP()) {
				return xhttp.TooManyRequestsResponse(c)
			}
			return next(c)
		}
	}
}
