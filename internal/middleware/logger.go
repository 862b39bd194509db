package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request with the request ID set by echo's
// RequestID middleware.
func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				// Render the error now so the logged status is the one sent.
				c.Error(err)
			}
			req := c.Request()
			res := c.Response()
			logger.Info("HTTP request",
				zap.String("request_id", res.Header().Get(echo.HeaderXRequestID)),
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.String("query", req.URL.RawQuery),
				zap.Int("status", res.Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("ip", c.RealIP()),
				zap.String("principal", principal(c)),
			)
			return nil
		}
	}
}
