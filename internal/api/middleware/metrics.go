package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ops4go/phacts/internal/observability/metrics"
)

// NewMetrics records request counts and durations by route template.
// A nil m gives a pass-through middleware.
func NewMetrics(m *metrics.HTTPMetrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if m == nil {
			return next
		}
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method

			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
				m.RecordHTTPRequestError(method, path, http.StatusText(status))
			}
			m.RecordHTTPRequest(method, path, status, time.Since(start).Seconds())
			return err
		}
	}
}
