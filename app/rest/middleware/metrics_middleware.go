package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "shopcore/app/utils/errors"
	"shopcore/app/utils/metrics"
)

// Metrics records per-request counters and latency, labelled by the route
// pattern rather than the raw path so tenant slugs and entity ids do not
// explode the label space.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			path := c.Path()
			if path == "" {
				path = "unknown"
			}

			// The error handler has not run yet when we observe here, so the
			// status for failed requests comes from the error itself.
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else {
					status = apperrors.HTTPStatus(err)
				}
			}

			method := c.Request().Method
			code := strconv.Itoa(status)

			metrics.HTTPRequestsTotal.WithLabelValues(method, path, code).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(method, path, code).Observe(time.Since(start).Seconds())

			return err
		}
	}
}
