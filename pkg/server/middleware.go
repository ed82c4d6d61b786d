package server

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"parsverse/pkg/metrics"
)

// observe records request counts and latency per route.
func observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			// let echo write the error response so the status is final
			c.Error(err)
		}

		path := c.Path()
		if path == "" {
			path = "unknown"
		}
		method := c.Request().Method
		status := strconv.Itoa(c.Response().Status)

		metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		return nil
	}
}
