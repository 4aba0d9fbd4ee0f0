package middleware

import (
	"strconv"
	"time"

	"quote-service/prometheus"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records request counts and latency per route
func MetricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)

		// c.Path() keeps the route pattern, so product ids and other
		// parameters do not explode the label set.
		prometheus.RecordHTTPRequest(
			c.Request().Method,
			c.Path(),
			strconv.Itoa(c.Response().Status),
			time.Since(start).Seconds(),
		)

		return err
	}
}
