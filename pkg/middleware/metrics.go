package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/d-krupke/thesis-manager/pkg/metrics"
)

func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			metrics.RecordHTTPRequest(c.Request().Method, c.Path(), strconv.Itoa(status), time.Since(start).Seconds())
			return err
		}
	}
}
