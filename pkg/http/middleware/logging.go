package middleware

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLogging logs one line per completed request. Server errors are
// prefixed so they stand out when scanning console output.
func RequestLogging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			req := c.Request()
			status := c.Response().Status
			prefix := ""
			if status >= 500 {
				prefix = "ERROR "
			}
			log.Printf("%s%s %s %d %s %s",
				prefix, req.Method, req.RequestURI, status,
				time.Since(start).Round(time.Microsecond), req.RemoteAddr)

			return err
		}
	}
}
