package middleware

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
)

// Logging emits one line per request carrying the request id, route and
// timing. Handler errors are resolved into a response before the line is
// written so the logged status is the one the client saw.
func Logging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			if err != nil {
				c.Error(err)
			}

			log.Printf("request_id=%s method=%s path=%s status=%d latency=%s",
				RequestIDFromContext(c), c.Request().Method, c.Request().URL.Path, c.Response().Status, time.Since(start))

			return err
		}
	}
}
