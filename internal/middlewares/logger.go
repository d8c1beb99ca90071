// Package middlewares holds the gin middleware the admin HTTP surface
// applies to every route (spec §6 expansion).
package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger logs each request's start (method, path, query, client IP,
// user-agent, timestamp) and end (plus status code and latency), the
// same structured fields the teacher's doc.go documents for its own
// request logging.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		log := zap.S().Named("http")

		log.Infow("request start",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"ip", c.ClientIP(),
			"user-agent", c.Request.UserAgent(),
			"request_id", c.GetString("request_id"),
			"time", start,
		)

		c.Next()

		fields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"ip", c.ClientIP(),
			"user-agent", c.Request.UserAgent(),
			"request_id", c.GetString("request_id"),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		}
		if len(c.Errors) > 0 {
			log.Errorw("request errors", append(fields, "errors", c.Errors.String())...)
			return
		}
		log.Infow("request end", fields...)
	}
}
