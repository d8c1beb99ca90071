package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestIDHeader is the header clients can set to propagate a
// correlation ID from an upstream caller; RequestID generates one when
// absent, the same role `uuid.NewString()` plays for the teacher's own
// console-protocol message IDs.
const requestIDHeader = "X-Request-Id"

// RequestID stamps every request with a correlation ID (generating one if
// the caller didn't supply one), storing it in the gin context under
// "request_id" and echoing it back on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}
