package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/xid"
)

const RequestIDHeader = "X-Request-ID"

// RequestID assigns every request a short sortable id, reusing the caller's
// if one was supplied.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = xid.New().String()
		}

		c.Set("request_id", requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)

		c.Next()
	}
}
