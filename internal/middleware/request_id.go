package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/postline/backend/internal/constants"
)

// RequestID tags every request with an id, reusing the client's when given.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(string(constants.CtxKeyRequestID), requestID)
		c.Header(constants.HeaderXRequestID, requestID)

		c.Next()
	}
}
