package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wmsbridge/backend/internal/interfaces/http/dto"
)

// DefaultMaxBodySize matches the 50 MB JSON limit of the local proxy.
const DefaultMaxBodySize int64 = 50 << 20

// BodyLimit returns a middleware that limits request body size
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodySize
	}
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse(dto.MsgRequestTooLarge))
			return
		}

		// Bodies without a declared length are cut off while streaming.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
