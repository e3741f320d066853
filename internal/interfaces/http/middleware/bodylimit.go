package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/labstock/backend/internal/interfaces/http/dto"
)

// BodyLimit rejects requests whose declared Content-Length exceeds maxBytes
// and caps streaming bodies at the same limit. A non-positive limit disables
// the check.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse("REQUEST_TOO_LARGE", "Request body exceeds maximum allowed size"))
			return
		}

		// Chunked requests carry no Content-Length, so cap the reader too
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
