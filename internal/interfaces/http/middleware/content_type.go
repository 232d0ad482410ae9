package middleware

import (
	"mime"
	"net/http"

	"github.com/erp/customers/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireContentType answers 415 unless the request's media type is
// mediaType. Parameters such as charset are ignored.
func RequireContentType(mediaType string) gin.HandlerFunc {
	message := "Content-Type must be " + mediaType

	return func(c *gin.Context) {
		header := c.GetHeader("Content-Type")
		if header == "" {
			logger.GetGinLogger(c).Warn("No Content-Type specified")
			AbortWithError(c, http.StatusUnsupportedMediaType, message)
			return
		}

		got, _, err := mime.ParseMediaType(header)
		if err != nil || got != mediaType {
			logger.GetGinLogger(c).Warn("Invalid Content-Type", zap.String("content_type", header))
			AbortWithError(c, http.StatusUnsupportedMediaType, message)
			return
		}
		c.Next()
	}
}

// RequireJSON is RequireContentType for application/json
func RequireJSON() gin.HandlerFunc {
	return RequireContentType("application/json")
}
