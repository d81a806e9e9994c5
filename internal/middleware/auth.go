package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIKeyHeader is the header service clients authenticate with.
const APIKeyHeader = "X-API-Key"

// APIKeyAuth validates the X-API-Key header against the configured key and
// stores a client identifier for downstream middleware. Comparison is
// constant-time.
func APIKeyAuth(apiKey string) gin.HandlerFunc {
	expected := []byte(apiKey)
	return func(c *gin.Context) {
		provided := c.GetHeader(APIKeyHeader)
		if provided == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing API key"})
			c.Abort()
			return
		}
		if subtle.ConstantTimeCompare([]byte(provided), expected) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			c.Abort()
			return
		}

		c.Set("client_id", clientID(c))
		c.Next()
	}
}

// clientID identifies the caller for rate limiting. All holders of the
// shared key are one logical client per source address.
func clientID(c *gin.Context) string {
	return c.ClientIP()
}
