package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupAuthRouter(apiKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(APIKeyAuth(apiKey))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"client_id": c.GetString("client_id")})
	})
	return router
}

func TestAPIKeyAuthMissingKey(t *testing.T) {
	router := setupAuthRouter("secret")

	req := httptest.NewRequest("GET", "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing API key")
}

func TestAPIKeyAuthInvalidKey(t *testing.T) {
	router := setupAuthRouter("secret")

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(APIKeyHeader, "wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid API key")
}

func TestAPIKeyAuthValidKey(t *testing.T) {
	router := setupAuthRouter("secret")

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(APIKeyHeader, "secret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "client_id")
}
