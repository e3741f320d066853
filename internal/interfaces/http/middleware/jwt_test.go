package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labstock/backend/internal/infrastructure/auth"
	"github.com/labstock/backend/internal/infrastructure/config"
)

func newTestJWT(t *testing.T) *auth.JWTService {
	t.Helper()
	return auth.NewJWTService(config.JWTConfig{
		Secret:                strings.Repeat("s", 32),
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "labstock-test",
	})
}

func newJWTTestRouter(svc *auth.JWTService) *gin.Engine {
	router := gin.New()
	router.Use(JWTAuthMiddleware(svc))
	router.GET("/protected", func(c *gin.Context) {
		c.String(http.StatusOK, GetJWTUserID(c))
	})
	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestJWTAuthMiddleware(t *testing.T) {
	svc := newTestJWT(t)
	router := newJWTTestRouter(svc)

	t.Run("rejects missing header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects malformed header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("accepts valid token and exposes user ID", func(t *testing.T) {
		userID := uuid.New()
		token, err := svc.GenerateToken(userID, "Ada", "manager")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID.String(), w.Body.String())
	})

	t.Run("skips configured paths", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestOptionalJWTAuthMiddleware(t *testing.T) {
	svc := newTestJWT(t)
	router := gin.New()
	router.Use(OptionalJWTAuthMiddleware(svc))
	router.GET("/open", func(c *gin.Context) {
		c.String(http.StatusOK, GetJWTUserID(c))
	})

	t.Run("passes through without token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/open", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("extracts claims when token present", func(t *testing.T) {
		userID := uuid.New()
		token, err := svc.GenerateToken(userID, "Ada", "researcher")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/open", nil)
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, userID.String(), w.Body.String())
	})
}
