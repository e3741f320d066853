package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllow(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)

	assert.True(t, limiter.Allow("client"))
	assert.True(t, limiter.Allow("client"))
	assert.False(t, limiter.Allow("client"))

	// An unrelated key has its own budget.
	assert.True(t, limiter.Allow("other"))
}

func TestRateLimiterWindowReset(t *testing.T) {
	limiter := NewRateLimiter(1, 10*time.Millisecond)

	assert.True(t, limiter.Allow("client"))
	assert.False(t, limiter.Allow("client"))

	time.Sleep(15 * time.Millisecond)
	assert.True(t, limiter.Allow("client"))
}

func TestRateLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RateLimit(NewRateLimiter(1, time.Minute)))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
