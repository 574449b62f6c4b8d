package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	t.Parallel()

	r := NewRateLimiter(10, time.Minute)
	for i := 0; i < 10; i++ {
		assert.True(t, r.Allow("u1"), "request %d", i+1)
	}
	assert.False(t, r.Allow("u1"), "request past the ceiling")
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	r := NewRateLimiter(1, time.Minute)
	assert.True(t, r.Allow("u1"))
	assert.False(t, r.Allow("u1"))
	assert.True(t, r.Allow("u2"))
}

func TestRateLimiter_LazyWindowReset(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	r := NewRateLimiter(2, time.Minute)
	r.now = func() time.Time { return now }

	assert.True(t, r.Allow("u1"))
	assert.True(t, r.Allow("u1"))
	assert.False(t, r.Allow("u1"))

	// still inside the window
	now = now.Add(59 * time.Second)
	assert.False(t, r.Allow("u1"))

	// window elapsed: the next request starts a fresh one
	now = now.Add(2 * time.Second)
	assert.True(t, r.Allow("u1"))
	assert.True(t, r.Allow("u1"))
	assert.False(t, r.Allow("u1"))
}

func TestRateLimiter_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := NewRateLimiter(2, time.Minute)
	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set("userID", "u1") })
	router.Use(limiter.Middleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
