package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a per-user, per-instance request throttle with a fixed
// window and lazy reset: the first request after the window elapses starts a
// fresh one. State lives in process memory, so in a multi-instance
// deployment this is best-effort per instance, not a global guarantee.
type RateLimiter struct {
	mu      sync.Mutex
	entries map[string]*rateEntry
	window  time.Duration
	limit   int
	now     func() time.Time
}

type rateEntry struct {
	count int
	start time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		entries: make(map[string]*rateEntry),
		window:  window,
		limit:   limit,
		now:     time.Now,
	}
}

// Allow records one request for key and reports whether it is within the limit.
func (r *RateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	e, ok := r.entries[key]
	if !ok || now.Sub(e.start) > r.window {
		r.entries[key] = &rateEntry{count: 1, start: now}
		return true
	}
	if e.count >= r.limit {
		return false
	}
	e.count++
	return true
}

// Middleware throttles by the authenticated user id; it must run after
// AuthMiddleware.
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("userID")
		if !r.Allow(uid) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		c.Next()
	}
}
