package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/taskforge/task-tracker-api/internal/errors"
)

// RateLimiter is a fixed-window request limiter keyed by client IP.
// Windows live in process memory; restarting the server resets them.
type RateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	message string
	clients map[string]*windowCount
}

type windowCount struct {
	start time.Time
	count int
}

// NewRateLimiter creates a limiter allowing max requests per window. The
// message is returned verbatim in the 429 body.
func NewRateLimiter(window time.Duration, max int, message string) *RateLimiter {
	return &RateLimiter{
		window:  window,
		max:     max,
		message: message,
		clients: make(map[string]*windowCount),
	}
}

// Allow records a hit for the given key and reports whether it is within
// the current window's budget.
func (l *RateLimiter) Allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.clients[key]
	if !ok || now.Sub(entry.start) >= l.window {
		l.clients[key] = &windowCount{start: now, count: 1}
		l.prune(now)
		return true
	}

	entry.count++
	return entry.count <= l.max
}

// Middleware rejects over-budget requests with 429.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			apierrors.TooManyRequests(c, l.message)
			c.Abort()
			return
		}
		c.Next()
	}
}

// prune drops expired windows. Called with the lock held, on the cheap
// path where a new window is being opened.
func (l *RateLimiter) prune(now time.Time) {
	for key, entry := range l.clients {
		if now.Sub(entry.start) >= l.window {
			delete(l.clients, key)
		}
	}
}
