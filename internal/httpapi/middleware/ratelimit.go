package middleware

import (
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/ergolab/consulta/internal/common"
	"github.com/gin-gonic/gin"
)

type windowEntry struct {
	start time.Time
	count int
}

// RateLimiter admits up to max requests per key per fixed window. Counters for
// different keys are fully independent.
type RateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	now     func() time.Time
	entries map[string]*windowEntry
}

func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		window:  window,
		max:     max,
		now:     time.Now,
		entries: make(map[string]*windowEntry),
	}
}

// Allow reports whether a request under key is admitted; when rejected it also
// returns how long until the current window rolls over.
func (l *RateLimiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok || now.Sub(e.start) >= l.window {
		l.entries[key] = &windowEntry{start: now, count: 1}
		return true, 0
	}
	if e.count < l.max {
		e.count++
		return true, 0
	}
	return false, e.start.Add(l.window).Sub(now)
}

// RateLimit rejects over-threshold requests with 429, a Retry-After hint and
// the given user-facing message. Requests are keyed by client address.
func RateLimit(l *RateLimiter, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retryAfter := l.Allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", fmt.Sprintf("%d", int(math.Ceil(retryAfter.Seconds()))))
			common.Fail(c, http.StatusTooManyRequests, message)
			c.Abort()
			return
		}
		c.Next()
	}
}
