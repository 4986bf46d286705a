package server

import (
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const headerRequestID = "X-Request-Id"

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(headerRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(headerRequestID, id)
		c.Next()
	}
}

// rateLimiter is a fixed-window in-process limiter used where the redis
// limiter is not configured. Good enough for the dev confirm endpoint; the
// share path uses the redis bucket when available.
type rateLimiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	counts map[string]*rateWindow
}

type rateWindow struct {
	start time.Time
	count int
}

func newRateLimiter(max int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		max:    max,
		window: window,
		counts: make(map[string]*rateWindow),
	}
}

func (r *rateLimiter) Allow(key string) bool {
	if r == nil || r.max <= 0 {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	w, ok := r.counts[key]
	if !ok || now.Sub(w.start) >= r.window {
		r.counts[key] = &rateWindow{start: now, count: 1}
		r.sweep(now)
		return true
	}
	if w.count >= r.max {
		return false
	}
	w.count++
	return true
}

// sweep drops expired windows so the map cannot grow without bound. Called
// with the lock held.
func (r *rateLimiter) sweep(now time.Time) {
	if len(r.counts) < 1024 {
		return
	}
	for key, w := range r.counts {
		if now.Sub(w.start) >= r.window {
			delete(r.counts, key)
		}
	}
}
