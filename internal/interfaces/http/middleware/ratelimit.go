package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is an in-memory fixed window limiter keyed by client.
// Idle clients are evicted by a janitor goroutine until Stop is called.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*rateWindow
	limit   int
	window  time.Duration
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type rateWindow struct {
	used    int
	started time.Time
}

// DefaultRateLimitWindow replaces a window that is not positive
const DefaultRateLimitWindow = time.Minute

// NewRateLimiter allows limit requests per client in every window
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = DefaultRateLimitWindow
	}
	rl := &RateLimiter{
		clients: make(map[string]*rateWindow),
		limit:   limit,
		window:  window,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go rl.evictLoop(window * 2)
	return rl
}

// Limit returns the number of requests allowed per window
func (rl *RateLimiter) Limit() int {
	return rl.limit
}

// Stop ends the eviction goroutine. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) evictLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.evictIdle()
		}
	}
}

func (rl *RateLimiter) evictIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, w := range rl.clients {
		if now.Sub(w.started) > rl.window*2 {
			delete(rl.clients, key)
		}
	}
}

// Allow consumes one request for key. It returns the requests left in the
// current window and, when the request is refused, how long until the
// window resets.
func (rl *RateLimiter) Allow(key string) (remaining int, retryAfter time.Duration, ok bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, exists := rl.clients[key]
	if !exists || now.Sub(w.started) >= rl.window {
		w = &rateWindow{started: now}
		rl.clients[key] = w
	}

	if w.used >= rl.limit {
		return 0, w.started.Add(rl.window).Sub(now), false
	}
	w.used++
	return rl.limit - w.used, 0, true
}

// RateLimit refuses requests over the limiter's budget with 429.
// Requests are keyed by client IP; skipPaths are never counted.
func RateLimit(limiter *RateLimiter, skipPaths ...string) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}

	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}
	limit := strconv.Itoa(limiter.Limit())

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		remaining, retryAfter, ok := limiter.Allow(c.ClientIP())
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !ok {
			seconds := int(math.Ceil(retryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(max(seconds, 1)))
			AbortWithError(c, http.StatusTooManyRequests, "Too many requests, please retry later.")
			return
		}
		c.Next()
	}
}
