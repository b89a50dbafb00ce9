package api

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

const (
	visitorIdleTTL         = 3 * time.Minute
	visitorCleanupInterval = time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a token bucket per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(requestsPerSecond),
		burst:    burst,
		now:      time.Now,
	}
}

func (limiter *RateLimiter) visitorLimiter(key string) *rate.Limiter {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	now := limiter.now()
	current, exists := limiter.visitors[key]
	if !exists {
		current = &visitor{limiter: rate.NewLimiter(limiter.limit, limiter.burst)}
		limiter.visitors[key] = current
	}
	current.lastSeen = now
	return current.limiter
}

func (limiter *RateLimiter) Middleware(c *fiber.Ctx) error {
	if !limiter.visitorLimiter(requestLimiterKey(c)).AllowN(limiter.now(), 1) {
		c.Set(fiber.HeaderRetryAfter, "1")
		return apiError(c, fiber.StatusTooManyRequests, "too many requests")
	}
	return c.Next()
}

// prune drops visitors idle for longer than visitorIdleTTL.
func (limiter *RateLimiter) prune() int {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	now := limiter.now()
	removed := 0
	for key, current := range limiter.visitors {
		if now.Sub(current.lastSeen) > visitorIdleTTL {
			delete(limiter.visitors, key)
			removed++
		}
	}
	return removed
}

// Cleanup prunes idle visitors until ctx is done.
func (limiter *RateLimiter) Cleanup(ctx context.Context) {
	ticker := time.NewTicker(visitorCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.prune()
		}
	}
}
