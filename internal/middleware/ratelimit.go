package middleware

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
)

// RateLimitConfig defines the limit for a route group.
type RateLimitConfig struct {
	Max    int                      // requests allowed per window
	Window time.Duration            // window length
	KeyFn  func(c fiber.Ctx) string // extracts the limit key (IP, user id)
}

// bucket tracks request count for one key within the current window.
type bucket struct {
	count   int
	resetAt time.Time
}

// RateLimiter is an in-memory fixed-window rate limiter. State lives in
// process memory, so limits apply per instance rather than globally.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	cfg     RateLimitConfig
}

func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		cfg:     cfg,
	}
	go rl.evictLoop()
	return rl
}

// take records one request for key and reports whether it fits in the
// window, along with the remaining budget and window reset time.
func (rl *RateLimiter) take(key string) (allowed bool, remaining int, resetAt time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[key]
	if !ok || now.After(b.resetAt) {
		b = &bucket{count: 1, resetAt: now.Add(rl.cfg.Window)}
		rl.buckets[key] = b
		return true, rl.cfg.Max - 1, b.resetAt
	}

	b.count++
	remaining = rl.cfg.Max - b.count
	if remaining < 0 {
		return false, 0, b.resetAt
	}
	return true, remaining, b.resetAt
}

// Allow records one request for key and reports whether it is within the
// limit. Used directly in tests; Handler wraps it for Fiber.
func (rl *RateLimiter) Allow(key string) bool {
	ok, _, _ := rl.take(key)
	return ok
}

// Handler returns a Fiber middleware enforcing the limit.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		allowed, remaining, resetAt := rl.take(rl.cfg.KeyFn(c))

		c.Set("X-RateLimit-Limit", strconv.Itoa(rl.cfg.Max))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if !allowed {
			retryAfter := int(time.Until(resetAt).Seconds()) + 1
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": fiber.Map{
					"code":       "RATE_LIMITED",
					"message":    fmt.Sprintf("Too many requests. Try again in %d seconds.", retryAfter),
					"retryAfter": retryAfter,
				},
			})
		}

		return c.Next()
	}
}

func (rl *RateLimiter) evictLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, b := range rl.buckets {
			if now.After(b.resetAt) {
				delete(rl.buckets, key)
			}
		}
		rl.mu.Unlock()
	}
}

// KeyByIP returns the client IP as the rate limit key.
func KeyByIP(c fiber.Ctx) string {
	return "ip:" + c.IP()
}

// KeyByUser returns the authenticated user as the rate limit key, falling
// back to IP for anonymous requests.
func KeyByUser(c fiber.Ctx) string {
	if uid := UserID(c); uid != nil {
		return fmt.Sprintf("user:%d", *uid)
	}
	return "ip:" + c.IP()
}

// NewListRateLimiter: 100 req/min per IP for segment listings.
func NewListRateLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{Max: 100, Window: time.Minute, KeyFn: KeyByIP})
}

// NewSubmitRateLimiter: 10 req/min per user for segment submissions.
func NewSubmitRateLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{Max: 10, Window: time.Minute, KeyFn: KeyByUser})
}

// NewVoteRateLimiter: 30 req/min per user for vote casting.
func NewVoteRateLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{Max: 30, Window: time.Minute, KeyFn: KeyByUser})
}

// NewAuthRateLimiter: 10 req/min per IP for login and registration.
func NewAuthRateLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{Max: 10, Window: time.Minute, KeyFn: KeyByIP})
}
