package middlewares

import (
	"strconv"
	"time"

	"github.com/dmitrymomot/relay/internal"
	"github.com/dmitrymomot/relay/pkg/cache"
)

// KeyFunc derives the rate limit bucket key from the dispatch context.
type KeyFunc func(c internal.Context) string

// DefaultRateLimitKey buckets by client IP, preferring the
// X-Forwarded-For header a trusted proxy sets.
func DefaultRateLimitKey(c internal.Context) string {
	if ip := c.Header("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := c.Header("X-Real-IP"); ip != "" {
		return ip
	}
	return "unknown"
}

// RateLimitConfig configures the rate limit middleware.
type RateLimitConfig struct {
	Limit  int64         // Max requests per window
	Window time.Duration // Window duration
	Key    KeyFunc       // Bucket key derivation (default: client IP)
}

// RateLimitOption configures RateLimitConfig.
type RateLimitOption func(*RateLimitConfig)

// WithRateLimitKey sets a custom bucket key function, e.g. by API key
// or authenticated user instead of client IP.
func WithRateLimitKey(fn KeyFunc) RateLimitOption {
	return func(cfg *RateLimitConfig) {
		cfg.Key = fn
	}
}

// RateLimit returns middleware enforcing a fixed-window rate limit on
// the given counter. Use cache.NewMemoryCounter for a single process or
// cache.NewRedisCounter when the limit must hold across replicas.
//
// Requests over the limit short-circuit with 429 before the handler
// runs. Successful responses carry X-RateLimit-Limit and
// X-RateLimit-Remaining headers.
func RateLimit(counter cache.Counter, limit int64, window time.Duration, opts ...RateLimitOption) internal.Middleware {
	cfg := &RateLimitConfig{
		Limit:  limit,
		Window: window,
		Key:    DefaultRateLimitKey,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (*internal.Response, error) {
			n, err := counter.Incr(c, cfg.Key(c), cfg.Window)
			if err != nil {
				// Counter backend failure must not take the API down.
				c.LogError("rate limit counter failed", "error", err)
				return next(c)
			}

			if n > cfg.Limit {
				return nil, internal.ErrTooManyRequests("rate limit exceeded")
			}

			resp, nextErr := next(c)
			if resp != nil {
				resp.SetHeader("X-RateLimit-Limit", strconv.FormatInt(cfg.Limit, 10))
				resp.SetHeader("X-RateLimit-Remaining", strconv.FormatInt(max(cfg.Limit-n, 0), 10))
			}
			return resp, nextErr
		}
	}
}
