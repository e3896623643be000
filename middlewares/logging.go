package middlewares

import (
	"time"

	"github.com/dmitrymomot/relay/internal"
)

// LoggingConfig configures the request logging middleware.
type LoggingConfig struct {
	// SkipPaths lists exact request paths that are never logged
	// (health checks, metrics scrapes).
	SkipPaths []string
}

// LoggingOption configures LoggingConfig.
type LoggingOption func(*LoggingConfig)

// WithLoggingSkipPaths sets paths excluded from request logging.
func WithLoggingSkipPaths(paths ...string) LoggingOption {
	return func(cfg *LoggingConfig) {
		cfg.SkipPaths = paths
	}
}

// Logging returns middleware that logs one line per dispatch with the
// method, path, resulting status code and duration. Failed dispatches
// log at error level with the error attached.
func Logging(opts ...LoggingOption) internal.Middleware {
	cfg := &LoggingConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (*internal.Response, error) {
			req := c.Request()
			if _, ok := skip[req.Path]; ok {
				return next(c)
			}

			start := time.Now()
			resp, err := next(c)
			dur := time.Since(start)

			status := 0
			if resp != nil {
				status = resp.StatusCode
			}

			if err != nil {
				c.LogError("request failed",
					"method", req.Method,
					"path", req.Path,
					"duration", dur.String(),
					"error", err,
				)
			} else {
				c.LogInfo("request",
					"method", req.Method,
					"path", req.Path,
					"status", status,
					"duration", dur.String(),
				)
			}

			return resp, err
		}
	}
}
