package middlewares

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/relay/internal"
)

// DefaultCORSMaxAge is the default preflight cache duration.
const DefaultCORSMaxAge = 12 * time.Hour

// DefaultCORSConfig provides sensible defaults for CORS.
var DefaultCORSConfig = CORSConfig{
	AllowOrigins: []string{"*"},
	AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
	AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
	MaxAge:       DefaultCORSMaxAge,
}

// CORSConfig configures the CORS middleware.
type CORSConfig struct {
	// AllowOrigins is a static list of allowed origins.
	// Use "*" to allow all origins (not recommended with credentials).
	AllowOrigins []string

	// AllowOriginFunc is a dynamic origin validator. When set, it
	// completely overrides AllowOrigins for that request.
	AllowOriginFunc func(origin string) bool

	// AllowMethods specifies the allowed HTTP methods.
	AllowMethods []string

	// AllowHeaders specifies the allowed request headers.
	AllowHeaders []string

	// ExposeHeaders specifies headers exposed to the client.
	ExposeHeaders []string

	// AllowCredentials indicates whether credentials are allowed. When
	// true, Access-Control-Allow-Origin is never "*"; the actual origin
	// is echoed.
	AllowCredentials bool

	// MaxAge specifies how long preflight responses can be cached.
	MaxAge time.Duration
}

// CORSOption configures CORSConfig.
type CORSOption func(*CORSConfig)

// WithAllowOrigins sets the allowed origins.
func WithAllowOrigins(origins ...string) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.AllowOrigins = origins
	}
}

// WithAllowOriginFunc sets a dynamic origin validator.
func WithAllowOriginFunc(fn func(origin string) bool) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.AllowOriginFunc = fn
	}
}

// WithAllowMethods sets the allowed HTTP methods.
func WithAllowMethods(methods ...string) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.AllowMethods = methods
	}
}

// WithAllowHeaders sets the allowed request headers.
func WithAllowHeaders(headers ...string) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.AllowHeaders = headers
	}
}

// WithExposeHeaders sets the headers exposed to the client.
func WithExposeHeaders(headers ...string) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.ExposeHeaders = headers
	}
}

// WithAllowCredentials allows credentials in cross-origin requests.
func WithAllowCredentials() CORSOption {
	return func(cfg *CORSConfig) {
		cfg.AllowCredentials = true
	}
}

// WithCORSMaxAge sets the preflight cache duration.
func WithCORSMaxAge(d time.Duration) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.MaxAge = d
	}
}

// CORS returns middleware that handles cross-origin requests. Preflight
// OPTIONS requests short-circuit with 204; other requests get the CORS
// headers attached to whatever response the chain produces.
func CORS(opts ...CORSOption) internal.Middleware {
	cfg := DefaultCORSConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	allowMethods := strings.Join(cfg.AllowMethods, ", ")
	allowHeaders := strings.Join(cfg.AllowHeaders, ", ")
	exposeHeaders := strings.Join(cfg.ExposeHeaders, ", ")
	maxAge := strconv.Itoa(int(cfg.MaxAge.Seconds()))

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (*internal.Response, error) {
			origin := c.Header("Origin")
			if origin == "" {
				// Same-origin request, nothing to do.
				return next(c)
			}

			allowed := cfg.originAllowed(origin)

			if c.Request().Method == http.MethodOptions {
				resp := internal.NewResponse(http.StatusNoContent, nil)
				if allowed {
					cfg.setOriginHeaders(resp, origin)
					resp.SetHeader("Access-Control-Allow-Methods", allowMethods)
					if allowHeaders != "" {
						resp.SetHeader("Access-Control-Allow-Headers", allowHeaders)
					}
					if cfg.MaxAge > 0 {
						resp.SetHeader("Access-Control-Max-Age", maxAge)
					}
				}
				return resp, nil
			}

			resp, err := next(c)
			if resp != nil && allowed {
				cfg.setOriginHeaders(resp, origin)
				if exposeHeaders != "" {
					resp.SetHeader("Access-Control-Expose-Headers", exposeHeaders)
				}
			}
			return resp, err
		}
	}
}

func (cfg *CORSConfig) originAllowed(origin string) bool {
	if cfg.AllowOriginFunc != nil {
		return cfg.AllowOriginFunc(origin)
	}
	return slices.Contains(cfg.AllowOrigins, "*") || slices.Contains(cfg.AllowOrigins, origin)
}

func (cfg *CORSConfig) setOriginHeaders(resp *internal.Response, origin string) {
	if cfg.AllowCredentials {
		resp.SetHeader("Access-Control-Allow-Origin", origin)
		resp.SetHeader("Access-Control-Allow-Credentials", "true")
		resp.SetHeader("Vary", "Origin")
		return
	}
	if slices.Contains(cfg.AllowOrigins, "*") && cfg.AllowOriginFunc == nil {
		resp.SetHeader("Access-Control-Allow-Origin", "*")
		return
	}
	resp.SetHeader("Access-Control-Allow-Origin", origin)
	resp.SetHeader("Vary", "Origin")
}
