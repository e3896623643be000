package middlewares

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrymomot/relay/internal"
)

// claimsKey is the context key for storing verified token claims.
type claimsKey struct{}

// AuthConfig configures the auth middleware.
type AuthConfig struct {
	Extractor    internal.Extractor
	Methods      []string // Accepted signing methods (default: HS256)
	extractorSet bool
}

// AuthOption configures AuthConfig.
type AuthOption func(*AuthConfig)

// WithAuthExtractor sets a custom token extractor chain. The default
// reads the Authorization header's bearer token.
func WithAuthExtractor(ext internal.Extractor) AuthOption {
	return func(cfg *AuthConfig) {
		cfg.Extractor = ext
		cfg.extractorSet = true
	}
}

// WithAuthMethods sets the accepted JWT signing methods.
func WithAuthMethods(methods ...string) AuthOption {
	return func(cfg *AuthConfig) {
		cfg.Methods = methods
	}
}

// Auth returns middleware that extracts a JWT from the request, verifies
// it against the signing key, and stores the claims in the context.
// Missing, expired, and malformed tokens all short-circuit with 401.
func Auth(signingKey []byte, opts ...AuthOption) internal.Middleware {
	cfg := &AuthConfig{
		Methods: []string{"HS256"},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if !cfg.extractorSet {
		cfg.Extractor = internal.NewExtractor(
			internal.FromBearerToken(),
		)
	}

	parser := jwt.NewParser(jwt.WithValidMethods(cfg.Methods))

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (*internal.Response, error) {
			token, ok := cfg.Extractor.Extract(c)
			if !ok || token == "" {
				return nil, internal.ErrUnauthorized("missing authentication token")
			}

			claims := jwt.MapClaims{}
			_, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
				return signingKey, nil
			})
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					return nil, internal.ErrUnauthorized("token expired")
				}
				return nil, internal.ErrUnauthorized("invalid token")
			}

			c.Set(claimsKey{}, claims)

			return next(c)
		}
	}
}

// GetClaims extracts verified token claims from the context.
// Returns nil when the auth middleware did not run.
func GetClaims(c internal.Context) jwt.MapClaims {
	if v, ok := c.Get(claimsKey{}).(jwt.MapClaims); ok {
		return v
	}
	return nil
}

// GetSubject returns the "sub" claim of the verified token, or empty
// string.
func GetSubject(c internal.Context) string {
	claims := GetClaims(c)
	if claims == nil {
		return ""
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}
