// Package middlewares provides dispatch middleware for relay applications.
//
// # Request ID
//
// RequestID assigns a unique ID to each dispatch for tracing. Incoming
// IDs on known headers are preserved; otherwise a new one is generated:
//
//	app := relay.New(
//	    relay.WithMiddleware(
//	        middlewares.RequestID(),
//	    ),
//	)
//
// Pair it with RequestIDExtractor() and pkg/logger so every log line
// carries the request_id attribute.
//
// # Recover
//
// Recover catches panics from handlers and converts them to a
// PanicError, which the router renders as a 500 response:
//
//	relay.WithMiddleware(middlewares.Recover())
//
// # Logging
//
// Logging writes one line per dispatch with method, path, status and
// duration.
//
// # Rate limiting
//
// RateLimit enforces a fixed-window limit on a cache.Counter. Use the
// in-memory counter for one process, the Redis counter across replicas:
//
//	relay.WithMiddleware(
//	    middlewares.RateLimit(cache.NewMemoryCounter(), 100, time.Minute),
//	)
//
// # Auth
//
// Auth verifies a bearer JWT and stores the claims in the context:
//
//	relay.WithMiddleware(middlewares.Auth([]byte(secret)))
//
//	func (c *ProfileController) Show(ctx relay.Context) (*relay.Outcome, error) {
//	    userID := middlewares.GetSubject(ctx)
//	    ...
//	}
//
// # CORS and I18n
//
// CORS answers preflight requests and attaches the cross-origin headers.
// I18n resolves the request language and localizes validation errors on
// their way out.
package middlewares
