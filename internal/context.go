package internal

import (
	"context"
	"log/slog"
	"time"
)

// Context provides request access and helper methods for one dispatch.
// It also implements context.Context by delegating to the context the
// transport attached to the dispatch.
//
// A Context is created per dispatch and is never shared across concurrent
// dispatches. It is what middleware and target methods receive.
type Context interface {
	context.Context

	// Request returns the normalized request value.
	Request() *Request

	// Param returns the bound path parameter value by name.
	// Returns empty string if the parameter doesn't exist.
	Param(name string) string

	// Query returns the query parameter value by name.
	// Returns empty string if the parameter doesn't exist.
	Query(name string) string

	// QueryDefault returns the query parameter value or a default.
	QueryDefault(name, defaultValue string) string

	// Field returns the named body field (uploaded files included).
	Field(name string) (any, bool)

	// Header returns the request header value by name.
	Header(name string) string

	// Set stores a request-scoped value. Used by middleware to pass
	// values (request ID, auth claims) downstream.
	Set(key, val any)

	// Get retrieves a request-scoped value. Returns nil if not set.
	Get(key any) any

	// Logger returns the request-scoped logger.
	Logger() *slog.Logger

	// LogInfo logs an info message with the request-scoped logger.
	LogInfo(msg string, args ...any)

	// LogError logs an error message with the request-scoped logger.
	LogError(msg string, args ...any)
}

// dispatchContext is the Context implementation created by the router
// for each dispatch.
type dispatchContext struct {
	ctx    context.Context
	req    *Request
	params map[string]string
	values map[any]any
	logger *slog.Logger
}

func newContext(ctx context.Context, req *Request, params map[string]string, logger *slog.Logger) *dispatchContext {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &dispatchContext{
		ctx:    ctx,
		req:    req,
		params: params,
		logger: logger,
	}
}

// context.Context delegation.

func (c *dispatchContext) Deadline() (time.Time, bool) { return c.ctx.Deadline() }
func (c *dispatchContext) Done() <-chan struct{}       { return c.ctx.Done() }
func (c *dispatchContext) Err() error                  { return c.ctx.Err() }

func (c *dispatchContext) Value(key any) any {
	if v, ok := c.values[key]; ok {
		return v
	}
	return c.ctx.Value(key)
}

func (c *dispatchContext) Request() *Request { return c.req }

func (c *dispatchContext) Param(name string) string { return c.params[name] }

func (c *dispatchContext) Query(name string) string {
	return c.req.Query.Get(name)
}

func (c *dispatchContext) QueryDefault(name, defaultValue string) string {
	if v := c.req.Query.Get(name); v != "" {
		return v
	}
	return defaultValue
}

func (c *dispatchContext) Field(name string) (any, bool) { return c.req.Field(name) }

func (c *dispatchContext) Header(name string) string { return c.req.Header(name) }

func (c *dispatchContext) Set(key, val any) {
	if c.values == nil {
		c.values = make(map[any]any)
	}
	c.values[key] = val
}

func (c *dispatchContext) Get(key any) any {
	if c.values == nil {
		return nil
	}
	return c.values[key]
}

func (c *dispatchContext) Logger() *slog.Logger { return c.logger }

func (c *dispatchContext) LogInfo(msg string, args ...any) {
	c.logger.InfoContext(c, msg, args...)
}

func (c *dispatchContext) LogError(msg string, args ...any) {
	c.logger.ErrorContext(c, msg, args...)
}
