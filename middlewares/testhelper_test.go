package middlewares_test

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/dmitrymomot/relay/internal"
)

// testContext is a minimal internal.Context for exercising middleware
// without a router.
type testContext struct {
	req    *internal.Request
	params map[string]string
	values map[any]any
	logger *slog.Logger
}

func newTestContext(req *internal.Request) *testContext {
	if req == nil {
		req = &internal.Request{Method: "GET", Path: "/"}
	}
	if req.Query == nil {
		req.Query = url.Values{}
	}
	return &testContext{
		req:    req,
		values: make(map[any]any),
		logger: slog.New(slog.DiscardHandler),
	}
}

func (c *testContext) Deadline() (time.Time, bool) { return time.Time{}, false }
func (c *testContext) Done() <-chan struct{}       { return nil }
func (c *testContext) Err() error                  { return nil }

func (c *testContext) Value(key any) any {
	if v, ok := c.values[key]; ok {
		return v
	}
	return context.Background().Value(key)
}

func (c *testContext) Request() *internal.Request { return c.req }
func (c *testContext) Param(name string) string   { return c.params[name] }
func (c *testContext) Query(name string) string   { return c.req.Query.Get(name) }

func (c *testContext) QueryDefault(name, defaultValue string) string {
	if v := c.req.Query.Get(name); v != "" {
		return v
	}
	return defaultValue
}

func (c *testContext) Field(name string) (any, bool) { return c.req.Field(name) }
func (c *testContext) Header(name string) string     { return c.req.Header(name) }

func (c *testContext) Set(key, val any) { c.values[key] = val }

func (c *testContext) Get(key any) any { return c.values[key] }

func (c *testContext) Logger() *slog.Logger { return c.logger }

func (c *testContext) LogInfo(msg string, args ...any)  { c.logger.Info(msg, args...) }
func (c *testContext) LogError(msg string, args ...any) { c.logger.Error(msg, args...) }

// okHandler returns a fixed 200 response.
func okHandler(body any) internal.HandlerFunc {
	return func(c internal.Context) (*internal.Response, error) {
		return internal.NewResponse(200, body), nil
	}
}
