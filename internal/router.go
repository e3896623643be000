package internal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"reflect"

	"github.com/dmitrymomot/relay/pkg/container"
	"github.com/dmitrymomot/relay/pkg/validator"
)

// Router owns the immutable route table and performs dispatch: match the
// route, compose the middleware chain, resolve handler arguments, invoke
// the target method, and adapt the result to a normalized Response.
//
// The route table and the container are read-only once registration
// completes, so concurrent dispatches share them without locking. Each
// dispatch owns its own Context, middleware chain, and argument list.
type Router struct {
	container *container.Container
	log       *slog.Logger
	global    []Middleware
	routes    []*Route
}

// NewRouter creates a router bound to a container. Global middleware runs
// first on every dispatch, in the given order.
func NewRouter(cont *container.Container, log *slog.Logger, global ...Middleware) *Router {
	if log == nil {
		log = slog.Default()
	}
	return &Router{
		container: cont,
		log:       log,
		global:    global,
	}
}

// Routes returns a copy of the route table, in registration order.
func (r *Router) Routes() []*Route {
	return append([]*Route(nil), r.routes...)
}

// Dispatch resolves one normalized request to a normalized response.
//
// Routing misses and validation failures are converted to responses here
// and never escape as errors: the transport always receives a Response.
// Routes are tried in registration order; the first structural match wins,
// so more specific literal routes should be registered before overlapping
// parameterized ones.
func (r *Router) Dispatch(ctx context.Context, req *Request) *Response {
	route, params := r.match(req.Method, req.Path)
	if route == nil {
		return notFoundResponse()
	}

	c := newContext(ctx, req, params, r.log.With(slog.String("handler", route.Handler())))

	terminal := func(c Context) (*Response, error) {
		return r.invoke(c, route)
	}

	mw := make([]Middleware, 0, len(r.global)+len(route.middleware))
	mw = append(mw, r.global...)
	mw = append(mw, route.middleware...)

	resp, err := buildChain(terminal, mw)(c)
	if err != nil {
		return r.errorResponse(c, route, err)
	}
	if resp == nil {
		resp = OK(nil).Response()
	}
	return resp
}

// match finds the first registered route whose method and pattern match,
// returning it with the bound path parameters.
func (r *Router) match(method, path string) (*Route, map[string]string) {
	for _, route := range r.routes {
		if route.method != method {
			continue
		}
		if params := route.pattern.match(path); params != nil {
			return route, params
		}
	}
	return nil, nil
}

// invoke is the terminal action of the middleware chain: build the
// argument list, construct the controller through the container, call the
// target method, and adapt its return values.
func (r *Router) invoke(c Context, route *Route) (*Response, error) {
	args, err := resolveArgs(c, route.params, r.container)
	if err != nil {
		return nil, err
	}

	ctrl, err := r.container.Resolve(route.controller)
	if err != nil {
		return nil, err
	}

	in := make([]reflect.Value, 0, len(args)+1)
	in = append(in, reflect.ValueOf(ctrl))
	in = append(in, args...)

	return adaptReturn(route.fn.Call(in))
}

// adaptReturn converts a target method's return values to a Response.
// Supported shapes, validated at registration: (), (error), (T) and
// (T, error). A *Response passes through unchanged, an *Outcome converts
// deterministically, anything else is wrapped as a generic success payload.
func adaptReturn(out []reflect.Value) (*Response, error) {
	var payload any
	for _, v := range out {
		if v.Type() == errorType {
			if !v.IsNil() {
				return nil, v.Interface().(error)
			}
			continue
		}
		payload = v.Interface()
	}

	switch v := payload.(type) {
	case nil:
		return OK(nil).Response(), nil
	case *Response:
		return v, nil
	case *Outcome:
		return v.Response(), nil
	default:
		return OK(v).Response(), nil
	}
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// errorResponse converts an error escaping the middleware chain into a
// response. Validation aggregates become 422 with the full field→messages
// map, route misses fold into the 404 outcome, and everything else is a
// 500-class configuration or internal error, logged loudly.
func (r *Router) errorResponse(c Context, route *Route, err error) *Response {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		o := &Outcome{
			Success:    false,
			Message:    "validation failed",
			Errors:     verrs.Fields(),
			StatusCode: http.StatusUnprocessableEntity,
		}
		return o.Response()
	}

	if errors.Is(err, errRouteMiss) {
		// Indistinguishable from "no such route" on purpose.
		return notFoundResponse()
	}

	if httpErr := AsHTTPError(err); httpErr != nil {
		o := &Outcome{
			Success:    false,
			Message:    httpErr.Message,
			StatusCode: httpErr.Code,
		}
		if httpErr.ErrorCode != "" {
			o.WithMeta("error_code", httpErr.ErrorCode)
		}
		return o.Response()
	}

	c.LogError("dispatch failed", "route", route.Handler(), "error", err)
	return Fail(http.StatusInternalServerError, "internal server error").Response()
}

// notFoundResponse is the terminal outcome for routing misses and
// path-coercion failures. It is a normal outcome, not an error.
func notFoundResponse() *Response {
	return Fail(http.StatusNotFound, "not found").Response()
}
