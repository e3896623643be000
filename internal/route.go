package internal

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Registration-time configuration errors. These abort startup: a broken
// route table is a programming error, not a runtime condition.
var (
	ErrDuplicateRoute    = errors.New("relay: duplicate route registration")
	ErrDuplicateParam    = errors.New("relay: duplicate path parameter name in pattern")
	ErrUnknownHandler    = errors.New("relay: controller has no such method")
	ErrUnboundParameter  = errors.New("relay: scalar parameter has no Path or Query binding")
	ErrUnmatchedBinding  = errors.New("relay: Path binding does not match any pattern parameter")
	ErrInvalidHandlerSig = errors.New("relay: unsupported handler method signature")
)

// RouteDef is the declarative route metadata a controller returns from
// Routes. It is converted into an immutable Route by the registration
// builder at startup.
type RouteDef struct {
	// Method is the HTTP method.
	Method string

	// Pattern is the path pattern, literal segments interleaved with
	// {name} parameter slots, e.g. "/users/{id}". The controller prefix,
	// if any, is prepended at registration time.
	Pattern string

	// Handler is the name of the controller method to invoke.
	Handler string

	// Bindings declare where scalar handler parameters come from, in the
	// order the scalar parameters appear in the method signature.
	Bindings []Binding

	// Middleware is applied to this route only, after global and
	// controller middleware.
	Middleware []Middleware
}

// GET declares a GET route.
func GET(pattern, handler string, bindings ...Binding) RouteDef {
	return RouteDef{Method: "GET", Pattern: pattern, Handler: handler, Bindings: bindings}
}

// POST declares a POST route.
func POST(pattern, handler string, bindings ...Binding) RouteDef {
	return RouteDef{Method: "POST", Pattern: pattern, Handler: handler, Bindings: bindings}
}

// PUT declares a PUT route.
func PUT(pattern, handler string, bindings ...Binding) RouteDef {
	return RouteDef{Method: "PUT", Pattern: pattern, Handler: handler, Bindings: bindings}
}

// PATCH declares a PATCH route.
func PATCH(pattern, handler string, bindings ...Binding) RouteDef {
	return RouteDef{Method: "PATCH", Pattern: pattern, Handler: handler, Bindings: bindings}
}

// DELETE declares a DELETE route.
func DELETE(pattern, handler string, bindings ...Binding) RouteDef {
	return RouteDef{Method: "DELETE", Pattern: pattern, Handler: handler, Bindings: bindings}
}

// Use attaches route-level middleware and returns the definition for chaining.
func (d RouteDef) Use(mw ...Middleware) RouteDef {
	d.Middleware = append(d.Middleware, mw...)
	return d
}

// Binding declares the source of one scalar handler parameter.
type Binding struct {
	source     paramSource
	name       string
	defaultVal string
	hasDefault bool
}

// Path binds a scalar parameter to the named path parameter.
func Path(name string) Binding {
	return Binding{source: sourcePath, name: name}
}

// Query binds a scalar parameter to the named query key.
// Absence of the key is a required-parameter failure unless a default is set.
func Query(name string) Binding {
	return Binding{source: sourceQuery, name: name}
}

// Default sets the value used when the bound query key is absent,
// making the parameter optional.
func (b Binding) Default(v string) Binding {
	b.defaultVal = v
	b.hasDefault = true
	return b
}

// Route is the immutable dispatch record built at registration time.
// It is owned by the router's route table for the process lifetime.
type Route struct {
	method     string
	pattern    *pattern
	controller reflect.Type // controller pointer type
	handler    string       // method name, for diagnostics
	fn         reflect.Value
	params     []paramMeta
	middleware []Middleware // controller + route level, in order
}

// Method returns the route's HTTP method.
func (r *Route) Method() string { return r.method }

// Pattern returns the route's path pattern as registered.
func (r *Route) Pattern() string { return r.pattern.raw }

// Handler returns "ControllerType.MethodName" for diagnostics and logs.
func (r *Route) Handler() string {
	return fmt.Sprintf("%s.%s", r.controller.Elem().Name(), r.handler)
}

// pattern is the compiled representation of a route path: an ordered list
// of literal and named-parameter segments.
type pattern struct {
	raw      string
	segments []segment
}

type segment struct {
	literal string
	param   string // non-empty for {name} segments
}

// compilePattern splits a path pattern into segments and validates that
// parameter names are unique within the pattern.
func compilePattern(raw string) (*pattern, error) {
	p := &pattern{raw: raw}
	seen := make(map[string]struct{})
	for _, part := range splitPath(raw) {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			name := part[1 : len(part)-1]
			if name == "" {
				return nil, fmt.Errorf("relay: empty parameter name in pattern %q", raw)
			}
			if _, dup := seen[name]; dup {
				return nil, fmt.Errorf("%w: %q in %q", ErrDuplicateParam, name, raw)
			}
			seen[name] = struct{}{}
			p.segments = append(p.segments, segment{param: name})
			continue
		}
		p.segments = append(p.segments, segment{literal: part})
	}
	return p, nil
}

// equal reports whether two patterns are structurally identical: same
// segment count, same literals, and parameter slots at the same positions
// (parameter names are irrelevant for conflict detection).
func (p *pattern) equal(other *pattern) bool {
	if len(p.segments) != len(other.segments) {
		return false
	}
	for i, s := range p.segments {
		o := other.segments[i]
		if (s.param != "") != (o.param != "") {
			return false
		}
		if s.param == "" && s.literal != o.literal {
			return false
		}
	}
	return true
}

// match attempts a segment-by-segment match against a request path.
// Literal segments must match exactly; parameter segments match any
// non-empty segment and bind its raw value. Returns nil on mismatch.
func (p *pattern) match(path string) map[string]string {
	parts := splitPath(path)
	if len(parts) != len(p.segments) {
		return nil
	}
	var params map[string]string
	for i, s := range p.segments {
		if s.param != "" {
			if parts[i] == "" {
				return nil
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[s.param] = parts[i]
			continue
		}
		if s.literal != parts[i] {
			return nil
		}
	}
	if params == nil {
		params = map[string]string{}
	}
	return params
}

// paramNames returns the parameter names in pattern order.
func (p *pattern) paramNames() []string {
	var names []string
	for _, s := range p.segments {
		if s.param != "" {
			names = append(names, s.param)
		}
	}
	return names
}

// splitPath normalizes a path into segments, dropping the leading slash
// and any trailing slash. "/" and "" both yield zero segments.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// joinPrefix prepends a controller prefix to a route pattern.
func joinPrefix(prefix, path string) string {
	prefix = strings.Trim(prefix, "/")
	path = strings.Trim(path, "/")
	switch {
	case prefix == "":
		return "/" + path
	case path == "":
		return "/" + prefix
	default:
		return "/" + prefix + "/" + path
	}
}
