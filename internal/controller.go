package internal

import (
	"fmt"
	"reflect"
	"slices"
)

// Register walks controller types and populates the route table. It runs
// once at startup and fails fast on configuration errors: duplicate
// (method, pattern) pairs, unknown handler methods, unbound scalar
// parameters, and unsupported method signatures are all programmer errors.
//
// The controller value passed here is a metadata prototype only; dispatch
// constructs the real instance through the container, so a constructor for
// the controller type must be provided to the container separately.
func (r *Router) Register(controllers ...Controller) error {
	for _, ctrl := range controllers {
		if err := r.registerController(ctrl); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) registerController(ctrl Controller) error {
	t := reflect.TypeOf(ctrl)
	if t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("relay: controller must be a pointer to struct, got %s", t)
	}

	var prefix string
	if p, ok := ctrl.(Prefixer); ok {
		prefix = p.Prefix()
	}

	var ctrlMW []Middleware
	if m, ok := ctrl.(MiddlewareProvider); ok {
		ctrlMW = m.Middleware()
	}

	for _, def := range ctrl.Routes() {
		route, err := r.buildRoute(t, prefix, ctrlMW, def)
		if err != nil {
			return err
		}
		r.routes = append(r.routes, route)
	}
	return nil
}

func (r *Router) buildRoute(t reflect.Type, prefix string, ctrlMW []Middleware, def RouteDef) (*Route, error) {
	pat, err := compilePattern(joinPrefix(prefix, def.Pattern))
	if err != nil {
		return nil, err
	}

	for _, existing := range r.routes {
		if existing.method == def.Method && existing.pattern.equal(pat) {
			return nil, fmt.Errorf("%w: %s %s", ErrDuplicateRoute, def.Method, pat.raw)
		}
	}

	m, ok := t.MethodByName(def.Handler)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownHandler, t.Elem().Name(), def.Handler)
	}

	if err := checkReturnSignature(m.Type); err != nil {
		return nil, fmt.Errorf("%w: %s.%s", err, t.Elem().Name(), def.Handler)
	}

	params, err := buildParams(m.Type, def.Bindings, pat)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", t.Elem().Name(), def.Handler, err)
	}

	mw := make([]Middleware, 0, len(ctrlMW)+len(def.Middleware))
	mw = append(mw, ctrlMW...)
	mw = append(mw, def.Middleware...)

	return &Route{
		method:     def.Method,
		pattern:    pat,
		controller: t,
		handler:    def.Handler,
		fn:         m.Func,
		params:     params,
		middleware: mw,
	}, nil
}

// buildParams computes the per-parameter resolution plan from the handler
// signature. Resolution source is decided per parameter, in order:
// the Context or *Request types are injected directly, DTO types hydrate
// from the body, scalar types consume the next Path/Query binding, and
// everything else resolves through the container.
func buildParams(fnType reflect.Type, bindings []Binding, pat *pattern) ([]paramMeta, error) {
	pathParams := pat.paramNames()
	var params []paramMeta
	cursor := 0

	// Skip the receiver at index 0.
	for i := 1; i < fnType.NumIn(); i++ {
		t := fnType.In(i)
		switch {
		case t == contextIface:
			params = append(params, paramMeta{typ: t, source: sourceContext})

		case t == requestType:
			params = append(params, paramMeta{typ: t, source: sourceRequest})

		case isDTOType(t):
			params = append(params, paramMeta{typ: t, source: sourceDTO})

		case isScalar(t):
			if cursor >= len(bindings) {
				return nil, fmt.Errorf("%w: parameter %d (%s)", ErrUnboundParameter, i, t)
			}
			b := bindings[cursor]
			cursor++
			if b.source == sourcePath && !slices.Contains(pathParams, b.name) {
				return nil, fmt.Errorf("%w: %q not in %q", ErrUnmatchedBinding, b.name, pat.raw)
			}
			params = append(params, paramMeta{
				typ:        t,
				source:     b.source,
				name:       b.name,
				defaultVal: b.defaultVal,
				hasDefault: b.hasDefault,
			})

		default:
			params = append(params, paramMeta{typ: t, source: sourceContainer})
		}
	}

	if cursor < len(bindings) {
		return nil, fmt.Errorf("%w: %d bindings for %d scalar parameters", ErrUnboundParameter, len(bindings), cursor)
	}
	return params, nil
}

// checkReturnSignature validates a handler's return values: nothing,
// (error), (T), or (T, error).
func checkReturnSignature(fnType reflect.Type) error {
	switch fnType.NumOut() {
	case 0, 1:
		return nil
	case 2:
		if fnType.Out(1) != errorType {
			return ErrInvalidHandlerSig
		}
		return nil
	default:
		return ErrInvalidHandlerSig
	}
}
