package internal

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"github.com/dmitrymomot/relay/pkg/container"
	"github.com/dmitrymomot/relay/pkg/validator"
)

// errRouteMiss signals that a matched route turned out not to apply because
// a path parameter could not be coerced to its declared type. It is folded
// into the normal not-found outcome so malformed paths are indistinguishable
// from missing resources.
var errRouteMiss = errors.New("relay: path parameter coercion failed")

// paramSource identifies where one handler parameter's value comes from.
type paramSource int

const (
	sourceContext paramSource = iota
	sourceRequest
	sourcePath
	sourceQuery
	sourceDTO
	sourceContainer
)

// paramMeta is the per-parameter resolution plan computed once at
// registration time from the handler signature and route bindings.
type paramMeta struct {
	typ        reflect.Type
	source     paramSource
	name       string // path param or query key for sourcePath/sourceQuery
	defaultVal string
	hasDefault bool
}

// resolveArgs builds the ordered argument list for one handler invocation.
// It must not mutate the request; its only output is the argument slice.
//
// Failure modes, per source:
//   - path coercion failure: errRouteMiss (404-class, same as no match)
//   - missing required query key or query coercion failure: ValidationErrors (422)
//   - DTO hydration failure: ValidationErrors (422)
//   - container failure: configuration error (500-class)
func resolveArgs(c Context, params []paramMeta, cont *container.Container) ([]reflect.Value, error) {
	args := make([]reflect.Value, 0, len(params))
	for _, p := range params {
		switch p.source {
		case sourceContext:
			args = append(args, reflect.ValueOf(c))

		case sourceRequest:
			args = append(args, reflect.ValueOf(c.Request()))

		case sourcePath:
			raw := c.Param(p.name)
			v, err := coerce(raw, p.typ)
			if err != nil {
				return nil, fmt.Errorf("%w: %q as %s", errRouteMiss, raw, p.typ)
			}
			args = append(args, v)

		case sourceQuery:
			raw := c.Query(p.name)
			if raw == "" {
				if !p.hasDefault {
					return nil, validator.ValidationErrors{{
						Field:             p.name,
						Message:           "is required",
						TranslationKey:    "validation.required",
						TranslationValues: map[string]any{"field": p.name},
					}}
				}
				raw = p.defaultVal
			}
			v, err := coerce(raw, p.typ)
			if err != nil {
				return nil, validator.ValidationErrors{{
					Field:          p.name,
					Message:        fmt.Sprintf("must be a valid %s", p.typ.Kind()),
					TranslationKey: "validation.invalid_type",
					TranslationValues: map[string]any{
						"field": p.name,
						"type":  p.typ.Kind().String(),
					},
				}}
			}
			args = append(args, v)

		case sourceDTO:
			dto, verrs, err := hydrateDTO(c.Request(), p.typ)
			if err != nil {
				return nil, err
			}
			if len(verrs) > 0 {
				return nil, verrs
			}
			args = append(args, dto)

		case sourceContainer:
			inst, err := cont.Resolve(p.typ)
			if err != nil {
				return nil, fmt.Errorf("relay: resolving %s: %w", p.typ, err)
			}
			args = append(args, reflect.ValueOf(inst))
		}
	}
	return args, nil
}

// coerce converts a raw string to the declared scalar parameter type.
// Booleans accept the strconv.ParseBool literals, which covers "true",
// "false", "1" and "0".
func coerce(raw string, t reflect.Type) (reflect.Value, error) {
	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetBool(b)
	default:
		return reflect.Value{}, fmt.Errorf("relay: cannot coerce to %s", t)
	}
	return v, nil
}

// isScalar reports whether a type is a coercible scalar parameter type.
func isScalar(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
