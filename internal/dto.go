package internal

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/dmitrymomot/relay/pkg/sanitizer"
	"github.com/dmitrymomot/relay/pkg/validator"
)

// Validatable is implemented by DTO types hydrated from the request body.
// Rules returns the field bindings in declaration order; the order is
// preserved in the aggregated validation errors.
//
// Example:
//
//	type CreateUserRequest struct {
//	    Name  string `json:"name"`
//	    Email string `json:"email"`
//	}
//
//	func (CreateUserRequest) Rules() []validator.FieldRules {
//	    return []validator.FieldRules{
//	        validator.Field("name", validator.Required(), validator.LenBetween(3, 50)),
//	        validator.Field("email", validator.Required(), validator.Email()),
//	    }
//	}
type Validatable interface {
	Rules() []validator.FieldRules
}

var (
	validatableType = reflect.TypeOf((*Validatable)(nil)).Elem()
	contextIface    = reflect.TypeOf((*Context)(nil)).Elem()
	requestType     = reflect.TypeOf((*Request)(nil))
)

// isDTOType reports whether t is a pointer to a struct implementing Validatable.
func isDTOType(t reflect.Type) bool {
	return t.Kind() == reflect.Pointer &&
		t.Elem().Kind() == reflect.Struct &&
		t.Implements(validatableType)
}

// hydrateDTO builds and validates a DTO value of type t (pointer to struct)
// from the request's merged body fields. Every declared field is validated
// before any assignment happens; a failing field never stops evaluation of
// the others. On validation failure the returned ValidationErrors carries
// one entry per failing field, in field-declaration order.
//
// The request itself is never mutated: sanitization operates on a local
// copy of the field values.
func hydrateDTO(req *Request, t reflect.Type) (reflect.Value, validator.ValidationErrors, error) {
	dto := reflect.New(t.Elem())
	fields := dto.Interface().(Validatable).Rules()

	// Local merged view of body fields and uploads. Sanitization writes
	// here, never into the request.
	input := make(map[string]any, len(req.Body)+len(req.Files))
	for k, v := range req.Body {
		input[k] = v
	}
	for k, f := range req.Files {
		if _, shadowed := input[k]; !shadowed {
			input[k] = f
		}
	}

	for _, f := range fields {
		if !f.Sanitize {
			continue
		}
		if s, ok := input[f.Name].(string); ok {
			input[f.Name] = sanitizer.StripHTML(s)
		}
	}

	if errs := validator.Apply(input, fields...); len(errs) > 0 {
		return reflect.Value{}, errs, nil
	}

	elem := dto.Elem()
	for _, f := range fields {
		raw, ok := input[f.Name]
		if !ok || raw == nil {
			continue
		}
		fv, ok := structField(elem, f.Name)
		if !ok {
			return reflect.Value{}, nil, fmt.Errorf("relay: DTO %s declares rules for unknown field %q", t.Elem().Name(), f.Name)
		}
		if err := assignField(fv, raw); err != nil {
			return reflect.Value{}, validator.ValidationErrors{{
				Field:             f.Name,
				Message:           fmt.Sprintf("must be a valid %s", fv.Kind()),
				TranslationKey:    "validation.invalid_type",
				TranslationValues: map[string]any{"field": f.Name, "type": fv.Kind().String()},
			}}, nil
		}
	}

	return dto, nil, nil
}

// structField locates the struct field for an input name: exact json tag
// match first, then case-insensitive field name match.
func structField(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := range t.NumField() {
		tag := t.Field(i).Tag.Get("json")
		if tag != "" {
			if idx := strings.IndexByte(tag, ','); idx >= 0 {
				tag = tag[:idx]
			}
			if tag == name {
				return v.Field(i), true
			}
		}
	}
	for i := range t.NumField() {
		if strings.EqualFold(t.Field(i).Name, name) {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// assignField sets a validated raw input value onto a struct field,
// converting between the loosely typed decoded forms (JSON numbers arrive
// as float64, form values as strings) and the declared field type.
func assignField(fv reflect.Value, raw any) error {
	rv := reflect.ValueOf(raw)
	ft := fv.Type()

	switch {
	case rv.Type().AssignableTo(ft):
		fv.Set(rv)
		return nil

	case rv.Kind() == reflect.String && isScalar(ft) && ft.Kind() != reflect.String:
		v, err := coerce(rv.String(), ft)
		if err != nil {
			return err
		}
		fv.Set(v)
		return nil

	case isNumericKind(rv.Kind()) && isNumericKind(ft.Kind()):
		fv.Set(rv.Convert(ft))
		return nil

	case rv.Kind() == reflect.Slice && ft.Kind() == reflect.Slice:
		out := reflect.MakeSlice(ft, 0, rv.Len())
		for i := range rv.Len() {
			ev := reflect.ValueOf(rv.Index(i).Interface())
			if !ev.Type().AssignableTo(ft.Elem()) {
				return fmt.Errorf("relay: cannot assign %s element to %s", ev.Type(), ft.Elem())
			}
			out = reflect.Append(out, ev)
		}
		fv.Set(out)
		return nil

	default:
		return fmt.Errorf("relay: cannot assign %s to %s", rv.Type(), ft)
	}
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
