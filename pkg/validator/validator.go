package validator

import (
	"fmt"
	"reflect"
	"strconv"
)

// Rule is a self-contained, stateless validation predicate. All
// configuration (bounds, patterns, allowed sets) is fixed when the rule
// value is created; Validate never mutates the rule or the value.
type Rule interface {
	// Validate reports whether the value passes the rule.
	Validate(value any) bool

	// Message renders the human-readable failure message for a field.
	Message(field string) string
}

// Translatable is optionally implemented by rules that carry i18n
// metadata for their failure message.
type Translatable interface {
	// Translation returns the message template key and its placeholder
	// values for a field.
	Translation(field string) (key string, values map[string]any)
}

// FieldRules binds an ordered rule list to one input field of a
// data-transfer shape.
type FieldRules struct {
	// Name is the input field name (body key).
	Name string

	// Rules run in attachment order; every rule runs even after failures.
	Rules []Rule

	// Sanitize marks string values for HTML stripping before validation
	// and assignment.
	Sanitize bool
}

// Field binds rules to an input field.
func Field(name string, rules ...Rule) FieldRules {
	return FieldRules{Name: name, Rules: rules}
}

// Sanitized marks the field's value for HTML sanitization.
func (f FieldRules) Sanitized() FieldRules {
	f.Sanitize = true
	return f
}

// Apply runs every rule of every field against the input and aggregates
// all failures. Fields are evaluated in declaration order and a failing
// field never stops evaluation of the others; the result carries one
// entry per failing rule.
func Apply(input map[string]any, fields ...FieldRules) ValidationErrors {
	var errs ValidationErrors
	for _, f := range fields {
		value := input[f.Name]
		for _, r := range f.Rules {
			if r.Validate(value) {
				continue
			}
			ve := ValidationError{
				Field:   f.Name,
				Message: r.Message(f.Name),
			}
			if tr, ok := r.(Translatable); ok {
				ve.TranslationKey, ve.TranslationValues = tr.Translation(f.Name)
			}
			errs = append(errs, ve)
		}
	}
	return errs
}

// isEmpty reports whether a value counts as absent for presence checks.
// Rules other than Required use it to pass on optional missing input.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	switch val := v.(type) {
	case string:
		return val == ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// toString extracts a string from the loosely typed input value.
func toString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// toFloat extracts a numeric value from the loosely typed input forms:
// JSON numbers decode as float64, form values arrive as strings.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// formatNumber renders a bound for messages without trailing zeros.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// stringify renders an allowed-set member for membership rule messages.
func stringify(v any) string {
	return fmt.Sprintf("%v", v)
}
