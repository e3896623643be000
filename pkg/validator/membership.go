package validator

import (
	"fmt"
	"reflect"
	"strings"
)

type inRule struct{ allowed []any }

// In fails when the value is not a member of the allowed set.
// Membership uses strict equality: no type coercion, so the string "1"
// never matches the number 1.
func In(allowed ...any) Rule { return inRule{allowed: allowed} }

func (r inRule) Validate(v any) bool {
	if isEmpty(v) {
		return true
	}
	for _, a := range r.allowed {
		if reflect.DeepEqual(v, a) {
			return true
		}
	}
	return false
}

func (r inRule) Message(string) string {
	return fmt.Sprintf("must be one of: %s", joinValues(r.allowed))
}

func (r inRule) Translation(field string) (string, map[string]any) {
	return "validation.in", map[string]any{"field": field, "values": joinValues(r.allowed)}
}

type notInRule struct{ denied []any }

// NotIn fails when the value is a member of the denied set.
// Same strict equality semantics as In.
func NotIn(denied ...any) Rule { return notInRule{denied: denied} }

func (r notInRule) Validate(v any) bool {
	if isEmpty(v) {
		return true
	}
	for _, d := range r.denied {
		if reflect.DeepEqual(v, d) {
			return false
		}
	}
	return true
}

func (r notInRule) Message(string) string {
	return fmt.Sprintf("must not be one of: %s", joinValues(r.denied))
}

func (r notInRule) Translation(field string) (string, map[string]any) {
	return "validation.not_in", map[string]any{"field": field, "values": joinValues(r.denied)}
}

func joinValues(values []any) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, stringify(v))
	}
	return strings.Join(parts, ", ")
}
