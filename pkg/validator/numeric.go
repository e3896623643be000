package validator

import "fmt"

type minRule struct{ min float64 }

// Min fails when a numeric value is below the bound. Non-numeric values
// fail; absent values pass.
func Min(min float64) Rule { return minRule{min: min} }

func (r minRule) Validate(v any) bool {
	if isEmpty(v) {
		return true
	}
	n, ok := toFloat(v)
	return ok && n >= r.min
}

func (r minRule) Message(string) string {
	return fmt.Sprintf("must be at least %s", formatNumber(r.min))
}

func (r minRule) Translation(field string) (string, map[string]any) {
	return "validation.min", map[string]any{"field": field, "min": r.min}
}

type maxRule struct{ max float64 }

// Max fails when a numeric value exceeds the bound.
func Max(max float64) Rule { return maxRule{max: max} }

func (r maxRule) Validate(v any) bool {
	if isEmpty(v) {
		return true
	}
	n, ok := toFloat(v)
	return ok && n <= r.max
}

func (r maxRule) Message(string) string {
	return fmt.Sprintf("must not exceed %s", formatNumber(r.max))
}

func (r maxRule) Translation(field string) (string, map[string]any) {
	return "validation.max", map[string]any{"field": field, "max": r.max}
}

type betweenRule struct{ min, max float64 }

// Between fails when a numeric value is outside the inclusive range.
func Between(min, max float64) Rule { return betweenRule{min: min, max: max} }

func (r betweenRule) Validate(v any) bool {
	if isEmpty(v) {
		return true
	}
	n, ok := toFloat(v)
	return ok && n >= r.min && n <= r.max
}

func (r betweenRule) Message(string) string {
	return fmt.Sprintf("must be between %s and %s", formatNumber(r.min), formatNumber(r.max))
}

func (r betweenRule) Translation(field string) (string, map[string]any) {
	return "validation.between", map[string]any{"field": field, "min": r.min, "max": r.max}
}
