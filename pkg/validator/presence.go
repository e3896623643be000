package validator

type requiredRule struct{}

// Required fails when the value is absent or empty: nil, empty string,
// or a zero-length slice, map or array.
func Required() Rule { return requiredRule{} }

func (requiredRule) Validate(v any) bool { return !isEmpty(v) }

func (requiredRule) Message(string) string { return "is required" }

func (requiredRule) Translation(field string) (string, map[string]any) {
	return "validation.required", map[string]any{"field": field}
}
