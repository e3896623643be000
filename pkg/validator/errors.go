package validator

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError is a single rule failure for one field.
type ValidationError struct {
	// Field is the input field name the failing rule was attached to.
	Field string

	// Message is the human-readable failure message.
	Message string

	// TranslationKey identifies the message template for i18n
	// (e.g. "validation.min_length").
	TranslationKey string

	// TranslationValues holds the template placeholders
	// (e.g. {"field": "password", "min": 8}).
	TranslationValues map[string]any
}

// ValidationErrors is the aggregate of every rule failure across all
// fields of one shape, in field-declaration order. It implements error so
// it can flow through handler and middleware returns unchanged.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e))
	for _, ve := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", ve.Field, ve.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether any error exists for the field.
func (e ValidationErrors) Has(field string) bool {
	for _, ve := range e {
		if ve.Field == field {
			return true
		}
	}
	return false
}

// Get returns the messages for one field, in rule order.
func (e ValidationErrors) Get(field string) []string {
	var msgs []string
	for _, ve := range e {
		if ve.Field == field {
			msgs = append(msgs, ve.Message)
		}
	}
	return msgs
}

// GetErrors returns the full error values for one field.
func (e ValidationErrors) GetErrors(field string) []ValidationError {
	var out []ValidationError
	for _, ve := range e {
		if ve.Field == field {
			out = append(out, ve)
		}
	}
	return out
}

// Fields returns the field→messages map clients render from.
func (e ValidationErrors) Fields() map[string][]string {
	if len(e) == 0 {
		return nil
	}
	out := make(map[string][]string)
	for _, ve := range e {
		out[ve.Field] = append(out[ve.Field], ve.Message)
	}
	return out
}

// TranslateFunc renders a translation key with placeholder values.
type TranslateFunc func(key string, values map[string]any) string

// Translate rewrites messages in-place using the given translation
// function. Entries without a TranslationKey keep their original message.
// A nil fn is a no-op.
func (e ValidationErrors) Translate(fn TranslateFunc) {
	if fn == nil {
		return
	}
	for i := range e {
		if e[i].TranslationKey == "" {
			continue
		}
		e[i].Message = fn(e[i].TranslationKey, e[i].TranslationValues)
	}
}

// IsValidationError reports whether err is (or wraps) ValidationErrors.
func IsValidationError(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}

// ExtractValidationErrors returns the ValidationErrors wrapped in err,
// or nil if there are none.
func ExtractValidationErrors(err error) ValidationErrors {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
