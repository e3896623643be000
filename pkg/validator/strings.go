package validator

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

type minLenRule struct{ min int }

// MinLen fails when a string is shorter than min runes.
func MinLen(min int) Rule { return minLenRule{min: min} }

func (r minLenRule) Validate(v any) bool {
	if isEmpty(v) {
		return true
	}
	s, ok := toString(v)
	return ok && utf8.RuneCountInString(s) >= r.min
}

func (r minLenRule) Message(string) string {
	return fmt.Sprintf("must be at least %d characters long", r.min)
}

func (r minLenRule) Translation(field string) (string, map[string]any) {
	return "validation.min_length", map[string]any{"field": field, "min": r.min}
}

type maxLenRule struct{ max int }

// MaxLen fails when a string is longer than max runes.
func MaxLen(max int) Rule { return maxLenRule{max: max} }

func (r maxLenRule) Validate(v any) bool {
	if isEmpty(v) {
		return true
	}
	s, ok := toString(v)
	return ok && utf8.RuneCountInString(s) <= r.max
}

func (r maxLenRule) Message(string) string {
	return fmt.Sprintf("must not exceed %d characters", r.max)
}

func (r maxLenRule) Translation(field string) (string, map[string]any) {
	return "validation.max_length", map[string]any{"field": field, "max": r.max}
}

type lenBetweenRule struct{ min, max int }

// LenBetween fails when a string's rune count is outside the inclusive range.
func LenBetween(min, max int) Rule { return lenBetweenRule{min: min, max: max} }

func (r lenBetweenRule) Validate(v any) bool {
	if isEmpty(v) {
		return true
	}
	s, ok := toString(v)
	if !ok {
		return false
	}
	n := utf8.RuneCountInString(s)
	return n >= r.min && n <= r.max
}

func (r lenBetweenRule) Message(string) string {
	return fmt.Sprintf("must be between %d and %d characters long", r.min, r.max)
}

func (r lenBetweenRule) Translation(field string) (string, map[string]any) {
	return "validation.length_between", map[string]any{"field": field, "min": r.min, "max": r.max}
}

type matchRule struct {
	re *regexp.Regexp
}

// Match fails when a string does not match the pattern. The pattern is
// compiled at attachment time; an invalid pattern panics, which is the
// right behavior for a startup-time configuration error.
func Match(pattern string) Rule { return matchRule{re: regexp.MustCompile(pattern)} }

func (r matchRule) Validate(v any) bool {
	if isEmpty(v) {
		return true
	}
	s, ok := toString(v)
	return ok && r.re.MatchString(s)
}

func (r matchRule) Message(string) string {
	return fmt.Sprintf("must match pattern %s", r.re.String())
}

func (r matchRule) Translation(field string) (string, map[string]any) {
	return "validation.pattern", map[string]any{"field": field, "pattern": r.re.String()}
}

type alphaRule struct{}

// Alpha fails when a string contains anything but letters.
func Alpha() Rule { return alphaRule{} }

func (alphaRule) Validate(v any) bool {
	if isEmpty(v) {
		return true
	}
	s, ok := toString(v)
	if !ok {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func (alphaRule) Message(string) string { return "must contain only letters" }

func (alphaRule) Translation(field string) (string, map[string]any) {
	return "validation.alpha", map[string]any{"field": field}
}

type alphanumericRule struct{}

// Alphanumeric fails when a string contains anything but letters and digits.
func Alphanumeric() Rule { return alphanumericRule{} }

func (alphanumericRule) Validate(v any) bool {
	if isEmpty(v) {
		return true
	}
	s, ok := toString(v)
	if !ok {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func (alphanumericRule) Message(string) string { return "must contain only letters and digits" }

func (alphanumericRule) Translation(field string) (string, map[string]any) {
	return "validation.alphanumeric", map[string]any{"field": field}
}

type emailRule struct{}

// Email fails when a string is not a parseable email address.
func Email() Rule { return emailRule{} }

func (emailRule) Validate(v any) bool {
	if isEmpty(v) {
		return true
	}
	s, ok := toString(v)
	if !ok {
		return false
	}
	addr, err := mail.ParseAddress(s)
	// Reject the "Name <addr>" form: the input must be the bare address.
	return err == nil && addr.Address == s
}

func (emailRule) Message(string) string { return "must be a valid email address" }

func (emailRule) Translation(field string) (string, map[string]any) {
	return "validation.email", map[string]any{"field": field}
}

type urlRule struct{}

// URL fails when a string is not an absolute http(s) URL.
func URL() Rule { return urlRule{} }

func (urlRule) Validate(v any) bool {
	if isEmpty(v) {
		return true
	}
	s, ok := toString(v)
	if !ok {
		return false
	}
	u, err := url.ParseRequestURI(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (urlRule) Message(string) string { return "must be a valid URL" }

func (urlRule) Translation(field string) (string, map[string]any) {
	return "validation.url", map[string]any{"field": field}
}

type uuidRule struct{}

// UUID fails when a string is not a valid UUID (any RFC 4122 variant).
func UUID() Rule { return uuidRule{} }

func (uuidRule) Validate(v any) bool {
	if isEmpty(v) {
		return true
	}
	s, ok := toString(v)
	if !ok {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func (uuidRule) Message(string) string { return "must be a valid UUID" }

func (uuidRule) Translation(field string) (string, map[string]any) {
	return "validation.uuid", map[string]any{"field": field}
}

type jsonRule struct{}

// JSON fails when a string is not valid JSON.
func JSON() Rule { return jsonRule{} }

func (jsonRule) Validate(v any) bool {
	if isEmpty(v) {
		return true
	}
	s, ok := toString(v)
	return ok && json.Valid([]byte(s))
}

func (jsonRule) Message(string) string { return "must be valid JSON" }

func (jsonRule) Translation(field string) (string, map[string]any) {
	return "validation.json", map[string]any{"field": field}
}
