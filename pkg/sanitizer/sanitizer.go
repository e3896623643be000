// Package sanitizer provides HTML sanitization for user-supplied input.
// DTO hydration uses StripHTML on fields marked as sanitized; SafeHTML is
// for content that is allowed to keep basic formatting.
package sanitizer

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	safePolicy   *bluemonday.Policy
	initOnce     sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		// Strict policy strips all HTML and returns plain text.
		strictPolicy = bluemonday.StrictPolicy()

		// Safe policy allows basic formatting for user-generated content.
		safePolicy = bluemonday.NewPolicy()
		safePolicy.AllowStandardURLs()
		safePolicy.AllowElements(
			"p", "br",
			"strong", "b", "em", "i",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
		)
		safePolicy.AllowAttrs("href").OnElements("a")
		safePolicy.RequireNoFollowOnLinks(true)
	})
}

// StripHTML removes all HTML, returning plain text. This is what
// sanitized DTO fields pass through before validation and assignment.
func StripHTML(s string) string {
	initPolicies()
	return strictPolicy.Sanitize(s)
}

// SafeHTML allows safe formatting tags (p, a, strong, em, lists, code)
// and strips everything dangerous: scripts, event handlers, javascript: URLs.
func SafeHTML(s string) string {
	initPolicies()
	return safePolicy.Sanitize(s)
}

// Custom applies a caller-supplied bluemonday policy.
// Returns input unchanged if policy is nil.
func Custom(s string, policy *bluemonday.Policy) string {
	if policy == nil {
		return s
	}
	return policy.Sanitize(s)
}
