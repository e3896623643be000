package i18n

import (
	"fmt"
	"maps"
	"sort"
	"strings"
)

// DefaultLang is the fallback language when none is configured.
const DefaultLang = "en"

// M is a placeholder map for translations.
type M = map[string]any

// I18n holds translation catalogs. It is immutable after construction
// and safe for concurrent use.
type I18n struct {
	// Flattened translations for O(1) lookups.
	// Key format: "lang:namespace:key.path"
	translations map[string]string

	// Called when a key is missing in every fallback language. Useful
	// for spotting untranslated keys during development.
	missingKeyHandler func(lang, namespace, key string)

	defaultLang string
	languages   []string
}

// Option configures the I18n instance during construction.
type Option func(*I18n) error

// New creates an I18n instance. All configuration happens here, so the
// instance never changes afterwards.
func New(opts ...Option) (*I18n, error) {
	i := &I18n{
		translations: make(map[string]string),
		defaultLang:  DefaultLang,
	}

	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if i.defaultLang == "" {
		return nil, ErrEmptyLanguage
	}
	if len(i.languages) == 0 {
		i.languages = []string{i.defaultLang}
	}

	return i, nil
}

// WithDefaultLanguage sets the fallback language.
func WithDefaultLanguage(lang string) Option {
	return func(i *I18n) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		i.defaultLang = lang
		return nil
	}
}

// WithLanguages sets the supported languages. The default language is
// always first; the rest are sorted alphabetically.
func WithLanguages(langs ...string) Option {
	return func(i *I18n) error {
		set := make(map[string]bool)
		for _, lang := range langs {
			if lang != "" && lang != i.defaultLang {
				set[lang] = true
			}
		}

		others := make([]string, 0, len(set))
		for lang := range set {
			others = append(others, lang)
		}
		sort.Strings(others)

		i.languages = append([]string{i.defaultLang}, others...)
		return nil
	}
}

// WithTranslations loads translations for one language and namespace.
// Nested maps are flattened into dot-separated keys.
func WithTranslations(lang, namespace string, translations map[string]any) Option {
	return func(i *I18n) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		if namespace == "" {
			return ErrEmptyNamespace
		}
		for key, value := range flattenTranslations(translations, "") {
			i.translations[buildKey(lang, namespace, key)] = value
		}
		return nil
	}
}

// WithMissingKeyHandler sets the handler called when a key is not found
// in any fallback language.
func WithMissingKeyHandler(handler func(lang, namespace, key string)) Option {
	return func(i *I18n) error {
		i.missingKeyHandler = handler
		return nil
	}
}

// T retrieves a translation, substituting {{name}} placeholders.
// Lookup order: exact language, base language ("en" for "en-US"), then
// the default language. Returns the key itself when nothing matches.
func (i *I18n) T(lang, namespace, key string, placeholders ...M) string {
	if translation, ok := i.translations[buildKey(lang, namespace, key)]; ok {
		return replaceMerged(translation, placeholders...)
	}

	if base := baseLanguage(lang); base != lang {
		if translation, ok := i.translations[buildKey(base, namespace, key)]; ok {
			return replaceMerged(translation, placeholders...)
		}
	}

	if lang != i.defaultLang && baseLanguage(lang) != i.defaultLang {
		if translation, ok := i.translations[buildKey(i.defaultLang, namespace, key)]; ok {
			return replaceMerged(translation, placeholders...)
		}
	}

	if i.missingKeyHandler != nil {
		i.missingKeyHandler(lang, namespace, key)
	}
	return key
}

// Languages returns the supported languages, default first.
func (i *I18n) Languages() []string {
	return i.languages
}

// DefaultLanguage returns the fallback language.
func (i *I18n) DefaultLanguage() string {
	return i.defaultLang
}

func buildKey(lang, namespace, key string) string {
	return lang + ":" + namespace + ":" + key
}

func flattenTranslations(data map[string]any, prefix string) map[string]string {
	result := make(map[string]string)
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		switch v := value.(type) {
		case string:
			result[fullKey] = v
		case map[string]any:
			maps.Copy(result, flattenTranslations(v, fullKey))
		case map[string]string:
			for subKey, subVal := range v {
				result[fullKey+"."+subKey] = subVal
			}
		default:
			result[fullKey] = fmt.Sprintf("%v", v)
		}
	}
	return result
}

// ReplacePlaceholders substitutes {{name}} placeholders in the template.
// Unknown placeholders stay as-is.
func ReplacePlaceholders(template string, placeholders M) string {
	if len(placeholders) == 0 {
		return template
	}
	result := template
	for key, value := range placeholders {
		result = strings.ReplaceAll(result, "{{"+key+"}}", fmt.Sprintf("%v", value))
	}
	return result
}

func replaceMerged(template string, placeholders ...M) string {
	if len(placeholders) == 0 {
		return template
	}
	merged := make(M)
	for _, p := range placeholders {
		maps.Copy(merged, p)
	}
	return ReplacePlaceholders(template, merged)
}

// baseLanguage strips the region from a language tag ("en-US" → "en").
func baseLanguage(lang string) string {
	if i := strings.IndexByte(lang, '-'); i > 0 {
		return lang[:i]
	}
	return lang
}
