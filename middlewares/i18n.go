package middlewares

import (
	"github.com/dmitrymomot/relay/internal"
	"github.com/dmitrymomot/relay/pkg/i18n"
	"github.com/dmitrymomot/relay/pkg/validator"
)

// translatorKey is the context key for the request-scoped translator.
type translatorKey struct{}

// I18nConfig configures the I18n middleware.
type I18nConfig struct {
	Namespace    string
	Extractor    internal.Extractor
	extractorSet bool
}

// I18nOption configures I18nConfig.
type I18nOption func(*I18nConfig)

// WithI18nNamespace sets the translation namespace (default: "validation").
func WithI18nNamespace(ns string) I18nOption {
	return func(cfg *I18nConfig) {
		cfg.Namespace = ns
	}
}

// WithI18nExtractor sets a custom language extractor chain. The default
// checks the "lang" query parameter, then the Accept-Language header.
func WithI18nExtractor(ext internal.Extractor) I18nOption {
	return func(cfg *I18nConfig) {
		cfg.Extractor = ext
		cfg.extractorSet = true
	}
}

// FromAcceptLanguage returns an ExtractorSource that matches the
// Accept-Language header against the available languages.
func FromAcceptLanguage(available []string) internal.ExtractorSource {
	return func(c internal.Context) (string, bool) {
		header := c.Header("Accept-Language")
		if header == "" {
			return "", false
		}
		return i18n.MatchLanguage(header, available), true
	}
}

// I18n returns middleware that resolves the request language, stores a
// Translator in the context, and localizes validation errors bubbling up
// from the handler before the router renders them.
func I18n(svc *i18n.I18n, opts ...I18nOption) internal.Middleware {
	cfg := &I18nConfig{
		Namespace: "validation",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if !cfg.extractorSet {
		cfg.Extractor = internal.NewExtractor(
			internal.FromQuery("lang"),
			FromAcceptLanguage(svc.Languages()),
		)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (*internal.Response, error) {
			lang, ok := cfg.Extractor.Extract(c)
			if !ok {
				lang = svc.DefaultLanguage()
			}

			tr := i18n.NewTranslator(svc, lang, cfg.Namespace)
			c.Set(translatorKey{}, tr)

			resp, err := next(c)

			if ve := validator.ExtractValidationErrors(err); ve != nil {
				ve.Translate(tr.TranslateMessage)
				return resp, ve
			}
			return resp, err
		}
	}
}

// GetTranslator extracts the request-scoped translator from the context.
// Returns nil when the I18n middleware is not applied.
func GetTranslator(c internal.Context) *i18n.Translator {
	if v, ok := c.Get(translatorKey{}).(*i18n.Translator); ok {
		return v
	}
	return nil
}
