// Package i18n provides the translation layer behind localized
// validation messages.
//
// Catalogs load from YAML or JSON directories laid out as
// {lang}/{namespace}.yaml, or inline via [WithTranslations]:
//
//	svc, err := i18n.New(
//	    i18n.WithDefaultLanguage("en"),
//	    i18n.WithLanguages("en", "de"),
//	    i18n.WithYAMLDir(localesFS),
//	)
//
// [MatchLanguage] resolves the request language from an Accept-Language
// header; [NewTranslator] fixes language and namespace so the result
// plugs directly into validator.ValidationErrors.Translate:
//
//	lang := i18n.MatchLanguage(c.Header("Accept-Language"), svc.Languages())
//	tr := i18n.NewTranslator(svc, lang, "validation")
//	ve.Translate(tr.TranslateMessage)
package i18n
