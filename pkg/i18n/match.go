package i18n

import (
	"golang.org/x/text/language"
)

// maxAcceptLanguageLength guards against oversized Accept-Language headers.
const maxAcceptLanguageLength = 4096

// MatchLanguage picks the best of the available languages for an
// Accept-Language header, honoring quality values. Falls back to the
// first available language when nothing matches or the header is
// malformed.
//
//	MatchLanguage("en-US,en;q=0.9,pl;q=0.8", []string{"pl", "en", "de"}) // "en"
func MatchLanguage(header string, available []string) string {
	if len(available) == 0 {
		return ""
	}
	if header == "" {
		return available[0]
	}
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
	}

	tags := make([]language.Tag, 0, len(available))
	for _, lang := range available {
		tag, err := language.Parse(lang)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
	}
	if len(tags) == 0 {
		return available[0]
	}

	wanted, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(wanted) == 0 {
		return available[0]
	}

	_, idx, conf := language.NewMatcher(tags).Match(wanted...)
	if conf == language.No {
		return available[0]
	}
	return available[idx]
}
