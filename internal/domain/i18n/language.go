package i18n

import (
	"golang.org/x/text/language"
)

// Language is a supported UI language code.
type Language string

// Supported languages.
const (
	English Language = "en"
	French  Language = "fr"
	Spanish Language = "es"
	Arabic  Language = "ar"
)

// DefaultLanguage is used when nothing selects another language.
const DefaultLanguage = English

// Languages lists the supported languages in selector order.
func Languages() []Language {
	return []Language{English, French, Spanish, Arabic}
}

// ParseLanguage returns the language named by s and whether it is supported.
func ParseLanguage(s string) (Language, bool) {
	l := Language(s)
	_, ok := table[l]
	return l, ok
}

// DisplayName is the language's own name, as shown in the selector.
func (l Language) DisplayName() string {
	switch l {
	case French:
		return "Français"
	case Spanish:
		return "Español"
	case Arabic:
		return "العربية"
	default:
		return "English"
	}
}

// Direction is the text direction of the language: "rtl" or "ltr".
func (l Language) Direction() string {
	if l == Arabic {
		return "rtl"
	}
	return "ltr"
}

// String implements fmt.Stringer.
func (l Language) String() string { return string(l) }

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.French,
	language.Spanish,
	language.Arabic,
})

// Negotiate picks the best supported language for an Accept-Language header.
// It reports false when the header is empty, malformed or matches nothing.
func Negotiate(acceptLanguage string) (Language, bool) {
	if acceptLanguage == "" {
		return "", false
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return "", false
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return "", false
	}
	return Languages()[idx], true
}
