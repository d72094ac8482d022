package utils

import (
	"strings"

	"golang.org/x/text/language"
)

// DetermineLocale picks one of supported (normalized like "en", "zh") from an
// explicit lang query value, then the Accept-Language header, then def.
// Regional variants match their base language: zh-CN resolves to zh.
func DetermineLocale(queryLang, acceptLang string, supported []string, def string) string {
	if len(supported) == 0 {
		return "en"
	}
	tags := make([]language.Tag, 0, len(supported))
	for _, s := range supported {
		tags = append(tags, language.Make(strings.ToLower(s)))
	}
	matcher := language.NewMatcher(tags)
	match := func(prefs ...language.Tag) (string, bool) {
		if len(prefs) == 0 {
			return "", false
		}
		_, idx, conf := matcher.Match(prefs...)
		if conf < language.High {
			return "", false
		}
		return strings.ToLower(supported[idx]), true
	}

	if q := strings.TrimSpace(queryLang); q != "" {
		if tag, err := language.Parse(q); err == nil {
			if v, ok := match(tag); ok {
				return v
			}
		}
	}
	// Tags are returned by descending q; q=0 entries are dropped.
	if prefs, _, err := language.ParseAcceptLanguage(acceptLang); err == nil {
		if v, ok := match(prefs...); ok {
			return v
		}
	}
	for _, s := range supported {
		if strings.EqualFold(s, def) {
			return strings.ToLower(s)
		}
	}
	return strings.ToLower(supported[0])
}
