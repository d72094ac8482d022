package middleware

import (
	"context"
	"net/http"

	"github.com/soaringjerry/Mindtrack/internal/utils"
)

type ctxKey int

const localeKey ctxKey = 1

// SupportedLocales are the dictionaries shipped in utils.
var SupportedLocales = []string{"en", "zh"}

// Locale resolves the request locale from ?lang= or Accept-Language and
// stores it in the request context.
func Locale(def string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := utils.DetermineLocale(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"), SupportedLocales, def)
			w.Header().Set("Content-Language", locale)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), localeKey, locale)))
		})
	}
}

// LocaleFromContext retrieves the locale stored by Locale, defaulting to "en".
func LocaleFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(localeKey).(string); ok {
		return s
	}
	return "en"
}
