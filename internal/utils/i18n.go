package utils

// Server-side strings for the API: severity and mood labels plus a few
// status messages. Dictionary keys are "<group>.<label>".

var translations = map[string]map[string]string{
	"en": {
		"health.ok":                  "ok",
		"reminder.due":               "Time to complete your %s check-in",
		"severity.minimal":           "Minimal",
		"severity.mild":              "Mild",
		"severity.moderate":          "Moderate",
		"severity.moderately-severe": "Moderately severe",
		"severity.severe":            "Severe",
		"severity.low":               "Low",
		"severity.high":              "High",
		"mood.awful":                 "Awful",
		"mood.very_bad":              "Very bad",
		"mood.bad":                   "Bad",
		"mood.okay":                  "Okay",
		"mood.good":                  "Good",
		"mood.very_good":             "Very good",
		"mood.excellent":             "Excellent",
		"trend.improving":            "Improving",
		"trend.declining":            "Declining",
		"trend.stable":               "Stable",
	},
	"zh": {
		"health.ok":                  "好的",
		"reminder.due":               "该完成 %s 测评了",
		"severity.minimal":           "极轻",
		"severity.mild":              "轻度",
		"severity.moderate":          "中度",
		"severity.moderately-severe": "中重度",
		"severity.severe":            "重度",
		"severity.low":               "低",
		"severity.high":              "高",
		"mood.awful":                 "糟透了",
		"mood.very_bad":              "很差",
		"mood.bad":                   "差",
		"mood.okay":                  "一般",
		"mood.good":                  "好",
		"mood.very_good":             "很好",
		"mood.excellent":             "极好",
		"trend.improving":            "好转",
		"trend.declining":            "变差",
		"trend.stable":               "平稳",
	},
}

// T returns the translated string for key in locale; falls back to English,
// then to the key itself.
func T(locale, key string) string {
	if v, ok := lookup(locale, key); ok {
		return v
	}
	return key
}

// TOr is T with an explicit fallback for keys missing from every dictionary.
func TOr(locale, key, fallback string) string {
	if v, ok := lookup(locale, key); ok {
		return v
	}
	return fallback
}

func lookup(locale, key string) (string, bool) {
	if m, ok := translations[locale]; ok {
		if v, ok := m[key]; ok {
			return v, true
		}
	}
	v, ok := translations["en"][key]
	return v, ok
}
