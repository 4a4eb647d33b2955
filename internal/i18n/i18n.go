// Package i18n holds the two supported languages and the strings the bot and
// the agents need in each of them.
package i18n

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Language string

const (
	English Language = "en"
	Spanish Language = "es"
)

var matcher = language.NewMatcher([]language.Tag{language.English, language.Spanish})

// Parse maps a BCP 47 tag such as "es-AR" or a Telegram language code to a
// supported language. Anything unsupported resolves to fallback.
func Parse(code string, fallback Language) Language {
	if strings.TrimSpace(code) == "" {
		return fallback
	}
	_, idx, confidence := matcher.Match(language.Make(code))
	if confidence == language.No {
		return fallback
	}
	if idx == 1 {
		return Spanish
	}
	return English
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	return l == English || l == Spanish
}

// WarmupMarker is the token embedded in warm-up exercise names.
func (l Language) WarmupMarker() string {
	if l == Spanish {
		return "Calentamiento"
	}
	return "Warm-up"
}

var weekdays = map[Language][7]string{
	English: {"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	Spanish: {"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"},
}

// Weekday returns the day label the plan uses for t.
func (l Language) Weekday(t time.Time) string {
	names, ok := weekdays[l]
	if !ok {
		names = weekdays[English]
	}
	return names[t.Weekday()]
}

// ParseWeekday matches a day name in any supported language, ignoring case
// and accents, and returns the label l uses for it.
func (l Language) ParseWeekday(s string) (string, bool) {
	key := foldName(s)
	if key == "" {
		return "", false
	}
	names, ok := weekdays[l]
	if !ok {
		names = weekdays[English]
	}
	for _, lang := range []Language{English, Spanish} {
		for i, name := range weekdays[lang] {
			if foldName(name) == key {
				return names[i], true
			}
		}
	}
	return "", false
}

func foldName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = strings.TrimSpace(s)
	}
	return strings.ToLower(out)
}

// T looks up a message key, falling back to English and then to the key itself.
// args are applied with fmt.Sprintf when present.
func (l Language) T(key string, args ...any) string {
	msg, ok := catalog[l][key]
	if !ok {
		msg, ok = catalog[English][key]
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}
