package i18n

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		code string
		want Language
	}{
		{"en", English},
		{"en-GB", English},
		{"es", Spanish},
		{"es-AR", Spanish},
		{"", Spanish},
		{"ja", Spanish},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.code, Spanish))
		})
	}
}

func TestWeekday(t *testing.T) {
	monday := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Monday", English.Weekday(monday))
	assert.Equal(t, "Lunes", Spanish.Weekday(monday))
	assert.Equal(t, "Miércoles", Spanish.Weekday(monday.AddDate(0, 0, 2)))
}

func TestT(t *testing.T) {
	assert.Equal(t, "USER QUESTION", English.T("chat.questionHeader"))
	assert.Equal(t, "PREGUNTA DEL USUARIO", Spanish.T("chat.questionHeader"))
	// missing in Spanish falls back to English
	assert.Equal(t, English.T("plan.day", "a", "b", "c"), Spanish.T("plan.day", "a", "b", "c"))
	assert.Equal(t, "no.such.key", Spanish.T("no.such.key"))
}

func TestWarmupMarker(t *testing.T) {
	assert.Equal(t, "Warm-up", English.WarmupMarker())
	assert.Equal(t, "Calentamiento", Spanish.WarmupMarker())
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		lang  Language
		in    string
		want  string
		found bool
	}{
		{English, "monday", "Monday", true},
		{English, " Lunes ", "Monday", true},
		{Spanish, "Wednesday", "Miércoles", true},
		{Spanish, "miercoles", "Miércoles", true},
		{Spanish, "SÁBADO", "Sábado", true},
		{English, "Mon", "", false},
		{English, "", "", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.lang)+"/"+tt.in, func(t *testing.T) {
			got, ok := tt.lang.ParseWeekday(tt.in)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
