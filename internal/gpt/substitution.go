package gpt

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fitlife-bot/config"
	"fitlife-bot/internal/i18n"
	"fitlife-bot/internal/models"
)

// Substituter finds a replacement for a single exercise.
type Substituter struct {
	completer Completer
	timeout   time.Duration
}

func NewSubstituter(completer Completer, cfg config.GPTConfig) *Substituter {
	s := &Substituter{completer: completer, timeout: cfg.Timeout}
	if s.timeout <= 0 {
		s.timeout = defaultTimeout
	}
	return s
}

// SuggestAlternative makes a single attempt. The result keeps the sets, reps and
// rest of the original and always gets a new id.
func (s *Substituter) SuggestAlternative(ctx context.Context, ex models.Exercise, focus, equipment string, lang i18n.Language) (models.Exercise, error) {
	text, err := completeWithTimeout(ctx, s.completer, SchemaRequest{
		Prompt:     SubstitutionPrompt(ex, focus, equipment, lang),
		SchemaName: "exercise",
		Schema:     &exerciseSchema,
	}, s.timeout)
	if err != nil {
		return models.Exercise{}, fmt.Errorf("exercise substitution: %w", err)
	}

	var alt models.Exercise
	if err := decodeJSON(text, &alt); err != nil {
		return models.Exercise{}, fmt.Errorf("exercise substitution: %w", err)
	}
	if alt.Name == "" {
		return models.Exercise{}, fmt.Errorf("exercise substitution: %w: missing name", ErrMalformed)
	}

	alt.ID = uuid.NewString()
	alt.Sets = ex.Sets
	alt.Reps = ex.Reps
	alt.Rest = ex.Rest
	return alt, nil
}
