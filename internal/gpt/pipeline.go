package gpt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"fitlife-bot/config"
	"fitlife-bot/internal/i18n"
	"fitlife-bot/internal/migrate"
	"fitlife-bot/internal/models"
	"fitlife-bot/pkg/logger"
)

var (
	ErrTimeout   = errors.New("generation timed out")
	ErrEmpty     = errors.New("generation returned an empty response")
	ErrMalformed = errors.New("generation returned malformed JSON")
	ErrExhausted = errors.New("plan generation failed")
)

const (
	defaultTimeout     = 180 * time.Second
	defaultMaxAttempts = 3
)

// Completer runs one schema-constrained completion. *Client implements it.
type Completer interface {
	Complete(ctx context.Context, req SchemaRequest) (string, error)
}

// Pipeline turns a profile into a plan. Every failure is retried the same way
// with a fixed pause between attempts; the pipeline never writes to the store.
type Pipeline struct {
	completer   Completer
	logger      *logger.Logger
	timeout     time.Duration
	maxAttempts int
	retryDelay  time.Duration
}

func NewPipeline(completer Completer, cfg config.GPTConfig, logger *logger.Logger) *Pipeline {
	p := &Pipeline{
		completer:   completer,
		logger:      logger,
		timeout:     cfg.Timeout,
		maxAttempts: cfg.MaxAttempts,
		retryDelay:  cfg.RetryDelay,
	}
	if p.timeout <= 0 {
		p.timeout = defaultTimeout
	}
	if p.maxAttempts < 1 {
		p.maxAttempts = defaultMaxAttempts
	}
	return p
}

// Generate asks for a plan up to maxAttempts times. The returned plan has fresh
// ids on every day, meal and exercise.
//
// When every attempt fails the error wraps ErrExhausted and the last failure,
// so errors.Is(err, ErrTimeout) tells a timeout apart from other failures.
func (p *Pipeline) Generate(ctx context.Context, profile *models.UserProfile, lang i18n.Language) (*models.Plan, error) {
	req := SchemaRequest{
		Prompt:     PlanPrompt(profile, lang),
		SchemaName: "fitness_plan",
		Schema:     &planSchema,
	}

	var last error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		plan, err := p.attempt(ctx, req)
		if err == nil {
			p.logger.Infow("Plan generated", "attempt", attempt, "language", lang)
			plan = migrate.Reassign(plan)
			plan, _ = migrate.Normalize(plan)
			return plan, nil
		}
		last = err
		p.logger.Warnw("Plan generation attempt failed", "attempt", attempt, "max_attempts", p.maxAttempts, "error", err)

		if ctx.Err() != nil {
			return nil, fmt.Errorf("plan generation cancelled: %w", ctx.Err())
		}
		if attempt == p.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("plan generation cancelled: %w", ctx.Err())
		case <-time.After(p.retryDelay):
		}
	}

	p.logger.Errorw("All plan generation attempts failed", "attempts", p.maxAttempts, "error", last)
	return nil, fmt.Errorf("%w after %d attempts: %w", ErrExhausted, p.maxAttempts, last)
}

func (p *Pipeline) attempt(ctx context.Context, req SchemaRequest) (*models.Plan, error) {
	text, err := completeWithTimeout(ctx, p.completer, req, p.timeout)
	if err != nil {
		return nil, err
	}

	var plan models.Plan
	if err := decodeJSON(text, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// completeWithTimeout runs one completion under its own deadline. A deadline
// hit while ctx is still live is reported as ErrTimeout.
func completeWithTimeout(ctx context.Context, c Completer, req SchemaRequest, timeout time.Duration) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	text, err := c.Complete(attemptCtx, req)
	if err != nil {
		if ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s", ErrTimeout, timeout)
		}
		return "", fmt.Errorf("completion request: %w", err)
	}
	return text, nil
}

// decodeJSON parses the JSON object embedded in text, ignoring any prose or
// code fences around it.
func decodeJSON(text string, v any) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmpty
	}

	body, ok := extractObject(text)
	if !ok {
		return fmt.Errorf("%w: no JSON object in response", ErrMalformed)
	}

	if err := json.Unmarshal([]byte(body), v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return nil
}

// extractObject returns the text between the first '{' and the last '}'.
func extractObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
