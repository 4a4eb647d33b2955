// Package agent runs the nutrition chat: a transcript plus a bounded loop that
// executes the plan-editing tool calls the chat model asks for.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"fitlife-bot/internal/gpt"
	"fitlife-bot/internal/i18n"
	"fitlife-bot/internal/models"
	"fitlife-bot/internal/mutator"
	"fitlife-bot/pkg/logger"
)

var (
	ErrTransport        = errors.New("chat transport failed")
	ErrTooManyToolCalls = errors.New("too many tool calls in one round")
)

const DefaultMaxToolRounds = 10

const (
	StatusOK     = "OK"
	StatusFailed = "Failed"
	StatusError  = "Error"
)

// Transport is a stateful chat with the model. *gpt.ChatSession implements it.
type Transport interface {
	Send(ctx context.Context, text string) (gpt.Reply, error)
	SendToolResult(ctx context.Context, call gpt.FunctionCall, result string) (gpt.Reply, error)
}

// PlanStore gives the agent the live plan. *db.Store implements it.
type PlanStore interface {
	Plan() *models.Plan
	SavePlan(ctx context.Context, plan *models.Plan) error
}

type ToolResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Agent is one chat for one user in one language. Not safe for concurrent
// SendUserMessage calls; the caller runs one round at a time.
type Agent struct {
	transport Transport
	store     PlanStore
	lang      i18n.Language
	maxRounds int
	logger    *logger.Logger

	mu         sync.Mutex
	transcript []models.ChatMessage
}

func New(transport Transport, store PlanStore, lang i18n.Language, maxRounds int, logger *logger.Logger) *Agent {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxToolRounds
	}
	return &Agent{
		transport: transport,
		store:     store,
		lang:      lang,
		maxRounds: maxRounds,
		logger:    logger,
	}
}

// Transcript returns a copy of the conversation so far.
func (a *Agent) Transcript() []models.ChatMessage {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.welcome()
	return append([]models.ChatMessage(nil), a.transcript...)
}

func (a *Agent) Language() i18n.Language {
	return a.lang
}

// welcome must be called with mu held.
func (a *Agent) welcome() {
	if len(a.transcript) == 0 {
		a.transcript = append(a.transcript, models.ChatMessage{Role: models.RoleModel, Text: a.lang.T("chat.welcome")})
	}
}

func (a *Agent) appendTurn(role, text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.welcome()
	a.transcript = append(a.transcript, models.ChatMessage{Role: role, Text: text})
}

// SendUserMessage runs one chat round and returns the model's final answer.
//
// On a transport failure or when the model keeps calling tools past the round
// limit, a generic failure turn is appended and the error is returned. Earlier
// turns are kept either way.
func (a *Agent) SendUserMessage(ctx context.Context, text string) (string, error) {
	a.appendTurn(models.RoleUser, text)

	outbound, err := a.outbound(text)
	if err != nil {
		return a.fail(fmt.Errorf("%w: %w", ErrTransport, err))
	}

	reply, err := a.transport.Send(ctx, outbound)
	if err != nil {
		return a.fail(fmt.Errorf("%w: %w", ErrTransport, err))
	}

	for round := 0; len(reply.Calls) > 0; round++ {
		if round >= a.maxRounds {
			return a.fail(fmt.Errorf("%w: limit is %d", ErrTooManyToolCalls, a.maxRounds))
		}

		call := reply.Calls[0]
		result := a.execute(ctx, ParseCommand(call))
		a.logger.Infow("Executed tool call", "tool", call.Name, "status", result.Status, "round", round+1)

		payload, err := json.Marshal(result)
		if err != nil {
			return a.fail(fmt.Errorf("%w: %w", ErrTransport, err))
		}

		reply, err = a.transport.SendToolResult(ctx, call, string(payload))
		if err != nil {
			return a.fail(fmt.Errorf("%w: %w", ErrTransport, err))
		}
	}

	a.appendTurn(models.RoleModel, reply.Text)
	return reply.Text, nil
}

func (a *Agent) fail(err error) (string, error) {
	a.logger.Errorw("Chat round failed", "language", a.lang, "error", err)
	a.appendTurn(models.RoleModel, a.lang.T("chat.error"))
	return "", err
}

// outbound wraps the user's text with a snapshot of the current nutrition plan.
func (a *Agent) outbound(text string) (string, error) {
	var nutrition models.NutritionPlan
	if plan := a.store.Plan(); plan != nil {
		nutrition = plan.NutritionPlan
	}
	snapshot, err := json.MarshalIndent(nutrition, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal nutrition plan: %w", err)
	}

	var b strings.Builder
	b.WriteString(a.lang.T("chat.contextHeader"))
	b.WriteString("\n```json\n")
	b.Write(snapshot)
	b.WriteString("\n```\n\n")
	b.WriteString(a.lang.T("chat.questionHeader"))
	b.WriteString(": ")
	b.WriteString(text)
	return b.String(), nil
}

func (a *Agent) execute(ctx context.Context, cmd Command) ToolResult {
	switch c := cmd.(type) {
	case UpdateMealIngredientCommand:
		updated, ok := mutator.UpdateMealIngredient(a.store.Plan(), c.Args)
		if !ok {
			return ToolResult{Status: StatusFailed, Message: "Could not find the specified meal or ingredient."}
		}
		if err := a.store.SavePlan(ctx, updated); err != nil {
			a.logger.Errorw("Failed to save updated plan", "error", err)
			return ToolResult{Status: StatusFailed, Message: "The updated plan could not be saved."}
		}
		return ToolResult{Status: StatusOK, Message: "Meal updated successfully."}
	case InvalidArgumentsCommand:
		return ToolResult{Status: StatusError, Message: fmt.Sprintf("Invalid arguments for %s: %v", c.Name, c.Err)}
	case UnknownCommand:
		return ToolResult{Status: StatusError, Message: "Unknown function call: " + c.Name}
	default:
		return ToolResult{Status: StatusError, Message: fmt.Sprintf("Unsupported command %T", cmd)}
	}
}
