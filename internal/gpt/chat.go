package gpt

import (
	"context"
	"fmt"
	"sync"

	"github.com/sashabaranov/go-openai"
)

const UpdateMealIngredientTool = "updateMealIngredient"

type FunctionCall struct {
	ID        string
	Name      string
	Arguments string // raw JSON
}

// Reply is one answer of the chat model: either final text or pending function calls.
type Reply struct {
	Text  string
	Calls []FunctionCall
}

// ChatSession is a tool-enabled conversation whose history lives on our side.
// Function calls are handed out one at a time: when the model asks for several,
// the rest are returned after each tool result without a network round trip.
type ChatSession struct {
	client *openai.Client
	model  string

	mu       sync.Mutex
	messages []openai.ChatCompletionMessage
	pending  []FunctionCall
}

func (c *Client) NewChat(systemPrompt string) *ChatSession {
	return &ChatSession{
		client: c.client,
		model:  c.chatModel,
		messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		},
	}
}

// Send adds a user message and returns the model's reply.
func (s *ChatSession) Send(ctx context.Context, text string) (Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Calls left over from an aborted round still need an answer.
	for _, call := range s.pending {
		s.messages = append(s.messages, toolMessage(call, `{"status":"Error","message":"Call abandoned."}`))
	}
	s.pending = nil

	s.messages = append(s.messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: text,
	})
	return s.roundTrip(ctx)
}

// SendToolResult answers a function call with a JSON result.
func (s *ChatSession) SendToolResult(ctx context.Context, call FunctionCall, result string) (Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, toolMessage(call, result))

	remaining := s.pending[:0]
	for _, p := range s.pending {
		if p.ID != call.ID {
			remaining = append(remaining, p)
		}
	}
	s.pending = remaining
	if len(s.pending) > 0 {
		return Reply{Calls: append([]FunctionCall(nil), s.pending...)}, nil
	}
	return s.roundTrip(ctx)
}

func (s *ChatSession) roundTrip(ctx context.Context) (Reply, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:             s.model,
		Messages:          s.messages,
		Tools:             []openai.Tool{updateMealIngredientTool()},
		ParallelToolCalls: false,
	})
	if err != nil {
		return Reply{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Reply{}, fmt.Errorf("chat completion: %w", ErrEmpty)
	}

	msg := resp.Choices[0].Message
	s.messages = append(s.messages, msg)

	if len(msg.ToolCalls) == 0 {
		return Reply{Text: msg.Content}, nil
	}

	calls := make([]FunctionCall, 0, len(msg.ToolCalls))
	for _, tc := range msg.ToolCalls {
		calls = append(calls, FunctionCall{ID: tc.ID, Name: tc.Function.Name, Arguments: tc.Function.Arguments})
	}
	s.pending = calls
	return Reply{Text: msg.Content, Calls: append([]FunctionCall(nil), calls...)}, nil
}

func toolMessage(call FunctionCall, result string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{
		Role:       openai.ChatMessageRoleTool,
		Content:    result,
		Name:       call.Name,
		ToolCallID: call.ID,
	}
}

func updateMealIngredientTool() openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        UpdateMealIngredientTool,
			Description: "Updates a meal in the user's nutrition plan by replacing one ingredient with another. Can also rename the meal.",
			Parameters:  &updateMealIngredientParams,
		},
	}
}
