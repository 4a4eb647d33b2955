// internal/gpt/client.go
package gpt

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"fitlife-bot/config"
)

type Client struct {
	client      *openai.Client
	model       string
	chatModel   string
	visionModel string
	speechModel string
	voice       string
}

func NewClient(cfg config.GPTConfig) *Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	c := &Client{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       "gpt-4o-mini",
		speechModel: string(openai.TTSModel1),
		voice:       string(openai.VoiceNova),
	}
	if cfg.Model != "" {
		c.model = cfg.Model
	}
	c.chatModel = c.model
	if cfg.ChatModel != "" {
		c.chatModel = cfg.ChatModel
	}
	c.visionModel = c.model
	if cfg.VisionModel != "" {
		c.visionModel = cfg.VisionModel
	}
	if cfg.SpeechModel != "" {
		c.speechModel = cfg.SpeechModel
	}
	if cfg.Voice != "" {
		c.voice = cfg.Voice
	}
	return c
}

// SchemaRequest is a single-turn completion whose answer must match Schema.
type SchemaRequest struct {
	System     string
	Prompt     string
	SchemaName string
	Schema     json.Marshaler
}

// Complete sends a schema-constrained completion and returns the raw text of the answer.
// The call is aborted when ctx is done.
func (c *Client) Complete(ctx context.Context, req SchemaRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	chatReq := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.7,
	}
	if req.Schema != nil {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.SchemaName,
				Schema: req.Schema,
			},
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}

	return resp.Choices[0].Message.Content, nil
}

// AnalyzeImage asks the vision model about an image.
func (c *Client) AnalyzeImage(ctx context.Context, image []byte, mimeType, instruction string) (string, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.visionModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL, Detail: openai.ImageURLDetailAuto},
					},
					{
						Type: openai.ChatMessagePartTypeText,
						Text: instruction,
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("image analysis: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmpty
	}

	return resp.Choices[0].Message.Content, nil
}
