package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// openaiBackend calls any OpenAI-compatible chat completion endpoint.
type openaiBackend struct {
	client openai.Client
	model  string
}

// NewOpenAIClient creates a Client for an OpenAI-compatible endpoint.
// SDK-level retries are disabled; the retry budget comes from cfg.MaxRetries.
func NewOpenAIClient(cfg LLMConfig, observer Observer) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: provider %s", ErrMissingAPIKey, cfg.Provider)
	}
	client := openai.NewClient(
		option.WithBaseURL(cfg.DefaultEndpoint()),
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	)
	b := &openaiBackend{client: client, model: cfg.Model}
	return newRetryingClient(cfg, b, observer), nil
}

func (b *openaiBackend) complete(ctx context.Context, c completion) (string, string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if c.System != "" {
		messages = append(messages, openai.SystemMessage(c.System))
	}
	messages = append(messages, openai.UserMessage(c.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:       b.model,
		Messages:    messages,
		Temperature: openai.Float(c.Temperature),
	}
	if c.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.MaxTokens))
	}

	resp, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, resp.Model, nil
}

func (b *openaiBackend) available(ctx context.Context) bool {
	_, err := b.client.Models.List(ctx)
	return err == nil
}
