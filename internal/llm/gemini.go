package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// geminiBackend calls the Gemini API through the official SDK.
type geminiBackend struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Client backed by Gemini. A non-empty
// cfg.Endpoint replaces the SDK's base URL.
func NewGeminiClient(ctx context.Context, cfg LLMConfig, observer Observer) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: provider %s", ErrMissingAPIKey, cfg.Provider)
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Endpoint != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	b := &geminiBackend{client: client, model: cfg.Model}
	return newRetryingClient(cfg, b, observer), nil
}

func (b *geminiBackend) complete(ctx context.Context, c completion) (string, string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(c.Temperature)),
	}
	if c.MaxTokens > 0 {
		config.MaxOutputTokens = int32(c.MaxTokens)
	}
	if c.System != "" {
		config.SystemInstruction = genai.NewContentFromText(c.System, genai.RoleUser)
	}

	resp, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(c.Prompt), config)
	if err != nil {
		return "", "", fmt.Errorf("generate content failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", "", ErrEmptyResponse
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	return text.String(), resp.ModelVersion, nil
}

func (b *geminiBackend) available(ctx context.Context) bool {
	_, err := b.client.Models.Get(ctx, b.model, nil)
	return err == nil
}
