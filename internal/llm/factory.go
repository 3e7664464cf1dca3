package llm

import (
	"context"
	"fmt"
)

// NewClient builds the Client for cfg.Provider.
func NewClient(ctx context.Context, cfg LLMConfig, observer Observer) (Client, error) {
	switch cfg.Provider {
	case ProviderOllama:
		return NewOllamaClient(cfg, observer), nil
	case ProviderOpenAI:
		return NewOpenAIClient(cfg, observer)
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg, observer)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
