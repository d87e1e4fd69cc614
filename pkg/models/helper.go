package models

import (
	"context"
	"fmt"
)

// NewProvider returns a concrete Agent for the named provider.
func NewProvider(ctx context.Context, provider, model string) (Agent, error) {
	switch provider {
	case "openai":
		return NewOpenAILLM(model), nil
	case "gemini", "google":
		return NewGeminiLLM(ctx, model)
	case "ollama":
		return NewOllamaLLM(model)
	case "anthropic", "claude":
		return NewAnthropicLLM(model), nil
	case "dummy":
		return NewDummyLLM(), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
