// Package llm talks to text generation APIs and turns their free-form answers into categorized batches.
package llm

import (
	"context"
	"fmt"

	"github.com/Dev-123-win/my-shayari-content/pkg/config"
)

// Generator produces raw text for a prompt using the given api key
type Generator interface {
	Generate(ctx context.Context, apiKey, prompt string) (string, error)
}

// New makes a generator for the configured provider
func New(cfg config.LLMConfig) (Generator, error) {
	switch cfg.Provider {
	case config.ProviderGemini, "":
		return NewGeminiGenerator(cfg), nil
	case config.ProviderOpenAI:
		return NewOpenAIGenerator(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}
