package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/Dev-123-win/my-shayari-content/pkg/config"
)

// OpenAIGenerator produces text with any OpenAI-compatible chat completion API
type OpenAIGenerator struct {
	config config.LLMConfig
}

// NewOpenAIGenerator creates a generator for OpenAI-compatible endpoints
func NewOpenAIGenerator(cfg config.LLMConfig) *OpenAIGenerator {
	return &OpenAIGenerator{config: cfg}
}

// Generate sends prompt as a single user message and returns the first choice content
func (g *OpenAIGenerator) Generate(ctx context.Context, apiKey, prompt string) (string, error) {
	if apiKey == "" {
		return "", errors.New("empty api key")
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if g.config.Endpoint != "" {
		clientConfig.BaseURL = g.config.Endpoint
	}
	client := openai.NewClientWithConfig(clientConfig)

	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model:       g.config.Model,
		Temperature: float32(g.config.Temperature),
		MaxTokens:   g.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if g.config.JSONMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from llm")
	}
	return resp.Choices[0].Message.Content, nil
}
