package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/Dev-123-win/my-shayari-content/pkg/config"
)

// GeminiGenerator produces text with Google's Gemini API
type GeminiGenerator struct {
	config     config.LLMConfig
	httpClient *http.Client
}

// NewGeminiGenerator creates a Gemini generator. Clients are made per call because each call may use another key.
func NewGeminiGenerator(cfg config.LLMConfig) *GeminiGenerator {
	return &GeminiGenerator{config: cfg, httpClient: &http.Client{Timeout: cfg.Timeout}}
}

// Generate sends prompt to the configured model using apiKey and returns the response text
func (g *GeminiGenerator) Generate(ctx context.Context, apiKey, prompt string) (string, error) {
	if apiKey == "" {
		return "", errors.New("empty api key")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.httpClient,
	}
	if g.config.Endpoint != "" {
		clientCfg.HTTPOptions.BaseURL = g.config.Endpoint
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return "", fmt.Errorf("create gemini client: %w", err)
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(g.config.Temperature)),
		MaxOutputTokens: int32(g.config.MaxTokens), //nolint:gosec // validated by config
	}
	if g.config.JSONMode {
		genCfg.ResponseMIMEType = "application/json"
	}

	resp, err := client.Models.GenerateContent(ctx, g.config.Model, genai.Text(prompt), genCfg)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("empty response from gemini")
	}
	return text, nil
}
