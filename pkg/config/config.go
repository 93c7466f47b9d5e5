package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// provider names
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config holds the application configuration
type Config struct {
	Files struct {
		Prompt string `yaml:"prompt" json:"prompt" jsonschema:"default=content_automation/prompts/shayari_prompt.txt,description=Prompt file passed verbatim to the model"`
		Output string `yaml:"output" json:"output" jsonschema:"default=online_shayari.json,description=Collection file to update"`
	} `yaml:"files" json:"files" jsonschema:"description=File locations"`

	LLM LLMConfig `yaml:"llm" json:"llm" jsonschema:"description=Text generation configuration"`

	Collection struct {
		MaxPerCategory int `yaml:"max_per_category" json:"max_per_category" jsonschema:"default=2000,minimum=1,description=Maximum entries kept per category"`
	} `yaml:"collection" json:"collection" jsonschema:"description=Collection limits"`

	History struct {
		DSN string `yaml:"dsn" json:"dsn" jsonschema:"description=SQLite DSN for run history, empty disables history"`
	} `yaml:"history" json:"history" jsonschema:"description=Run history configuration"`

	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
		BaseURL string        `yaml:"base_url" json:"base_url" jsonschema:"default=http://localhost:8080,description=Public base URL used in RSS links"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`
}

// LLMConfig holds text generation settings
type LLMConfig struct {
	Provider    string        `yaml:"provider" json:"provider" jsonschema:"default=gemini,enum=gemini,enum=openai,description=Generation API provider"`
	Endpoint    string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=Custom API base URL (optional)"`
	APIKeys     []string      `yaml:"api_keys" json:"api_keys" jsonschema:"description=API keys tried in order (usually set via GEMINI_API_KEYS)"`
	Model       string        `yaml:"model" json:"model" jsonschema:"default=gemini-1.5-flash,description=Model name"`
	Temperature float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.9,minimum=0,maximum=2,description=Temperature for response generation"`
	MaxTokens   int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=4096,description=Maximum tokens in response"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=60s,description=Timeout of a single generation call"`
	RetryDelay  time.Duration `yaml:"retry_delay" json:"retry_delay" jsonschema:"default=2s,description=Delay before switching to the next key after a failure"`
	JSONMode    bool          `yaml:"json_mode" json:"json_mode" jsonschema:"default=false,description=Request application/json output (not all models support this)"`
}

// Default returns configuration with all defaults applied
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Files.Prompt == "" {
		cfg.Files.Prompt = "content_automation/prompts/shayari_prompt.txt"
	}
	if cfg.Files.Output == "" {
		cfg.Files.Output = "online_shayari.json"
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = ProviderGemini
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gemini-1.5-flash"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.9
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 4096
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 60 * time.Second
	}
	if cfg.LLM.RetryDelay == 0 {
		cfg.LLM.RetryDelay = 2 * time.Second
	}

	if cfg.Collection.MaxPerCategory == 0 {
		cfg.Collection.MaxPerCategory = 2000
	}

	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = "http://localhost:8080"
	}
}

// Validate checks configuration for correctness. Missing keys are not checked here,
// the updater reports them with a dedicated error.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("llm.provider must be %q or %q, got %q", ProviderGemini, ProviderOpenAI, c.LLM.Provider)
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if c.LLM.MaxTokens < 0 {
		return fmt.Errorf("llm.max_tokens must be non-negative")
	}
	if c.LLM.RetryDelay < 0 {
		return fmt.Errorf("llm.retry_delay must be non-negative")
	}
	if c.Collection.MaxPerCategory < 1 {
		return fmt.Errorf("collection.max_per_category must be at least 1")
	}
	if c.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}
	return nil
}

// CleanKeys splits comma separated values, trims them and drops empty ones.
// Order is preserved, so "k1, ,k2" and ["k1", "", " k2"] both give [k1 k2].
func CleanKeys(keys ...string) []string {
	res := []string{}
	for _, k := range keys {
		for _, part := range strings.Split(k, ",") {
			if part = strings.TrimSpace(part); part != "" {
				res = append(res, part)
			}
		}
	}
	return res
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetLLMConfig returns LLM configuration
func (c *Config) GetLLMConfig() LLMConfig {
	return c.LLM
}

// GetBaseURL returns public base url of the server
func (c *Config) GetBaseURL() string {
	return c.Server.BaseURL
}
