package llm

import "fmt"

// ProviderConfig holds what's needed to construct an LLM client.
type ProviderConfig struct {
	Provider  string // "anthropic" or "openai"
	Model     string
	APIKey    string
	BaseURL   string // optional: override API base URL (for OpenAI-compatible endpoints)
	MaxTokens int
}

// NewFromConfig creates the ToolClient for the configured provider.
func NewFromConfig(cfg ProviderConfig) (ToolClient, error) {
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicClient(cfg.APIKey, cfg.Model, cfg.BaseURL, cfg.MaxTokens), nil

	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL, cfg.MaxTokens), nil

	case "":
		return nil, fmt.Errorf("no LLM provider configured (set llm.provider in hrchat.json)")

	default:
		return nil, fmt.Errorf("unknown LLM provider: %q (supported: anthropic, openai)", cfg.Provider)
	}
}
