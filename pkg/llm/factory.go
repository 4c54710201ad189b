package llm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/campus-registry/registry-engine/pkg/config"
)

// Provider names accepted in configuration.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// NewFromConfig builds the configured provider's client, or nil if the
// assistant is not configured. A nil client means the assistant is
// disabled and the pipeline degrades to a fixed failure response.
func NewFromConfig(cfg *config.AIConfig, logger *zap.Logger) (LLMClient, error) {
	if !cfg.IsAvailable() {
		return nil, nil
	}

	clientCfg := &Config{
		Endpoint: cfg.Endpoint,
		Model:    cfg.Model,
		APIKey:   cfg.APIKey,
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		return NewClient(clientCfg, logger)
	case ProviderAnthropic:
		return NewAnthropicClient(clientCfg, logger)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}
