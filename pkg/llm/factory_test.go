package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-registry/registry-engine/pkg/config"
)

func TestNewFromConfig(t *testing.T) {
	logger := zap.NewNop()

	t.Run("disabled when unconfigured", func(t *testing.T) {
		client, err := NewFromConfig(&config.AIConfig{}, logger)
		require.NoError(t, err)
		assert.Nil(t, client)
	})

	t.Run("openai provider", func(t *testing.T) {
		client, err := NewFromConfig(&config.AIConfig{
			Provider: ProviderOpenAI,
			Endpoint: "https://api.openai.com/v1",
			Model:    "gpt-4o-mini",
			APIKey:   "sk-test",
		}, logger)
		require.NoError(t, err)
		assert.IsType(t, &Client{}, client)
		assert.Equal(t, "gpt-4o-mini", client.GetModel())
	})

	t.Run("anthropic provider", func(t *testing.T) {
		client, err := NewFromConfig(&config.AIConfig{
			Provider: ProviderAnthropic,
			Model:    "claude-sonnet-4-20250514",
			APIKey:   "sk-ant-test",
		}, logger)
		require.NoError(t, err)
		assert.IsType(t, &AnthropicClient{}, client)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewFromConfig(&config.AIConfig{
			Provider: "cohere",
			Model:    "m",
			APIKey:   "k",
		}, logger)
		assert.Error(t, err)
	})
}
