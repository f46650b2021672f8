package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retriva-labs/retriva/internal/adapters/driven/embedding/ratelimit"
	"github.com/retriva-labs/retriva/internal/core/domain"
)

func TestCreateEmbedder(t *testing.T) {
	tests := []struct {
		name        string
		settings    domain.EmbeddingSettings
		wantErr     bool
		errContains string
	}{
		{
			name: "ollama provider creates service",
			settings: domain.EmbeddingSettings{
				Provider: domain.AIProviderOllama,
				BaseURL:  "http://localhost:11434",
				Model:    "nomic-embed-text",
			},
		},
		{
			name: "openai provider creates service",
			settings: domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "text-embedding-3-small",
			},
		},
		{
			name: "openai without API key returns error",
			settings: domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
			},
			wantErr: true,
		},
		{
			name: "anthropic provider returns error",
			settings: domain.EmbeddingSettings{
				Provider: domain.AIProviderAnthropic,
				APIKey:   "test-key",
			},
			wantErr:     true,
			errContains: "anthropic does not support embeddings",
		},
		{
			name: "unknown provider returns error",
			settings: domain.EmbeddingSettings{
				Provider: "unknown",
			},
			wantErr:     true,
			errContains: "unsupported embedding provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embedder, err := CreateEmbedder(tt.settings)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				assert.Nil(t, embedder)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, embedder)
			embedder.Close()
		})
	}
}

func TestCreateEmbedder_RateLimited(t *testing.T) {
	embedder, err := CreateEmbedder(domain.EmbeddingSettings{
		Provider:       domain.AIProviderOllama,
		TextsPerSecond: 10,
	})
	require.NoError(t, err)
	defer embedder.Close()

	_, ok := embedder.(*ratelimit.Embedder)
	assert.True(t, ok, "expected rate-limited wrapper")
}

func TestCreateCompleter(t *testing.T) {
	tests := []struct {
		name        string
		settings    domain.LLMSettings
		wantErr     bool
		errContains string
	}{
		{
			name: "ollama provider creates service",
			settings: domain.LLMSettings{
				Provider: domain.AIProviderOllama,
				Model:    "llama3.2",
			},
		},
		{
			name: "openai provider creates service",
			settings: domain.LLMSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
			},
		},
		{
			name: "anthropic provider creates service",
			settings: domain.LLMSettings{
				Provider: domain.AIProviderAnthropic,
				APIKey:   "test-key",
			},
		},
		{
			name: "anthropic without API key returns error",
			settings: domain.LLMSettings{
				Provider: domain.AIProviderAnthropic,
			},
			wantErr: true,
		},
		{
			name: "unknown provider returns error",
			settings: domain.LLMSettings{
				Provider: "unknown",
			},
			wantErr:     true,
			errContains: "unsupported LLM provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer, err := CreateCompleter(tt.settings)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				assert.Nil(t, completer)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, completer)
			completer.Close()
		})
	}
}
