package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retriva-labs/retriva/internal/core/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultCollection, cfg.Collection)
	assert.Equal(t, DefaultQdrantHost, cfg.Qdrant.Host)
	assert.Equal(t, DefaultQdrantPort, cfg.Qdrant.Port)
	assert.Equal(t, DefaultChunkSize, cfg.Ingest.ChunkSize)
	assert.Equal(t, domain.DefaultTopK, cfg.Retrieval.TopK)
	assert.True(t, cfg.Retrieval.FilterFallback)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
collection = "mail"

[qdrant]
host = "qdrant.internal"
port = 7443
use_tls = true

[embedding]
provider = "openai"
model = "text-embedding-3-large"
api_key = "sk-test"

[llm]
provider = "anthropic"
api_key = "sk-ant"

[ingest]
chunk_size = 800
chunk_overlap = 150
default_user = "alice"

[retrieval]
top_k = 25
split = true
rerank = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mail", cfg.Collection)
	assert.Equal(t, "qdrant.internal", cfg.Qdrant.Host)
	assert.Equal(t, 7443, cfg.Qdrant.Port)
	assert.True(t, cfg.Qdrant.UseTLS)
	assert.Equal(t, "openai", cfg.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-large", cfg.Embedding.Model)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, 800, cfg.Ingest.ChunkSize)
	assert.Equal(t, 150, cfg.Ingest.ChunkOverlap)
	assert.Equal(t, "alice", cfg.Ingest.DefaultUser)
	assert.Equal(t, 25, cfg.Retrieval.TopK)
	assert.True(t, cfg.Retrieval.Split)
	assert.True(t, cfg.Retrieval.Rerank)
	assert.False(t, cfg.Retrieval.Hyde)
}

func TestLoad_PartialFileKeepsOtherDefaults(t *testing.T) {
	path := writeConfig(t, `
[qdrant]
host = "10.0.0.5"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.5", cfg.Qdrant.Host)
	assert.Equal(t, DefaultQdrantPort, cfg.Qdrant.Port)
	assert.Equal(t, DefaultCollection, cfg.Collection)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := writeConfig(t, `collection = [broken`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "empty collection",
			content: `collection = ""`,
		},
		{
			name: "overlap not below chunk size",
			content: `
[ingest]
chunk_size = 100
chunk_overlap = 100
`,
		},
		{
			name: "negative overlap",
			content: `
[ingest]
chunk_overlap = -1
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_EnvironmentAPIKeys(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-env")
	t.Setenv("QDRANT_API_KEY", "qd-env")

	path := writeConfig(t, `
[llm]
provider = "anthropic"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sk-ant-env", cfg.LLM.APIKey)
	assert.Equal(t, "qd-env", cfg.Qdrant.APIKey)
}

func TestLoad_FileAPIKeyWinsOverEnvironment(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-env")

	path := writeConfig(t, `
[llm]
provider = "anthropic"
api_key = "sk-ant-file"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-file", cfg.LLM.APIKey)
}

func TestSettingsConversion(t *testing.T) {
	cfg := Config{
		Embedding: EmbeddingConfig{
			Provider:       "openai",
			Model:          "text-embedding-3-small",
			APIKey:         "sk",
			TextsPerSecond: 5,
		},
		LLM: LLMConfig{
			Provider: "ollama",
			Model:    "llama3.2",
			BaseURL:  "http://localhost:11434",
		},
	}

	embed := cfg.EmbeddingSettings()
	assert.Equal(t, domain.AIProviderOpenAI, embed.Provider)
	assert.Equal(t, 5.0, embed.TextsPerSecond)

	llm := cfg.LLMSettings()
	assert.Equal(t, domain.AIProviderOllama, llm.Provider)
	assert.Equal(t, "http://localhost:11434", llm.BaseURL)
}
