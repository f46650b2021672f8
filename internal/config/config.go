// Package config loads the TOML configuration file and applies
// defaults and environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/retriva-labs/retriva/internal/core/domain"
)

// Default configuration values.
const (
	DefaultCollection   = "documents"
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
	DefaultQdrantHost   = "localhost"
	DefaultQdrantPort   = 6334
)

// Config is the full application configuration.
type Config struct {
	// Collection is the vector store collection name.
	Collection string `toml:"collection"`

	// DataDir holds the ingestion ledger. Empty means ~/.retriva/data.
	DataDir string `toml:"data_dir"`

	Qdrant    QdrantConfig    `toml:"qdrant"`
	Embedding EmbeddingConfig `toml:"embedding"`
	LLM       LLMConfig       `toml:"llm"`
	Ingest    IngestConfig    `toml:"ingest"`
	Retrieval RetrievalConfig `toml:"retrieval"`
}

// QdrantConfig configures the vector store connection.
type QdrantConfig struct {
	Host   string `toml:"host"`
	Port   int    `toml:"port"`
	APIKey string `toml:"api_key"`
	UseTLS bool   `toml:"use_tls"`
}

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	Provider       string  `toml:"provider"`
	Model          string  `toml:"model"`
	BaseURL        string  `toml:"base_url"`
	APIKey         string  `toml:"api_key"`
	Dimensions     int     `toml:"dimensions"`
	TextsPerSecond float64 `toml:"texts_per_second"`
}

// LLMConfig configures the chat completion provider used for query
// understanding. Optional: without it retrieval runs without split,
// HyDE, LLM filters or reranking.
type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
	APIKey   string `toml:"api_key"`
}

// IngestConfig configures document ingestion.
type IngestConfig struct {
	ChunkSize    int    `toml:"chunk_size"`
	ChunkOverlap int    `toml:"chunk_overlap"`
	DefaultUser  string `toml:"default_user"`
}

// RetrievalConfig sets retrieval defaults. Command-line flags
// override these per call.
type RetrievalConfig struct {
	TopK           int  `toml:"top_k"`
	Split          bool `toml:"split"`
	Hyde           bool `toml:"hyde"`
	Rerank         bool `toml:"rerank"`
	FilterFallback bool `toml:"filter_fallback"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Collection: DefaultCollection,
		Qdrant: QdrantConfig{
			Host: DefaultQdrantHost,
			Port: DefaultQdrantPort,
		},
		Embedding: EmbeddingConfig{
			Provider: string(domain.AIProviderOllama),
		},
		Ingest: IngestConfig{
			ChunkSize:    DefaultChunkSize,
			ChunkOverlap: DefaultChunkOverlap,
		},
		Retrieval: RetrievalConfig{
			TopK:           domain.DefaultTopK,
			FilterFallback: true,
		},
	}
}

// DefaultPath returns the default config file location,
// ~/.retriva/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".retriva", "config.toml"), nil
}

// Load reads the config file at path, falling back to defaults for
// absent fields. A missing file is not an error: defaults apply. If
// path is empty, DefaultPath is used.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		applyEnv(&cfg)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}

	applyEnv(&cfg)
	return cfg, cfg.validate()
}

// applyEnv fills API keys from the environment when the file leaves
// them empty. Keys in the environment keep secrets out of the config
// file.
func applyEnv(cfg *Config) {
	if cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.LLM.APIKey == "" {
		switch domain.AIProvider(cfg.LLM.Provider) {
		case domain.AIProviderAnthropic:
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		case domain.AIProviderOpenAI:
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	if cfg.Qdrant.APIKey == "" {
		cfg.Qdrant.APIKey = os.Getenv("QDRANT_API_KEY")
	}
}

// validate rejects configurations that cannot produce a working
// pipeline.
func (c *Config) validate() error {
	if c.Collection == "" {
		return fmt.Errorf("collection must not be empty")
	}
	if c.Qdrant.Host == "" {
		return fmt.Errorf("qdrant.host must not be empty")
	}
	if c.Ingest.ChunkSize <= 0 {
		return fmt.Errorf("ingest.chunk_size must be positive")
	}
	if c.Ingest.ChunkOverlap < 0 || c.Ingest.ChunkOverlap >= c.Ingest.ChunkSize {
		return fmt.Errorf("ingest.chunk_overlap must be in [0, chunk_size)")
	}
	if c.Embedding.Provider == "" {
		return fmt.Errorf("embedding.provider must not be empty")
	}
	return nil
}

// EmbeddingSettings converts the embedding section into provider
// settings.
func (c *Config) EmbeddingSettings() domain.EmbeddingSettings {
	return domain.EmbeddingSettings{
		Provider:       domain.AIProvider(c.Embedding.Provider),
		Model:          c.Embedding.Model,
		BaseURL:        c.Embedding.BaseURL,
		APIKey:         c.Embedding.APIKey,
		Dimensions:     c.Embedding.Dimensions,
		TextsPerSecond: c.Embedding.TextsPerSecond,
	}
}

// LLMSettings converts the llm section into provider settings.
func (c *Config) LLMSettings() domain.LLMSettings {
	return domain.LLMSettings{
		Provider: domain.AIProvider(c.LLM.Provider),
		Model:    c.LLM.Model,
		BaseURL:  c.LLM.BaseURL,
		APIKey:   c.LLM.APIKey,
	}
}
