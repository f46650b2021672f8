package domain

// AIProvider identifies an AI service provider.
type AIProvider string

// Supported AI providers.
const (
	// AIProviderOllama is a local Ollama server.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic API. Chat only; Anthropic
	// does not offer an embedding endpoint.
	AIProviderAnthropic AIProvider = "anthropic"
)

// EmbeddingSettings configures the embedding provider.
type EmbeddingSettings struct {
	// Provider selects the embedding backend.
	Provider AIProvider

	// Model is the embedding model name. Empty means the provider
	// default.
	Model string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// APIKey authenticates against hosted providers.
	APIKey string

	// Dimensions overrides the model's vector size.
	Dimensions int

	// TextsPerSecond rate-limits embedding calls. Zero disables the
	// limiter.
	TextsPerSecond float64
}

// IsConfigured reports whether a provider is selected.
func (s *EmbeddingSettings) IsConfigured() bool {
	return s != nil && s.Provider != ""
}

// LLMSettings configures the chat completion provider used for query
// understanding.
type LLMSettings struct {
	// Provider selects the chat backend.
	Provider AIProvider

	// Model is the chat model name. Empty means the provider default.
	Model string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// APIKey authenticates against hosted providers.
	APIKey string
}

// IsConfigured reports whether a provider is selected.
func (s *LLMSettings) IsConfigured() bool {
	return s != nil && s.Provider != ""
}

// EmbeddingDimensions maps known embedding models to vector sizes.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		"nomic-embed-text":       768,
		"all-minilm":             384,
		"mxbai-embed-large":      1024,
	}
}
