// Package ai constructs embedding and chat completion services from
// provider settings.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/retriva-labs/retriva/internal/adapters/driven/embedding/ollama"
	"github.com/retriva-labs/retriva/internal/adapters/driven/embedding/openai"
	"github.com/retriva-labs/retriva/internal/adapters/driven/embedding/ratelimit"
	anthropicllm "github.com/retriva-labs/retriva/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/retriva-labs/retriva/internal/adapters/driven/llm/ollama"
	openaillm "github.com/retriva-labs/retriva/internal/adapters/driven/llm/openai"
	"github.com/retriva-labs/retriva/internal/core/domain"
	"github.com/retriva-labs/retriva/internal/core/ports/driven"
)

// pingTimeout bounds the startup connectivity check.
const pingTimeout = 5 * time.Second

// rateLimitBurst is the batch size granted to the embedding rate
// limiter when one is configured.
const rateLimitBurst = 16

// CreateEmbedder creates an embedding service for the configured
// provider without validating connectivity.
func CreateEmbedder(settings domain.EmbeddingSettings) (driven.Embedder, error) {
	var (
		embedder driven.Embedder
		err      error
	)

	switch settings.Provider {
	case domain.AIProviderOllama:
		embedder = ollama.New(ollama.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})

	case domain.AIProviderOpenAI:
		embedder, err = openai.New(openai.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})
		if err != nil {
			return nil, err
		}

	case domain.AIProviderAnthropic:
		return nil, fmt.Errorf("anthropic does not support embeddings, use ollama or openai")

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}

	if settings.TextsPerSecond > 0 {
		embedder = ratelimit.New(embedder, settings.TextsPerSecond, rateLimitBurst)
	}
	return embedder, nil
}

// CreateAndValidateEmbedder creates an embedding service and verifies
// it is reachable. The service is closed again if the ping fails.
func CreateAndValidateEmbedder(ctx context.Context, settings domain.EmbeddingSettings) (driven.Embedder, error) {
	embedder, err := CreateEmbedder(settings)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := embedder.Ping(pingCtx); err != nil {
		embedder.Close()
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrEmbeddingUnavailable, settings.Provider, err)
	}
	return embedder, nil
}

// CreateCompleter creates a chat completion service for the configured
// provider without validating connectivity.
func CreateCompleter(settings domain.LLMSettings) (driven.ChatCompleter, error) {
	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.New(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		svc, err := openaillm.New(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	case domain.AIProviderAnthropic:
		svc, err := anthropicllm.New(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// CreateAndValidateCompleter creates a chat completion service and
// verifies it is reachable. The service is closed again if the ping
// fails.
func CreateAndValidateCompleter(ctx context.Context, settings domain.LLMSettings) (driven.ChatCompleter, error) {
	completer, err := CreateCompleter(settings)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := completer.Ping(pingCtx); err != nil {
		completer.Close()
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrLLMUnavailable, settings.Provider, err)
	}
	return completer, nil
}
