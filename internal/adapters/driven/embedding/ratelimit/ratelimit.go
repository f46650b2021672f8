// Package ratelimit wraps an embedder with a client-side rate limit
// so batch ingestion stays inside provider quotas.
package ratelimit

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/retriva-labs/retriva/internal/core/ports/driven"
)

// Ensure Embedder implements the interface.
var _ driven.Embedder = (*Embedder)(nil)

// Embedder delegates to an inner embedder after reserving limiter
// tokens, one per embedded text.
type Embedder struct {
	inner   driven.Embedder
	limiter *rate.Limiter
}

// New wraps inner with a limit of textsPerSecond, allowing bursts up
// to burst texts.
func New(inner driven.Embedder, textsPerSecond float64, burst int) *Embedder {
	return &Embedder{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(textsPerSecond), burst),
	}
}

// Embed generates a vector embedding for the given text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return e.inner.Embed(ctx, text)
}

// EmbedBatch generates embeddings for multiple texts, reserving one
// token per text. Batches larger than the burst are split so they can
// ever acquire enough tokens.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	burst := e.limiter.Burst()
	results := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += burst {
		end := start + burst
		if end > len(texts) {
			end = len(texts)
		}

		if err := e.limiter.WaitN(ctx, end-start); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
		batch, err := e.inner.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		results = append(results, batch...)
	}
	return results, nil
}

// Dimensions returns the embedding vector size.
func (e *Embedder) Dimensions() int { return e.inner.Dimensions() }

// ModelName returns the name of the embedding model being used.
func (e *Embedder) ModelName() string { return e.inner.ModelName() }

// Ping validates the inner service is reachable. Pings are not
// rate limited.
func (e *Embedder) Ping(ctx context.Context) error { return e.inner.Ping(ctx) }

// Close releases resources.
func (e *Embedder) Close() error { return e.inner.Close() }
