package driven

import (
	"context"

	"github.com/retriva-labs/retriva/internal/core/domain"
)

// Reranker reorders retrieval candidates by a cross-encoder-style
// relevance score against the original question.
type Reranker interface {
	// Rerank returns the candidates reordered by descending relevance.
	// The result contains exactly the input chunks with new scores.
	Rerank(ctx context.Context, question string, candidates []domain.ScoredChunk) ([]domain.ScoredChunk, error)
}
