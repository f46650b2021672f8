package driving

import (
	"context"

	"github.com/retriva-labs/retriva/internal/core/domain"
)

// Retriever answers natural-language questions with relevant chunks.
type Retriever interface {
	// Retrieve returns up to opts.TopK chunks relevant to the
	// question, ordered by relevance. Zero matches is an empty slice,
	// not an error; callers distinguish "no matches" from "service
	// error" by error type.
	Retrieve(ctx context.Context, question, collection string, opts domain.RetrievalOptions) ([]domain.ScoredChunk, error)
}
