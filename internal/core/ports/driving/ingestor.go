package driving

import (
	"context"

	"github.com/retriva-labs/retriva/internal/core/domain"
)

// Ingestor loads documents into the vector store.
type Ingestor interface {
	// Ingest processes a single document for the given user.
	// The report's Err field carries per-document failures; the
	// returned error is reserved for systemic failures (store or
	// embedding service unreachable).
	Ingest(ctx context.Context, path, user, collection string) (domain.IngestReport, error)

	// IngestAll processes many documents, isolating per-document
	// failures. One report per input path, in input order.
	IngestAll(ctx context.Context, paths []string, user, collection string) ([]domain.IngestReport, error)
}
