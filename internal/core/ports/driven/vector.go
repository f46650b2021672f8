package driven

import (
	"context"

	"github.com/retriva-labs/retriva/internal/core/domain"
)

// VectorStore wraps the external vector database. It exclusively owns
// the persisted embedding points; services hold only transient
// in-memory references during a call.
//
// Transport and auth failures wrap domain.ErrStoreUnavailable. The
// adapter never retries on its own - retry policy belongs to the caller.
type VectorStore interface {
	// EnsureCollection creates the collection if absent. No-op when it
	// already exists.
	EnsureCollection(ctx context.Context, collection string, vectorDim int) error

	// Upsert inserts or replaces points keyed by Payload.UniqueID.
	// Idempotent: replaying the same batch produces the same stored state.
	Upsert(ctx context.Context, collection string, points []domain.EmbeddingPoint) error

	// Search returns up to limit chunks by vector similarity,
	// restricted by the optional filter. A nil filter searches the
	// whole collection. Zero matches is an empty slice, not an error.
	Search(ctx context.Context, collection string, vector []float32, limit int, filter *domain.Filter) ([]domain.ScoredChunk, error)

	// Scroll pages through all points matching the optional filter.
	// An empty cursor starts the scan; the returned cursor resumes it,
	// and an empty returned cursor means the scan is complete.
	// Eventual consistency under concurrent writes is acceptable;
	// already-yielded points are never lost.
	Scroll(ctx context.Context, collection string, filter *domain.Filter, cursor string, limit int) ([]domain.EmbeddingPoint, string, error)

	// ExistingDocIDs scrolls the collection and collects the distinct
	// doc_id payload values, accepting both the canonical top-level
	// field and the legacy nested metadata shape.
	ExistingDocIDs(ctx context.Context, collection string) (map[string]struct{}, error)

	// DeleteBy removes all points whose field exactly matches value.
	DeleteBy(ctx context.Context, collection, field, value string) error

	// UpdateFields patches payload fields on all points whose
	// matchField exactly matches matchValue. Vectors are untouched.
	UpdateFields(ctx context.Context, collection, matchField, matchValue string, fields map[string]string) error

	// Count reports the total number of points in the collection.
	Count(ctx context.Context, collection string) (uint64, error)

	// Ping validates the store is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
