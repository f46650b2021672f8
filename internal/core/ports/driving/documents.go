package driving

import "context"

// DocumentManager exposes corpus maintenance operations over the
// vector store.
type DocumentManager interface {
	// DeleteByDocID removes all points of one document.
	DeleteByDocID(ctx context.Context, collection, docID string) error

	// DeleteByPath removes all points stored under a source path.
	DeleteByPath(ctx context.Context, collection, path string) error

	// Rename patches the source path on all points of a moved
	// document. Vectors and identity are untouched.
	Rename(ctx context.Context, collection, oldPath, newPath string) error

	// Stats reports corpus size.
	Stats(ctx context.Context, collection string) (*CorpusStats, error)
}

// CorpusStats summarises a collection.
type CorpusStats struct {
	// Points is the total number of stored embedding points.
	Points uint64

	// Documents is the number of distinct doc_ids.
	Documents int
}
