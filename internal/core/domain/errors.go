package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates a file type no loader handles.
	// Batch ingestion skips the document and continues.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrStoreUnavailable indicates a transport or auth failure
	// talking to the vector store. Surfaced to the caller; the
	// adapter performs no retries of its own.
	ErrStoreUnavailable = errors.New("vector store unavailable")

	// ErrEmbeddingFailure indicates an embedding call failed.
	// Scoped to a single document or chunk; sibling documents in a
	// batch are not aborted.
	ErrEmbeddingFailure = errors.New("embedding failed")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Nothing can be ingested or retrieved without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the chat completion service is not
	// configured. Features requiring it (delegated filter extraction,
	// query splitting, HyDE, reranking) are disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)
