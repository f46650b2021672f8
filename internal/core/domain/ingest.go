package domain

// IngestOutcome classifies the result of ingesting one document.
type IngestOutcome string

// Ingestion outcomes.
const (
	// OutcomeIngested means the document was chunked, embedded and
	// upserted into the vector store.
	OutcomeIngested IngestOutcome = "ingested"

	// OutcomeAlreadyIngested means the document's DocID was already
	// present in the collection; nothing was embedded.
	OutcomeAlreadyIngested IngestOutcome = "already_ingested"

	// OutcomeSkipped means the document format is unsupported.
	OutcomeSkipped IngestOutcome = "skipped"

	// OutcomeFailed means extraction, embedding or upsert failed.
	// The document is retried on the next scheduled pass.
	OutcomeFailed IngestOutcome = "failed"
)

// IngestReport records what happened to one document during ingestion.
type IngestReport struct {
	// SourcePath is the ingested document's location.
	SourcePath string

	// DocID is the computed document identity. Empty when identity
	// computation itself failed.
	DocID string

	// Outcome classifies the result.
	Outcome IngestOutcome

	// Chunks is the number of points upserted. Zero unless
	// Outcome is OutcomeIngested.
	Chunks int

	// Err is the per-document failure. Nil unless Outcome is
	// OutcomeFailed or OutcomeSkipped.
	Err error
}
