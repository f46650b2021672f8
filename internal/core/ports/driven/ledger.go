package driven

import (
	"context"
	"time"

	"github.com/retriva-labs/retriva/internal/core/domain"
)

// IngestLedger persists per-document ingestion outcomes so a scheduled
// pass can retry failures. Backed by SQLite.
type IngestLedger interface {
	// Record stores or updates the outcome for a document.
	// Failed outcomes increment the attempt counter.
	Record(ctx context.Context, report domain.IngestReport) error

	// Pending returns source paths whose last outcome was a failure,
	// oldest attempt first.
	Pending(ctx context.Context) ([]string, error)

	// Get retrieves the ledger entry for a source path.
	// Returns domain.ErrNotFound when the path was never recorded.
	Get(ctx context.Context, sourcePath string) (*LedgerEntry, error)

	// Close releases resources.
	Close() error
}

// LedgerEntry is the persisted state of one document's ingestion.
type LedgerEntry struct {
	// SourcePath is the document location.
	SourcePath string

	// DocID is the last computed identity. May be empty.
	DocID string

	// Outcome is the last recorded outcome.
	Outcome domain.IngestOutcome

	// Error is the last failure message, empty on success.
	Error string

	// Attempts counts failed ingestion attempts since the last success.
	Attempts int

	// UpdatedAt is when the entry was last written.
	UpdatedAt time.Time
}
