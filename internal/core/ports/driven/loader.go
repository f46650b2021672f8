package driven

import (
	"context"

	"github.com/retriva-labs/retriva/internal/core/domain"
)

// Loader extracts plain text from one document format.
// Each loader handles specific file extensions (e.g., ".pdf", ".eml").
type Loader interface {
	// Extensions returns the lower-case file extensions this loader
	// handles, including the leading dot.
	Extensions() []string

	// Load extracts text from the raw file content.
	// Returns domain.ErrInvalidInput for content that does not parse
	// as the claimed format.
	Load(ctx context.Context, path string, content []byte) (*LoadResult, error)
}

// LoadResult contains the output of text extraction.
type LoadResult struct {
	// Text is the full extracted text before chunking.
	Text string

	// Email holds email headers for message formats. Nil otherwise.
	Email *domain.EmailMeta
}

// LoaderRegistry selects a loader by file extension.
type LoaderRegistry interface {
	// Load extracts text using the loader registered for the path's
	// extension. Returns domain.ErrUnsupportedFormat when no loader
	// handles the extension.
	Load(ctx context.Context, path string, content []byte) (*LoadResult, error)

	// Supported reports whether any loader handles the path's extension.
	Supported(path string) bool
}

// CommandRunner executes an external command and returns its stdout.
// Used by loaders that shell out (PDF text extraction via pdftotext).
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
