// Package pdf provides a loader that extracts text from PDF files
// using the pdftotext utility from poppler.
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/retriva-labs/retriva/internal/core/domain"
	"github.com/retriva-labs/retriva/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.Loader = (*Loader)(nil)

// Loader handles PDF documents by shelling out to pdftotext. The
// binary must be on PATH; InstallInstructions describes how to get it.
type Loader struct {
	runner driven.CommandRunner
}

// New creates a new PDF loader using the given command runner.
func New(runner driven.CommandRunner) *Loader {
	return &Loader{runner: runner}
}

// Extensions returns the file extensions this loader handles.
func (l *Loader) Extensions() []string {
	return []string{".pdf"}
}

// Load writes the content to a temporary file and extracts its text
// with pdftotext.
func (l *Loader) Load(ctx context.Context, path string, content []byte) (*driven.LoadResult, error) {
	if l.runner == nil {
		return nil, domain.ErrInvalidInput
	}

	tmp, err := os.CreateTemp("", "retriva-*"+filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("closing temp file: %w", err)
	}

	// "-" sends the extracted text to stdout.
	output, err := l.runner.Run(ctx, "pdftotext", "-enc", "UTF-8", tmp.Name(), "-")
	if err != nil {
		return nil, fmt.Errorf("%w: pdftotext: %v", domain.ErrUnsupportedFormat, err)
	}

	return &driven.LoadResult{Text: strings.TrimSpace(string(output))}, nil
}

// InstallInstructions returns guidance for installing pdftotext.
func InstallInstructions() string {
	return strings.Join([]string{
		"PDF extraction requires pdftotext from poppler:",
		"  macOS:  brew install poppler",
		"  Debian: apt install poppler-utils",
		"  Fedora: dnf install poppler-utils",
	}, "\n")
}
