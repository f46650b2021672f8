// Package plaintext provides a loader for plain text documents.
package plaintext

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/retriva-labs/retriva/internal/core/domain"
	"github.com/retriva-labs/retriva/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.Loader = (*Loader)(nil)

// Loader handles plain text documents.
type Loader struct{}

// New creates a new plain text loader.
func New() *Loader {
	return &Loader{}
}

// Extensions returns the file extensions this loader handles.
func (l *Loader) Extensions() []string {
	return []string{".txt", ".text", ".log"}
}

// Load returns the file content as text.
func (l *Loader) Load(_ context.Context, _ string, content []byte) (*driven.LoadResult, error) {
	if !utf8.Valid(content) {
		return nil, domain.ErrInvalidInput
	}
	return &driven.LoadResult{Text: strings.TrimSpace(string(content))}, nil
}
