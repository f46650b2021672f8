// Package csvfile provides a loader that flattens CSV tables to text.
package csvfile

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/retriva-labs/retriva/internal/core/domain"
	"github.com/retriva-labs/retriva/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.Loader = (*Loader)(nil)

// Loader handles CSV documents. Each data row is flattened into a
// "header: value" line so row contents stay near their column names
// when the text is chunked.
type Loader struct{}

// New creates a new CSV loader.
func New() *Loader {
	return &Loader{}
}

// Extensions returns the file extensions this loader handles.
func (l *Loader) Extensions() []string {
	return []string{".csv"}
}

// Load flattens the table to text.
func (l *Loader) Load(_ context.Context, _ string, content []byte) (*driven.LoadResult, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1 // ragged rows are common in the wild

	var header []string
	var b strings.Builder

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domain.ErrInvalidInput
		}

		if header == nil {
			header = record
			b.WriteString(strings.Join(record, ", "))
			b.WriteString("\n")
			continue
		}

		pairs := make([]string, 0, len(record))
		for i, field := range record {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			if i < len(header) && strings.TrimSpace(header[i]) != "" {
				pairs = append(pairs, strings.TrimSpace(header[i])+": "+field)
			} else {
				pairs = append(pairs, field)
			}
		}
		if len(pairs) > 0 {
			b.WriteString(strings.Join(pairs, "; "))
			b.WriteString("\n")
		}
	}

	return &driven.LoadResult{Text: strings.TrimSpace(b.String())}, nil
}
