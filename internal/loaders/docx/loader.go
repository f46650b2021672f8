// Package docx provides a loader that extracts text from Word documents.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"strings"

	"github.com/retriva-labs/retriva/internal/core/domain"
	"github.com/retriva-labs/retriva/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.Loader = (*Loader)(nil)

// Loader handles DOCX documents by reading word/document.xml from the
// OOXML container. Styling, tables and embedded objects are ignored;
// only paragraph text survives.
type Loader struct{}

// New creates a new DOCX loader.
func New() *Loader {
	return &Loader{}
}

// Extensions returns the file extensions this loader handles.
func (l *Loader) Extensions() []string {
	return []string{".docx"}
}

// documentXML mirrors the subset of the WordprocessingML schema we
// need: paragraphs containing runs containing text elements.
type documentXML struct {
	Body struct {
		Paragraphs []struct {
			Runs []struct {
				Text []string `xml:"t"`
			} `xml:"r"`
		} `xml:"p"`
	} `xml:"body"`
}

// Load extracts paragraph text from the document.
func (l *Loader) Load(_ context.Context, _ string, content []byte) (*driven.LoadResult, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	var data []byte
	for _, f := range reader.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, openErr := f.Open()
		if openErr != nil {
			return nil, domain.ErrInvalidInput
		}
		data, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		break
	}
	if data == nil {
		return nil, domain.ErrInvalidInput
	}

	var doc documentXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, domain.ErrInvalidInput
	}

	var b strings.Builder
	for _, para := range doc.Body.Paragraphs {
		var line strings.Builder
		for _, run := range para.Runs {
			for _, text := range run.Text {
				line.WriteString(text)
			}
		}
		if trimmed := strings.TrimSpace(line.String()); trimmed != "" {
			b.WriteString(trimmed)
			b.WriteString("\n")
		}
	}

	return &driven.LoadResult{Text: strings.TrimSpace(b.String())}, nil
}
