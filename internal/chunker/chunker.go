// Package chunker splits extracted document text into overlapping
// fixed-size windows for embedding.
package chunker

import (
	"fmt"

	"github.com/retriva-labs/retriva/internal/core/domain"
)

// DefaultChunkSize is the default window size in runes.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default overlap between consecutive
// windows in runes.
const DefaultChunkOverlap = 200

// Chunker produces overlapping windows over document text.
// Offsets are rune offsets into the source text so later highlighting
// survives multi-byte content.
type Chunker struct {
	size    int
	overlap int
}

// New creates a chunker. overlap must be smaller than size; violating
// that is a configuration error, not something to silently repair.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidInput, size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: chunk overlap must not be negative, got %d", domain.ErrInvalidInput, overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d", domain.ErrInvalidInput, overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Size returns the configured window size.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the configured window overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// Split cuts text into windows of the configured size, stepping by
// size-overlap. The final chunk may be shorter. Each chunk records its
// dense zero-based index and starting rune offset. Empty text yields
// no chunks and no error.
//
// Only Index, Text and StartOffset are populated; the ingestion
// pipeline assigns identity and denormalised metadata.
func (c *Chunker) Split(text string) []domain.Chunk {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	step := c.size - c.overlap

	chunks := make([]domain.Chunk, 0, len(runes)/step+1)
	for start := 0; start < len(runes); start += step {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}

		chunks = append(chunks, domain.Chunk{
			Index:       len(chunks),
			Text:        string(runes[start:end]),
			StartOffset: start,
		})

		// The window reached the end of the text; a further step would
		// only re-emit already covered runes.
		if end == len(runes) {
			break
		}
	}

	return chunks
}
