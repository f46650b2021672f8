package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retriva-labs/retriva/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		c, err := New(500, 100)
		require.NoError(t, err)
		assert.Equal(t, 500, c.Size())
		assert.Equal(t, 100, c.Overlap())
	})

	t.Run("overlap equal to size fails fast", func(t *testing.T) {
		_, err := New(100, 100)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("overlap larger than size fails fast", func(t *testing.T) {
		_, err := New(100, 150)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("zero size fails fast", func(t *testing.T) {
		_, err := New(0, 0)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("negative overlap fails fast", func(t *testing.T) {
		_, err := New(100, -1)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestSplit_Empty(t *testing.T) {
	c, err := New(500, 100)
	require.NoError(t, err)

	assert.Empty(t, c.Split(""))
}

func TestSplit_SmallText(t *testing.T) {
	c, err := New(100, 20)
	require.NoError(t, err)

	chunks := c.Split("a short document")
	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, 0, chunks[0].StartOffset)
	assert.Equal(t, "a short document", chunks[0].Text)
}

func TestSplit_Offsets(t *testing.T) {
	// 1200 runes, size 500, overlap 100: expect 3 chunks at 0, 400, 800.
	c, err := New(500, 100)
	require.NoError(t, err)

	chunks := c.Split(strings.Repeat("x", 1200))
	require.Len(t, chunks, 3)

	assert.Equal(t, []int{0, 400, 800}, []int{
		chunks[0].StartOffset, chunks[1].StartOffset, chunks[2].StartOffset,
	})
	assert.Len(t, chunks[0].Text, 500)
	assert.Len(t, chunks[1].Text, 500)
	assert.Len(t, chunks[2].Text, 400)
}

func TestSplit_DenseIndexes(t *testing.T) {
	c, err := New(50, 10)
	require.NoError(t, err)

	chunks := c.Split(strings.Repeat("y", 300))
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Index)
	}
}

func TestSplit_ExactFit(t *testing.T) {
	// Text exactly one window long must produce one chunk, not a
	// trailing overlap-only chunk.
	c, err := New(100, 20)
	require.NoError(t, err)

	chunks := c.Split(strings.Repeat("z", 100))
	require.Len(t, chunks, 1)
}

func TestSplit_FullCoverage(t *testing.T) {
	// Concatenating each chunk's covered range must span the whole
	// text with no gaps.
	c, err := New(128, 32)
	require.NoError(t, err)

	text := strings.Repeat("abcdefghij", 100) // 1000 runes
	chunks := c.Split(text)
	require.NotEmpty(t, chunks)

	covered := 0 // highest rune offset covered so far
	for _, chunk := range chunks {
		require.LessOrEqual(t, chunk.StartOffset, covered, "gap before chunk %d", chunk.Index)
		end := chunk.StartOffset + len([]rune(chunk.Text))
		if end > covered {
			covered = end
		}
	}
	assert.Equal(t, len([]rune(text)), covered)
}

func TestSplit_RuneOffsets(t *testing.T) {
	// Multi-byte runes: offsets count runes, not bytes.
	c, err := New(4, 1)
	require.NoError(t, err)

	chunks := c.Split("日本語のテキスト") // 8 runes
	require.Len(t, chunks, 3)
	assert.Equal(t, 0, chunks[0].StartOffset)
	assert.Equal(t, 3, chunks[1].StartOffset)
	assert.Equal(t, 6, chunks[2].StartOffset)
	assert.Equal(t, "日本語の", chunks[0].Text)
}
