package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retriva-labs/retriva/internal/core/domain"
)

func point(id, docID string, vector []float32, user string) domain.EmbeddingPoint {
	return domain.EmbeddingPoint{
		Vector: vector,
		Payload: domain.Chunk{
			UniqueID:   id,
			DocID:      docID,
			Text:       "text " + id,
			SourcePath: "/" + docID + ".txt",
			User:       user,
		},
	}
}

func TestUpsertAndSearch(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "docs", []domain.EmbeddingPoint{
		point("p1", "d1", []float32{1, 0}, "alice"),
		point("p2", "d2", []float32{0, 1}, "bob"),
	}))

	results, err := store.Search(ctx, "docs", []float32{1, 0}, 10, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "p1", results[0].Chunk.UniqueID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestUpsert_Idempotent(t *testing.T) {
	store := New()
	ctx := context.Background()

	batch := []domain.EmbeddingPoint{point("p1", "d1", []float32{1, 0}, "alice")}
	require.NoError(t, store.Upsert(ctx, "docs", batch))
	require.NoError(t, store.Upsert(ctx, "docs", batch))

	count, err := store.Count(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestSearch_Filtered(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "docs", []domain.EmbeddingPoint{
		point("p1", "d1", []float32{1, 0}, "alice"),
		point("p2", "d2", []float32{1, 0}, "bob"),
	}))

	results, err := store.Search(ctx, "docs", []float32{1, 0}, 10,
		domain.MatchEq(domain.FieldUser, "alice"))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "p1", results[0].Chunk.UniqueID)

	// No match means empty slice, not an error.
	results, err = store.Search(ctx, "docs", []float32{1, 0}, 10,
		domain.MatchEq(domain.FieldUser, "carol"))
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_YearFilter(t *testing.T) {
	store := New()
	ctx := context.Background()

	p := point("p1", "d1", []float32{1, 0}, "alice")
	p.Payload.Year = 2023
	require.NoError(t, store.Upsert(ctx, "docs", []domain.EmbeddingPoint{p}))

	results, err := store.Search(ctx, "docs", []float32{1, 0}, 10,
		domain.MatchEq(domain.FieldYear, "2023"))
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, err = store.Search(ctx, "docs", []float32{1, 0}, 10,
		domain.MatchEq(domain.FieldYear, "2024"))
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestScroll_Pagination(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "docs", []domain.EmbeddingPoint{
		point("a", "d1", []float32{1}, ""),
		point("b", "d2", []float32{1}, ""),
		point("c", "d3", []float32{1}, ""),
	}))

	first, cursor, err := store.Scroll(ctx, "docs", nil, "", 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.NotEmpty(t, cursor)

	second, cursor, err := store.Scroll(ctx, "docs", nil, cursor, 2)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Empty(t, cursor)

	seen := map[string]struct{}{}
	for _, p := range append(first, second...) {
		seen[p.Payload.UniqueID] = struct{}{}
	}
	assert.Len(t, seen, 3)
}

func TestExistingDocIDs(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "docs", []domain.EmbeddingPoint{
		point("p1", "d1", []float32{1}, ""),
		point("p2", "d1", []float32{1}, ""),
		point("p3", "d2", []float32{1}, ""),
	}))

	ids, err := store.ExistingDocIDs(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"d1": {}, "d2": {}}, ids)
}

func TestDeleteBy(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "docs", []domain.EmbeddingPoint{
		point("p1", "d1", []float32{1}, ""),
		point("p2", "d1", []float32{1}, ""),
		point("p3", "d2", []float32{1}, ""),
	}))

	require.NoError(t, store.DeleteBy(ctx, "docs", domain.FieldDocID, "d1"))

	count, err := store.Count(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestUpdateFields(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "docs", []domain.EmbeddingPoint{
		point("p1", "d1", []float32{1}, "alice"),
	}))

	require.NoError(t, store.UpdateFields(ctx, "docs",
		domain.FieldSourcePath, "/d1.txt",
		map[string]string{domain.FieldSourcePath: "/moved.txt"}))

	results, err := store.Search(ctx, "docs", []float32{1}, 10, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "/moved.txt", results[0].Chunk.SourcePath)
}

func TestEnsureCollection(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.EnsureCollection(ctx, "docs", 4))
	require.NoError(t, store.EnsureCollection(ctx, "docs", 4))

	count, err := store.Count(ctx, "docs")
	require.NoError(t, err)
	assert.Zero(t, count)
}
