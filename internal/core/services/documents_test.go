package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retriva-labs/retriva/internal/core/domain"
)

func TestDocumentService_DeleteByDocID(t *testing.T) {
	store := &mockVectorStore{}
	svc := NewDocumentService(store)

	require.NoError(t, svc.DeleteByDocID(context.Background(), "docs", "abc123"))
	require.Len(t, store.deleted, 1)
	assert.Equal(t, [2]string{domain.FieldDocID, "abc123"}, store.deleted[0])

	assert.ErrorIs(t, svc.DeleteByDocID(context.Background(), "docs", ""), domain.ErrInvalidInput)
}

func TestDocumentService_DeleteByPath(t *testing.T) {
	store := &mockVectorStore{}
	svc := NewDocumentService(store)

	require.NoError(t, svc.DeleteByPath(context.Background(), "docs", "/a/b.txt"))
	require.Len(t, store.deleted, 1)
	assert.Equal(t, [2]string{domain.FieldSourcePath, "/a/b.txt"}, store.deleted[0])
}

func TestDocumentService_Rename(t *testing.T) {
	store := &mockVectorStore{}
	svc := NewDocumentService(store)

	require.NoError(t, svc.Rename(context.Background(), "docs", "/old.txt", "/new.txt"))
	require.Len(t, store.patched, 1)
	assert.Equal(t, map[string]string{domain.FieldSourcePath: "/new.txt"}, store.patched[0])

	assert.ErrorIs(t, svc.Rename(context.Background(), "docs", "", "/new.txt"), domain.ErrInvalidInput)
}

func TestDocumentService_Stats(t *testing.T) {
	store := &mockVectorStore{
		count:    42,
		existing: map[string]struct{}{"d1": {}, "d2": {}},
	}
	svc := NewDocumentService(store)

	stats, err := svc.Stats(context.Background(), "docs")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), stats.Points)
	assert.Equal(t, 2, stats.Documents)
}
