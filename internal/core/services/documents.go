package services

import (
	"context"
	"fmt"

	"github.com/retriva-labs/retriva/internal/core/domain"
	"github.com/retriva-labs/retriva/internal/core/ports/driven"
	"github.com/retriva-labs/retriva/internal/core/ports/driving"
	"github.com/retriva-labs/retriva/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentManager = (*DocumentService)(nil)

// DocumentService provides corpus maintenance over the vector store.
type DocumentService struct {
	store driven.VectorStore
}

// NewDocumentService creates a document service.
func NewDocumentService(store driven.VectorStore) *DocumentService {
	return &DocumentService{store: store}
}

// DeleteByDocID removes all points of one document.
func (s *DocumentService) DeleteByDocID(ctx context.Context, collection, docID string) error {
	if docID == "" {
		return fmt.Errorf("%w: empty doc id", domain.ErrInvalidInput)
	}
	logger.Debug("Deleting document %s from %q", docID, collection)
	return s.store.DeleteBy(ctx, collection, domain.FieldDocID, docID)
}

// DeleteByPath removes all points stored under a source path.
func (s *DocumentService) DeleteByPath(ctx context.Context, collection, path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", domain.ErrInvalidInput)
	}
	logger.Debug("Deleting path %s from %q", path, collection)
	return s.store.DeleteBy(ctx, collection, domain.FieldSourcePath, path)
}

// Rename patches the source path on all points of a moved document.
func (s *DocumentService) Rename(ctx context.Context, collection, oldPath, newPath string) error {
	if oldPath == "" || newPath == "" {
		return fmt.Errorf("%w: empty path", domain.ErrInvalidInput)
	}
	logger.Debug("Renaming %s to %s in %q", oldPath, newPath, collection)
	return s.store.UpdateFields(ctx, collection, domain.FieldSourcePath, oldPath,
		map[string]string{domain.FieldSourcePath: newPath})
}

// Stats reports corpus size.
func (s *DocumentService) Stats(ctx context.Context, collection string) (*driving.CorpusStats, error) {
	points, err := s.store.Count(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("counting points: %w", err)
	}

	docs, err := s.store.ExistingDocIDs(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	return &driving.CorpusStats{
		Points:    points,
		Documents: len(docs),
	}, nil
}
