package cli

import (
	"context"

	"github.com/retriva-labs/retriva/internal/core/domain"
	"github.com/retriva-labs/retriva/internal/core/ports/driving"
)

// --- Mock implementations ---

type stubRetriever struct {
	chunks   []domain.ScoredChunk
	err      error
	lastOpts domain.RetrievalOptions
}

func (s *stubRetriever) Retrieve(_ context.Context, question, collection string, opts domain.RetrievalOptions) ([]domain.ScoredChunk, error) {
	s.lastOpts = opts
	return s.chunks, s.err
}

type stubIngestor struct {
	reports []domain.IngestReport
	err     error
	paths   []string
}

func (s *stubIngestor) Ingest(_ context.Context, path, user, collection string) (domain.IngestReport, error) {
	s.paths = append(s.paths, path)
	if len(s.reports) > 0 {
		return s.reports[0], s.err
	}
	return domain.IngestReport{SourcePath: path, Outcome: domain.OutcomeIngested}, s.err
}

func (s *stubIngestor) IngestAll(_ context.Context, paths []string, user, collection string) ([]domain.IngestReport, error) {
	s.paths = append(s.paths, paths...)
	if s.err != nil {
		return nil, s.err
	}
	if s.reports != nil {
		return s.reports, nil
	}
	reports := make([]domain.IngestReport, 0, len(paths))
	for _, p := range paths {
		reports = append(reports, domain.IngestReport{SourcePath: p, Outcome: domain.OutcomeIngested, Chunks: 1})
	}
	return reports, nil
}

type stubDocuments struct {
	deletedDocIDs []string
	deletedPaths  []string
	renames       [][2]string
	stats         driving.CorpusStats
	err           error
}

func (s *stubDocuments) DeleteByDocID(_ context.Context, collection, docID string) error {
	s.deletedDocIDs = append(s.deletedDocIDs, docID)
	return s.err
}

func (s *stubDocuments) DeleteByPath(_ context.Context, collection, path string) error {
	s.deletedPaths = append(s.deletedPaths, path)
	return s.err
}

func (s *stubDocuments) Rename(_ context.Context, collection, oldPath, newPath string) error {
	s.renames = append(s.renames, [2]string{oldPath, newPath})
	return s.err
}

func (s *stubDocuments) Stats(_ context.Context, collection string) (*driving.CorpusStats, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &s.stats, nil
}

// setupTestServices installs stub services and returns a cleanup that
// restores the previous wiring.
func setupTestServices() (retriever *stubRetriever, ingestor *stubIngestor, documents *stubDocuments, cleanup func()) {
	old := services

	retriever = &stubRetriever{}
	ingestor = &stubIngestor{}
	documents = &stubDocuments{}

	services = Services{
		Retriever:  retriever,
		Ingestor:   ingestor,
		Documents:  documents,
		Collection: "test-collection",
		Retrieval:  domain.RetrievalOptions{TopK: domain.DefaultTopK, FilterFallback: true},
	}

	return retriever, ingestor, documents, func() {
		services = old
	}
}
