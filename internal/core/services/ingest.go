package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/retriva-labs/retriva/internal/chunker"
	"github.com/retriva-labs/retriva/internal/core/domain"
	"github.com/retriva-labs/retriva/internal/core/ports/driven"
	"github.com/retriva-labs/retriva/internal/core/ports/driving"
	"github.com/retriva-labs/retriva/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// maxConcurrentIngests bounds how many documents are processed at
// once during a batch run.
const maxConcurrentIngests = 4

// IngestService loads documents into the vector store. Identity is
// content-derived, so re-ingesting unchanged documents is a no-op and
// replaying a failed batch converges on the same stored state.
type IngestService struct {
	loaders  driven.LoaderRegistry
	chunker  *chunker.Chunker
	embedder driven.Embedder
	store    driven.VectorStore
	ledger   driven.IngestLedger
}

// NewIngestService creates an ingest service.
// The ledger parameter is optional (can be nil).
func NewIngestService(
	loaders driven.LoaderRegistry,
	chunks *chunker.Chunker,
	embedder driven.Embedder,
	store driven.VectorStore,
	ledger driven.IngestLedger,
) *IngestService {
	return &IngestService{
		loaders:  loaders,
		chunker:  chunks,
		embedder: embedder,
		store:    store,
		ledger:   ledger,
	}
}

// Ingest processes a single document for the given user.
func (s *IngestService) Ingest(ctx context.Context, path, user, collection string) (domain.IngestReport, error) {
	existing, err := s.store.ExistingDocIDs(ctx, collection)
	if err != nil {
		return domain.IngestReport{}, fmt.Errorf("listing existing documents: %w", err)
	}

	report := s.ingestOne(ctx, path, user, collection, existing)
	s.record(ctx, report)
	return report, nil
}

// IngestAll processes many documents, isolating per-document failures.
func (s *IngestService) IngestAll(ctx context.Context, paths []string, user, collection string) ([]domain.IngestReport, error) {
	logger.Section("Ingestion")
	logger.Info("Ingesting %d documents into %q", len(paths), collection)

	existing, err := s.store.ExistingDocIDs(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("listing existing documents: %w", err)
	}
	logger.Debug("Collection holds %d documents", len(existing))

	reports := make([]domain.IngestReport, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentIngests)
	for i, path := range paths {
		g.Go(func() error {
			reports[i] = s.ingestOne(gctx, path, user, collection, existing)
			s.record(gctx, reports[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var ingested, skipped, failed int
	for _, r := range reports {
		switch r.Outcome {
		case domain.OutcomeIngested:
			ingested++
		case domain.OutcomeSkipped, domain.OutcomeAlreadyIngested:
			skipped++
		case domain.OutcomeFailed:
			failed++
		}
	}
	logger.Info("Ingestion done: %d ingested, %d skipped, %d failed", ingested, skipped, failed)

	return reports, nil
}

// ingestOne runs the pipeline for a single document. All failures are
// folded into the report; nothing panics a batch.
func (s *IngestService) ingestOne(
	ctx context.Context, path, user, collection string, existing map[string]struct{},
) domain.IngestReport {
	report := domain.IngestReport{SourcePath: path}

	if !s.loaders.Supported(path) {
		report.Outcome = domain.OutcomeSkipped
		report.Err = fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, path)
		logger.Debug("Skipping unsupported file %s", path)
		return report
	}

	content, err := os.ReadFile(path)
	if err != nil {
		report.Outcome = domain.OutcomeFailed
		report.Err = fmt.Errorf("reading %s: %w", path, err)
		return report
	}

	report.DocID = domain.ContentID(content)
	if _, done := existing[report.DocID]; done {
		report.Outcome = domain.OutcomeAlreadyIngested
		logger.Debug("Already ingested: %s", path)
		return report
	}

	doc, err := s.buildDocument(ctx, path, user, report.DocID, content)
	if err != nil {
		report.Outcome = domain.OutcomeFailed
		report.Err = err
		return report
	}

	points, err := s.embedChunks(ctx, doc)
	if err != nil {
		report.Outcome = domain.OutcomeFailed
		report.Err = err
		return report
	}
	if len(points) == 0 {
		report.Outcome = domain.OutcomeSkipped
		report.Err = fmt.Errorf("%w: no text extracted from %s", domain.ErrInvalidInput, path)
		return report
	}

	if err := s.store.EnsureCollection(ctx, collection, s.embedder.Dimensions()); err != nil {
		report.Outcome = domain.OutcomeFailed
		report.Err = err
		return report
	}
	if err := s.store.Upsert(ctx, collection, points); err != nil {
		report.Outcome = domain.OutcomeFailed
		report.Err = err
		return report
	}

	report.Outcome = domain.OutcomeIngested
	report.Chunks = len(points)
	logger.Debug("Ingested %s: %d chunks", path, len(points))
	return report
}

// buildDocument extracts text and assembles document metadata.
func (s *IngestService) buildDocument(
	ctx context.Context, path, user, docID string, content []byte,
) (*domain.Document, error) {
	result, err := s.loaders.Load(ctx, path, content)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", path, err)
	}

	doc := &domain.Document{
		DocID:      docID,
		SourcePath: path,
		Type:       domain.DocumentTypeForPath(path),
		User:       user,
		Text:       result.Text,
		Email:      result.Email,
	}

	// Year comes from the email Date header when there is one,
	// otherwise from the file modification time.
	if result.Email != nil && !result.Email.Date.IsZero() {
		doc.Year = result.Email.Date.Year()
	} else if info, statErr := os.Stat(path); statErr == nil {
		doc.Year = info.ModTime().Year()
	}

	return doc, nil
}

// embedChunks splits the document and embeds every chunk in one batch.
func (s *IngestService) embedChunks(ctx context.Context, doc *domain.Document) ([]domain.EmbeddingPoint, error) {
	chunks := s.chunker.Split(doc.Text)
	if len(chunks) == 0 {
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding %s: %w", doc.SourcePath, err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d vectors for %d chunks", domain.ErrEmbeddingFailure, len(vectors), len(chunks))
	}

	points := make([]domain.EmbeddingPoint, len(chunks))
	for i, c := range chunks {
		c.UniqueID = uuid.New().String()
		c.DocID = doc.DocID
		c.SourcePath = doc.SourcePath
		c.Type = doc.Type
		c.User = doc.User
		c.Year = doc.Year
		c.Email = doc.Email
		points[i] = domain.EmbeddingPoint{Vector: vectors[i], Payload: c}
	}
	return points, nil
}

// record persists the outcome when a ledger is configured. Ledger
// failures are logged, never fatal.
func (s *IngestService) record(ctx context.Context, report domain.IngestReport) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.Record(ctx, report); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("Recording ingest outcome for %s failed: %v", report.SourcePath, err)
	}
}
