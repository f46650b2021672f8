package services

import (
	"context"
	"sync"

	"github.com/retriva-labs/retriva/internal/core/domain"
	"github.com/retriva-labs/retriva/internal/core/ports/driven"
)

// --- Mock implementations ---

// searchCall records one Search invocation.
type searchCall struct {
	vector []float32
	limit  int
	filter *domain.Filter
}

// mockVectorStore implements driven.VectorStore for testing.
// Filtered searches return filteredHits, unfiltered ones return hits.
type mockVectorStore struct {
	mu sync.Mutex

	hits         []domain.ScoredChunk
	filteredHits []domain.ScoredChunk
	searchErr    error

	existing    map[string]struct{}
	existingErr error

	upserted   [][]domain.EmbeddingPoint
	upsertErr  error
	ensured    []string
	ensureErr  error
	count      uint64
	deleted    [][2]string // field, value
	patched    []map[string]string
	searches   []searchCall
}

func (m *mockVectorStore) EnsureCollection(_ context.Context, collection string, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensured = append(m.ensured, collection)
	return m.ensureErr
}

func (m *mockVectorStore) Upsert(_ context.Context, _ string, points []domain.EmbeddingPoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, points)
	return nil
}

func (m *mockVectorStore) Search(
	_ context.Context, _ string, vector []float32, limit int, filter *domain.Filter,
) ([]domain.ScoredChunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches = append(m.searches, searchCall{vector: vector, limit: limit, filter: filter})
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	hits := m.hits
	if !filter.IsEmpty() {
		hits = m.filteredHits
	}
	if limit < len(hits) {
		hits = hits[:limit]
	}
	return hits, nil
}

func (m *mockVectorStore) Scroll(
	_ context.Context, _ string, _ *domain.Filter, _ string, _ int,
) ([]domain.EmbeddingPoint, string, error) {
	return nil, "", nil
}

func (m *mockVectorStore) ExistingDocIDs(_ context.Context, _ string) (map[string]struct{}, error) {
	if m.existingErr != nil {
		return nil, m.existingErr
	}
	if m.existing == nil {
		return map[string]struct{}{}, nil
	}
	return m.existing, nil
}

func (m *mockVectorStore) DeleteBy(_ context.Context, _, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, [2]string{field, value})
	return nil
}

func (m *mockVectorStore) UpdateFields(_ context.Context, _, _, _ string, fields map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patched = append(m.patched, fields)
	return nil
}

func (m *mockVectorStore) Count(_ context.Context, _ string) (uint64, error) {
	return m.count, nil
}

func (m *mockVectorStore) Ping(_ context.Context) error { return nil }

func (m *mockVectorStore) Close() error { return nil }

// mockEmbedder implements driven.Embedder for testing.
type mockEmbedder struct {
	embedding []float32
	embedErr  error
	dims      int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.embedding, nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = m.embedding
	}
	return result, nil
}

func (m *mockEmbedder) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 4
}

func (m *mockEmbedder) ModelName() string { return "mock-embedder" }

func (m *mockEmbedder) Ping(_ context.Context) error { return nil }

func (m *mockEmbedder) Close() error { return nil }

// mockCompleter implements driven.ChatCompleter for testing.
// Replies are consumed in order; the last one repeats.
type mockCompleter struct {
	mu      sync.Mutex
	replies []string
	err     error
	prompts []string
}

func (m *mockCompleter) Complete(_ context.Context, prompt string, _ driven.CompleteOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	if len(m.replies) == 0 {
		return "", nil
	}
	reply := m.replies[0]
	if len(m.replies) > 1 {
		m.replies = m.replies[1:]
	}
	return reply, nil
}

func (m *mockCompleter) ModelName() string { return "mock-llm" }

func (m *mockCompleter) Ping(_ context.Context) error { return nil }

func (m *mockCompleter) Close() error { return nil }

// mockReranker implements driven.Reranker for testing.
type mockReranker struct {
	result []domain.ScoredChunk
	err    error
}

func (m *mockReranker) Rerank(_ context.Context, _ string, candidates []domain.ScoredChunk) ([]domain.ScoredChunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return candidates, nil
}

// mockLedger implements driven.IngestLedger for testing.
type mockLedger struct {
	mu      sync.Mutex
	records []domain.IngestReport
}

func (m *mockLedger) Record(_ context.Context, report domain.IngestReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, report)
	return nil
}

func (m *mockLedger) Pending(_ context.Context) ([]string, error) { return nil, nil }

func (m *mockLedger) Get(_ context.Context, _ string) (*driven.LedgerEntry, error) {
	return nil, domain.ErrNotFound
}

func (m *mockLedger) Close() error { return nil }

// staticFilter implements FilterExtractor with a fixed result.
type staticFilter struct {
	filter *domain.Filter
}

func (s *staticFilter) Extract(_ context.Context, _ string) *domain.Filter {
	return s.filter
}
