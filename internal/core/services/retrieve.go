package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/retriva-labs/retriva/internal/core/domain"
	"github.com/retriva-labs/retriva/internal/core/ports/driven"
	"github.com/retriva-labs/retriva/internal/core/ports/driving"
	"github.com/retriva-labs/retriva/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.Retriever = (*RetrievalService)(nil)

// maxConcurrentSearches bounds the fan-out of one retrieval call.
const maxConcurrentSearches = 4

// RetrievalService answers questions by filtered vector search over
// the corpus, with optional question decomposition, HyDE and
// reranking layered on top.
type RetrievalService struct {
	store    driven.VectorStore
	embedder driven.Embedder
	planner  *Planner
	filters  FilterExtractor
	reranker driven.Reranker
}

// NewRetrievalService creates a retrieval service.
// The filters and reranker parameters are optional (can be nil).
func NewRetrievalService(
	store driven.VectorStore,
	embedder driven.Embedder,
	planner *Planner,
	filters FilterExtractor,
	reranker driven.Reranker,
) *RetrievalService {
	return &RetrievalService{
		store:    store,
		embedder: embedder,
		planner:  planner,
		filters:  filters,
		reranker: reranker,
	}
}

// Retrieve returns up to opts.TopK chunks relevant to the question.
func (s *RetrievalService) Retrieve(
	ctx context.Context, question, collection string, opts domain.RetrievalOptions,
) ([]domain.ScoredChunk, error) {
	logger.Section("Retrieval")
	logger.Debug("Question: %q", question)

	question = strings.TrimSpace(question)
	if question == "" {
		logger.Debug("Empty question, returning no results")
		return []domain.ScoredChunk{}, nil
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	logger.Debug("TopK: %d, split=%t, hyde=%t, rerank=%t, fallback=%t",
		topK, opts.Split, opts.UseHyde, opts.Rerank, opts.FilterFallback)

	var filter *domain.Filter
	if s.filters != nil {
		filter = s.filters.Extract(ctx, question)
	}
	if filter.IsEmpty() {
		logger.Debug("No metadata filter extracted")
	} else {
		logger.Debug("Metadata filter: %d predicates", len(filter.Must))
	}

	plan := s.planner.Plan(ctx, question, opts)

	vectors, err := s.queryVectors(ctx, plan)
	if err != nil {
		return nil, err
	}

	// Each query searches more than topK candidates so the merged
	// pool survives deduplication.
	perQueryLimit := topK * 2

	results := make([][]domain.ScoredChunk, len(vectors))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSearches)
	for i, vector := range vectors {
		g.Go(func() error {
			chunks, searchErr := s.searchWithFallback(gctx, collection, vector, perQueryLimit, filter, opts.FilterFallback)
			if searchErr != nil {
				return searchErr
			}
			mu.Lock()
			results[i] = chunks
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	merged := mergeResults(results)
	logger.Debug("Merged pool: %d distinct chunks", len(merged))

	if opts.Rerank && s.reranker != nil && len(merged) > 0 {
		reranked, rerankErr := s.reranker.Rerank(ctx, question, merged)
		if rerankErr != nil {
			logger.Warn("Rerank failed, keeping similarity order: %v", rerankErr)
		} else {
			merged = reranked
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	if len(merged) > topK {
		merged = merged[:topK]
	}

	logger.Info("Retrieved %d chunks", len(merged))
	return merged, nil
}

// queryVectors embeds every planned sub-question and appends the HyDE
// vector when present.
func (s *RetrievalService) queryVectors(ctx context.Context, plan domain.PlannedQuery) ([][]float32, error) {
	embedded, err := s.embedder.EmbedBatch(ctx, plan.SubQuestions)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	vectors := embedded
	if plan.HydeVector != nil {
		vectors = append(vectors, plan.HydeVector)
	}
	return vectors, nil
}

// searchWithFallback runs one filtered search, re-running it without
// the filter when it comes back empty and fallback is enabled.
func (s *RetrievalService) searchWithFallback(
	ctx context.Context, collection string, vector []float32, limit int,
	filter *domain.Filter, fallback bool,
) ([]domain.ScoredChunk, error) {
	chunks, err := s.store.Search(ctx, collection, vector, limit, filter)
	if err != nil {
		return nil, err
	}
	if len(chunks) > 0 || filter.IsEmpty() || !fallback {
		return chunks, nil
	}

	logger.Debug("Filtered search empty, retrying unfiltered")
	return s.store.Search(ctx, collection, vector, limit, nil)
}

// mergeResults flattens per-query results into one pool, keeping the
// first occurrence of each UniqueID. Query order is deterministic, so
// replaying the same call merges identically.
func mergeResults(results [][]domain.ScoredChunk) []domain.ScoredChunk {
	seen := make(map[string]struct{})
	var merged []domain.ScoredChunk
	for _, chunks := range results {
		for _, chunk := range chunks {
			if _, dup := seen[chunk.Chunk.UniqueID]; dup {
				continue
			}
			seen[chunk.Chunk.UniqueID] = struct{}{}
			merged = append(merged, chunk)
		}
	}
	return merged
}
