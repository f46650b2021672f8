// Package memory implements the VectorStore port in process memory.
// Used in tests and for small local corpora; nothing persists.
package memory

import (
	"context"
	"math"
	"sort"
	"strconv"
	"sync"

	"github.com/retriva-labs/retriva/internal/core/domain"
	"github.com/retriva-labs/retriva/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store keeps embedding points in maps guarded by a RWMutex.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]domain.EmbeddingPoint
}

// New creates an empty in-memory vector store.
func New() *Store {
	return &Store{
		collections: make(map[string]map[string]domain.EmbeddingPoint),
	}
}

// EnsureCollection creates the collection if absent.
func (s *Store) EnsureCollection(_ context.Context, collection string, _ int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[collection]; !ok {
		s.collections[collection] = make(map[string]domain.EmbeddingPoint)
	}
	return nil
}

// Upsert inserts or replaces points keyed by Payload.UniqueID.
func (s *Store) Upsert(_ context.Context, collection string, points []domain.EmbeddingPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, ok := s.collections[collection]
	if !ok {
		target = make(map[string]domain.EmbeddingPoint)
		s.collections[collection] = target
	}
	for _, point := range points {
		target[point.Payload.UniqueID] = point
	}
	return nil
}

// Search ranks points by cosine similarity.
func (s *Store) Search(
	_ context.Context, collection string, vector []float32, limit int, filter *domain.Filter,
) ([]domain.ScoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []domain.ScoredChunk{}
	for _, point := range s.collections[collection] {
		if !matches(point.Payload, filter) {
			continue
		}
		results = append(results, domain.ScoredChunk{
			Chunk: point.Payload,
			Score: cosine(vector, point.Vector),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.UniqueID < results[j].Chunk.UniqueID
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Scroll pages through points in UniqueID order.
func (s *Store) Scroll(
	_ context.Context, collection string, filter *domain.Filter, cursor string, limit int,
) ([]domain.EmbeddingPoint, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for id, point := range s.collections[collection] {
		if !matches(point.Payload, filter) {
			continue
		}
		if cursor != "" && id <= cursor {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	next := ""
	if len(ids) > limit {
		ids = ids[:limit]
		next = ids[len(ids)-1]
	}

	points := make([]domain.EmbeddingPoint, len(ids))
	for i, id := range ids {
		points[i] = s.collections[collection][id]
	}
	return points, next, nil
}

// ExistingDocIDs collects the distinct doc ids in the collection.
func (s *Store) ExistingDocIDs(_ context.Context, collection string) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make(map[string]struct{})
	for _, point := range s.collections[collection] {
		if point.Payload.DocID != "" {
			ids[point.Payload.DocID] = struct{}{}
		}
	}
	return ids, nil
}

// DeleteBy removes all points whose field exactly matches value.
func (s *Store) DeleteBy(_ context.Context, collection, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	filter := domain.MatchEq(field, value)
	for id, point := range s.collections[collection] {
		if matches(point.Payload, filter) {
			delete(s.collections[collection], id)
		}
	}
	return nil
}

// UpdateFields patches payload fields on all matching points.
func (s *Store) UpdateFields(
	_ context.Context, collection, matchField, matchValue string, fields map[string]string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	filter := domain.MatchEq(matchField, matchValue)
	for id, point := range s.collections[collection] {
		if !matches(point.Payload, filter) {
			continue
		}
		for field, value := range fields {
			applyField(&point.Payload, field, value)
		}
		s.collections[collection][id] = point
	}
	return nil
}

// Count reports the total number of points in the collection.
func (s *Store) Count(_ context.Context, collection string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.collections[collection])), nil
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() error { return nil }

// matches evaluates the filter conjunction against a chunk.
func matches(chunk domain.Chunk, filter *domain.Filter) bool {
	if filter.IsEmpty() {
		return true
	}
	for _, p := range filter.Must {
		if fieldValue(chunk, p.Field) != p.Value {
			return false
		}
	}
	return true
}

// fieldValue reads a filterable field off a chunk as a string.
func fieldValue(chunk domain.Chunk, field string) string {
	switch field {
	case domain.FieldDocID:
		return chunk.DocID
	case domain.FieldSourcePath:
		return chunk.SourcePath
	case domain.FieldDocumentType:
		return chunk.Type.String()
	case domain.FieldUser:
		return chunk.User
	case domain.FieldYear:
		if chunk.Year == 0 {
			return ""
		}
		return strconv.Itoa(chunk.Year)
	case domain.FieldSender:
		if chunk.Email == nil {
			return ""
		}
		return chunk.Email.Sender
	case domain.FieldSubject:
		if chunk.Email == nil {
			return ""
		}
		return chunk.Email.Subject
	default:
		return ""
	}
}

// applyField writes a patched value onto a chunk.
func applyField(chunk *domain.Chunk, field, value string) {
	switch field {
	case domain.FieldSourcePath:
		chunk.SourcePath = value
	case domain.FieldUser:
		chunk.User = value
	case domain.FieldDocumentType:
		chunk.Type = domain.DocumentType(value)
	case domain.FieldYear:
		if year, err := strconv.Atoi(value); err == nil {
			chunk.Year = year
		}
	}
}

// cosine computes cosine similarity between two vectors.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
