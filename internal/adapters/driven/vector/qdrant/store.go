// Package qdrant implements the VectorStore port against a Qdrant
// server over gRPC.
package qdrant

import (
	"context"
	"fmt"
	"strconv"
	"time"

	qd "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/status"

	"github.com/retriva-labs/retriva/internal/core/domain"
	"github.com/retriva-labs/retriva/internal/core/ports/driven"
	"github.com/retriva-labs/retriva/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// DefaultPort is Qdrant's gRPC port.
const DefaultPort = 6334

// upsertBatchSize bounds one upsert request; larger ingests are split.
const upsertBatchSize = 100

// scrollPageSize is the page size used for full-collection scans.
const scrollPageSize = 256

// Config holds Qdrant connection configuration.
type Config struct {
	// Host is the Qdrant server host.
	Host string

	// Port is the gRPC port. Zero means DefaultPort.
	Port int

	// APIKey is the optional authentication key.
	APIKey string

	// UseTLS enables TLS on the gRPC connection.
	UseTLS bool
}

// Store wraps the Qdrant client behind the VectorStore port.
// All transport failures wrap domain.ErrStoreUnavailable.
type Store struct {
	client *qd.Client
}

// New creates a Qdrant-backed vector store.
func New(config Config) (*Store, error) {
	if config.Host == "" {
		return nil, fmt.Errorf("%w: qdrant host is required", domain.ErrInvalidInput)
	}
	port := config.Port
	if port == 0 {
		port = DefaultPort
	}

	client, err := qd.NewClient(&qd.Config{
		Host:   config.Host,
		Port:   port,
		APIKey: config.APIKey,
		UseTLS: config.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	return &Store{client: client}, nil
}

// storeError tags an operation failure as store unavailability,
// flattening gRPC status errors into their bare message.
func storeError(op string, err error) error {
	if st, ok := status.FromError(err); ok {
		return fmt.Errorf("%w: %s: %s", domain.ErrStoreUnavailable, op, st.Message())
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrStoreUnavailable, op, err)
}

// EnsureCollection creates the collection if absent.
func (s *Store) EnsureCollection(ctx context.Context, collection string, vectorDim int) error {
	exists, err := s.client.CollectionExists(ctx, collection)
	if err != nil {
		return storeError("checking collection "+collection, err)
	}
	if exists {
		return nil
	}

	logger.Info("Creating collection %q (dim %d)", collection, vectorDim)
	err = s.client.CreateCollection(ctx, &qd.CreateCollection{
		CollectionName: collection,
		VectorsConfig: qd.NewVectorsConfig(&qd.VectorParams{
			Size:     uint64(vectorDim),
			Distance: qd.Distance_Cosine,
		}),
	})
	if err != nil {
		return storeError("creating collection "+collection, err)
	}
	return nil
}

// Upsert inserts or replaces points keyed by Payload.UniqueID.
func (s *Store) Upsert(ctx context.Context, collection string, points []domain.EmbeddingPoint) error {
	for start := 0; start < len(points); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(points) {
			end = len(points)
		}

		batch := make([]*qd.PointStruct, 0, end-start)
		for _, point := range points[start:end] {
			batch = append(batch, &qd.PointStruct{
				Id:      pointID(point.Payload.UniqueID),
				Vectors: qd.NewVectors(point.Vector...),
				Payload: chunkPayload(point.Payload),
			})
		}

		_, err := s.client.Upsert(ctx, &qd.UpsertPoints{
			CollectionName: collection,
			Points:         batch,
			Wait:           qd.PtrOf(true),
		})
		if err != nil {
			return storeError(fmt.Sprintf("upserting %d points", end-start), err)
		}
	}
	return nil
}

// Search returns up to limit chunks by vector similarity.
func (s *Store) Search(
	ctx context.Context, collection string, vector []float32, limit int, filter *domain.Filter,
) ([]domain.ScoredChunk, error) {
	request := &qd.QueryPoints{
		CollectionName: collection,
		Query:          qd.NewQuery(vector...),
		Limit:          qd.PtrOf(uint64(limit)),
		WithPayload:    qd.NewWithPayload(true),
		Filter:         buildFilter(filter),
	}

	points, err := s.client.Query(ctx, request)
	if err != nil {
		return nil, storeError("search", err)
	}

	chunks := make([]domain.ScoredChunk, 0, len(points))
	for _, point := range points {
		chunks = append(chunks, domain.ScoredChunk{
			Chunk: chunkFromPayload(point.GetId(), point.GetPayload()),
			Score: float64(point.GetScore()),
		})
	}
	return chunks, nil
}

// Scroll pages through all points matching the optional filter.
func (s *Store) Scroll(
	ctx context.Context, collection string, filter *domain.Filter, cursor string, limit int,
) ([]domain.EmbeddingPoint, string, error) {
	request := &qd.ScrollPoints{
		CollectionName: collection,
		Filter:         buildFilter(filter),
		Limit:          qd.PtrOf(uint32(limit)),
		WithPayload:    qd.NewWithPayload(true),
		WithVectors:    qd.NewWithVectors(true),
	}
	if cursor != "" {
		request.Offset = pointID(cursor)
	}

	// The high-level Scroll helper drops the next-page offset, so the
	// raw points client is used instead.
	response, err := s.client.GetPointsClient().Scroll(ctx, request)
	if err != nil {
		return nil, "", storeError("scroll", err)
	}

	points := make([]domain.EmbeddingPoint, 0, len(response.GetResult()))
	for _, retrieved := range response.GetResult() {
		points = append(points, domain.EmbeddingPoint{
			Vector:  retrieved.GetVectors().GetVector().GetData(),
			Payload: chunkFromPayload(retrieved.GetId(), retrieved.GetPayload()),
		})
	}

	next := ""
	if offset := response.GetNextPageOffset(); offset != nil {
		next = offset.GetUuid()
	}
	return points, next, nil
}

// ExistingDocIDs scrolls the collection and collects distinct doc ids.
func (s *Store) ExistingDocIDs(ctx context.Context, collection string) (map[string]struct{}, error) {
	exists, err := s.client.CollectionExists(ctx, collection)
	if err != nil {
		return nil, storeError("checking collection "+collection, err)
	}
	ids := make(map[string]struct{})
	if !exists {
		return ids, nil
	}

	cursor := ""
	for {
		request := &qd.ScrollPoints{
			CollectionName: collection,
			Limit:          qd.PtrOf(uint32(scrollPageSize)),
			WithPayload:    qd.NewWithPayload(true),
		}
		if cursor != "" {
			request.Offset = pointID(cursor)
		}

		response, err := s.client.GetPointsClient().Scroll(ctx, request)
		if err != nil {
			return nil, storeError("scanning doc ids", err)
		}

		for _, point := range response.GetResult() {
			if id := docIDFromPayload(point.GetPayload()); id != "" {
				ids[id] = struct{}{}
			}
		}

		offset := response.GetNextPageOffset()
		if offset == nil {
			return ids, nil
		}
		cursor = offset.GetUuid()
	}
}

// DeleteBy removes all points whose field exactly matches value.
func (s *Store) DeleteBy(ctx context.Context, collection, field, value string) error {
	_, err := s.client.Delete(ctx, &qd.DeletePoints{
		CollectionName: collection,
		Points: &qd.PointsSelector{
			PointsSelectorOneOf: &qd.PointsSelector_Filter{
				Filter: buildFilter(domain.MatchEq(field, value)),
			},
		},
		Wait: qd.PtrOf(true),
	})
	if err != nil {
		return storeError(fmt.Sprintf("deleting by %s=%s", field, value), err)
	}
	return nil
}

// UpdateFields patches payload fields on all matching points.
func (s *Store) UpdateFields(
	ctx context.Context, collection, matchField, matchValue string, fields map[string]string,
) error {
	payload := make(map[string]*qd.Value, len(fields))
	for key, value := range fields {
		payload[key] = qd.NewValueString(value)
	}

	_, err := s.client.SetPayload(ctx, &qd.SetPayloadPoints{
		CollectionName: collection,
		Payload:        payload,
		PointsSelector: &qd.PointsSelector{
			PointsSelectorOneOf: &qd.PointsSelector_Filter{
				Filter: buildFilter(domain.MatchEq(matchField, matchValue)),
			},
		},
		Wait: qd.PtrOf(true),
	})
	if err != nil {
		return storeError(fmt.Sprintf("patching by %s=%s", matchField, matchValue), err)
	}
	return nil
}

// Count reports the total number of points in the collection.
func (s *Store) Count(ctx context.Context, collection string) (uint64, error) {
	count, err := s.client.Count(ctx, &qd.CountPoints{
		CollectionName: collection,
		Exact:          qd.PtrOf(true),
	})
	if err != nil {
		return 0, storeError("counting", err)
	}
	return count, nil
}

// Ping validates the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.client.HealthCheck(ctx); err != nil {
		return storeError("health check", err)
	}
	return nil
}

// Close releases the gRPC connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// pointID builds a UUID point id.
func pointID(id string) *qd.PointId {
	return &qd.PointId{PointIdOptions: &qd.PointId_Uuid{Uuid: id}}
}

// Canonical payload field names. Filterable fields use the domain
// Field* constants; the rest are storage-only.
const (
	payloadText        = "text"
	payloadChunkIndex  = "chunk_index"
	payloadStartOffset = "start_offset"
	payloadReceiver    = "receiver"
	payloadDate        = "date"
	payloadMessageID   = "message_id"
)

// chunkPayload flattens a chunk onto the canonical payload shape.
func chunkPayload(chunk domain.Chunk) map[string]*qd.Value {
	payload := map[string]*qd.Value{
		domain.FieldDocID:      qd.NewValueString(chunk.DocID),
		domain.FieldSourcePath: qd.NewValueString(chunk.SourcePath),
		payloadText:            qd.NewValueString(chunk.Text),
		payloadChunkIndex:      qd.NewValueInt(int64(chunk.Index)),
		payloadStartOffset:     qd.NewValueInt(int64(chunk.StartOffset)),
	}
	if chunk.Type != "" {
		payload[domain.FieldDocumentType] = qd.NewValueString(chunk.Type.String())
	}
	if chunk.User != "" {
		payload[domain.FieldUser] = qd.NewValueString(chunk.User)
	}
	if chunk.Year != 0 {
		payload[domain.FieldYear] = qd.NewValueInt(int64(chunk.Year))
	}
	if chunk.Email != nil {
		if chunk.Email.Sender != "" {
			payload[domain.FieldSender] = qd.NewValueString(chunk.Email.Sender)
		}
		if chunk.Email.Receiver != "" {
			payload[payloadReceiver] = qd.NewValueString(chunk.Email.Receiver)
		}
		if chunk.Email.Subject != "" {
			payload[domain.FieldSubject] = qd.NewValueString(chunk.Email.Subject)
		}
		if !chunk.Email.Date.IsZero() {
			payload[payloadDate] = qd.NewValueString(chunk.Email.Date.Format(time.RFC3339))
		}
		if chunk.Email.MessageID != "" {
			payload[payloadMessageID] = qd.NewValueString(chunk.Email.MessageID)
		}
	}
	return payload
}

// chunkFromPayload rebuilds a chunk from a stored payload.
func chunkFromPayload(id *qd.PointId, payload map[string]*qd.Value) domain.Chunk {
	chunk := domain.Chunk{
		UniqueID:    id.GetUuid(),
		DocID:       payload[domain.FieldDocID].GetStringValue(),
		Index:       int(payload[payloadChunkIndex].GetIntegerValue()),
		Text:        payload[payloadText].GetStringValue(),
		StartOffset: int(payload[payloadStartOffset].GetIntegerValue()),
		SourcePath:  payload[domain.FieldSourcePath].GetStringValue(),
		Type:        domain.DocumentType(payload[domain.FieldDocumentType].GetStringValue()),
		User:        payload[domain.FieldUser].GetStringValue(),
		Year:        int(payload[domain.FieldYear].GetIntegerValue()),
	}

	if chunk.DocID == "" {
		chunk.DocID = legacyDocID(payload)
	}

	sender := payload[domain.FieldSender].GetStringValue()
	receiver := payload[payloadReceiver].GetStringValue()
	subject := payload[domain.FieldSubject].GetStringValue()
	messageID := payload[payloadMessageID].GetStringValue()
	if sender != "" || receiver != "" || subject != "" || messageID != "" {
		email := &domain.EmailMeta{
			Sender:    sender,
			Receiver:  receiver,
			Subject:   subject,
			MessageID: messageID,
		}
		if raw := payload[payloadDate].GetStringValue(); raw != "" {
			if date, err := time.Parse(time.RFC3339, raw); err == nil {
				email.Date = date
			}
		}
		chunk.Email = email
	}

	return chunk
}

// docIDFromPayload reads the doc id, accepting both the canonical
// top-level field and the legacy nested metadata shape.
func docIDFromPayload(payload map[string]*qd.Value) string {
	if id := payload[domain.FieldDocID].GetStringValue(); id != "" {
		return id
	}
	return legacyDocID(payload)
}

// legacyDocID reads metadata.doc_id from payloads written by older
// ingesters.
func legacyDocID(payload map[string]*qd.Value) string {
	metadata := payload["metadata"].GetStructValue()
	if metadata == nil {
		return ""
	}
	return metadata.GetFields()[domain.FieldDocID].GetStringValue()
}

// buildFilter converts a domain filter to Qdrant conditions.
// A nil or empty filter yields nil, searching the whole collection.
func buildFilter(filter *domain.Filter) *qd.Filter {
	if filter.IsEmpty() {
		return nil
	}

	conditions := make([]*qd.Condition, 0, len(filter.Must))
	for _, predicate := range filter.Must {
		// Year is stored as an integer payload value.
		if predicate.Field == domain.FieldYear {
			if year, err := strconv.ParseInt(predicate.Value, 10, 64); err == nil {
				conditions = append(conditions, qd.NewMatchInt(predicate.Field, year))
				continue
			}
		}
		conditions = append(conditions, qd.NewMatch(predicate.Field, predicate.Value))
	}
	return &qd.Filter{Must: conditions}
}
