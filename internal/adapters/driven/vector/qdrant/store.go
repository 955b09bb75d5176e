package qdrant

import (
	"context"
	"fmt"
	"sort"

	qdrantclient "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultAddr = "localhost:6334"
)

// upsertBatchSize caps the number of points per upsert request to
// stay under the server's payload limit.
const upsertBatchSize = 50

// Config holds configuration for the Qdrant vector store.
type Config struct {
	// Addr is the Qdrant gRPC address (default: localhost:6334).
	Addr string

	// Collection is the collection records are stored in. Required.
	Collection string
}

// Store provides vector storage and similarity search using Qdrant.
type Store struct {
	conn        *grpc.ClientConn
	collections qdrantclient.CollectionsClient
	points      qdrantclient.PointsClient
	embedder    driven.EmbeddingService
	collection  string
}

// New creates a new Qdrant vector store. The embedder is used to
// embed query text for SearchText.
func New(cfg Config, embedder driven.EmbeddingService) (*Store, error) {
	if cfg.Collection == "" {
		return nil, fmt.Errorf("%w: qdrant collection name is required", domain.ErrConfiguration)
	}
	if embedder == nil {
		return nil, fmt.Errorf("%w: qdrant store requires an embedding service", domain.ErrConfiguration)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	conn, err := grpc.NewClient(cfg.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("connect to qdrant at %s: %w", cfg.Addr, err)
	}

	return &Store{
		conn:        conn,
		collections: qdrantclient.NewCollectionsClient(conn),
		points:      qdrantclient.NewPointsClient(conn),
		embedder:    embedder,
		collection:  cfg.Collection,
	}, nil
}

// EnsureCollection creates the collection with a cosine metric if it
// does not exist. An existing collection is reused without checking
// its dimension; a mismatch surfaces on the first write.
func (s *Store) EnsureCollection(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("%w: vector dimension must be positive", domain.ErrConfiguration)
	}

	collections, err := s.collections.List(ctx, &qdrantclient.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}

	for _, col := range collections.GetCollections() {
		if col.GetName() == s.collection {
			return nil
		}
	}

	_, err = s.collections.Create(ctx, &qdrantclient.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &qdrantclient.VectorsConfig{
			Config: &qdrantclient.VectorsConfig_Params{
				Params: &qdrantclient.VectorParams{
					Size:     uint64(dimension),
					Distance: qdrantclient.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create collection %s: %w", s.collection, err)
	}
	return nil
}

// Upsert writes records in batches and returns the ids written.
// A failed batch aborts the call; ids from batches already written
// are still returned with the error.
func (s *Store) Upsert(ctx context.Context, records []domain.VectorRecord) ([]string, error) {
	written := make([]string, 0, len(records))
	wait := true

	for _, batch := range partition(records, upsertBatchSize) {
		points := make([]*qdrantclient.PointStruct, len(batch))
		for i, rec := range batch {
			points[i] = &qdrantclient.PointStruct{
				Id: &qdrantclient.PointId{
					PointIdOptions: &qdrantclient.PointId_Uuid{Uuid: rec.ID},
				},
				Vectors: &qdrantclient.Vectors{
					VectorsOptions: &qdrantclient.Vectors_Vector{
						Vector: &qdrantclient.Vector{Data: rec.Embedding},
					},
				},
				Payload: payloadFromRecord(rec),
			}
		}

		_, err := s.points.Upsert(ctx, &qdrantclient.UpsertPoints{
			CollectionName: s.collection,
			Points:         points,
			Wait:           &wait,
		})
		if err != nil {
			return written, upsertError(s.collection, err)
		}
		for _, rec := range batch {
			written = append(written, rec.ID)
		}
	}
	return written, nil
}

// SearchText embeds the query and returns up to k records in
// descending similarity order.
func (s *Store) SearchText(ctx context.Context, query string, k int) ([]domain.ScoredRecord, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	resp, err := s.points.Search(ctx, &qdrantclient.SearchPoints{
		CollectionName: s.collection,
		Vector:         vector,
		Limit:          uint64(k),
		WithPayload: &qdrantclient.WithPayloadSelector{
			SelectorOptions: &qdrantclient.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, s.collection)
		}
		return nil, fmt.Errorf("search collection %s: %w", s.collection, err)
	}

	return scoredResults(resp.GetResult()), nil
}

// scoredResults maps search hits to scored records, ordered by
// descending score regardless of wire order.
func scoredResults(points []*qdrantclient.ScoredPoint) []domain.ScoredRecord {
	results := make([]domain.ScoredRecord, 0, len(points))
	for _, point := range points {
		results = append(results, domain.ScoredRecord{
			Record: recordFromPoint(point),
			Score:  float64(point.GetScore()),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// Close releases the gRPC connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// upsertError maps a gRPC failure to a typed error.
func upsertError(collection string, err error) error {
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, collection)
	}
	return fmt.Errorf("upsert into collection %s: %w", collection, err)
}

// partition splits records into batches of at most size elements.
func partition(records []domain.VectorRecord, size int) [][]domain.VectorRecord {
	if size <= 0 || len(records) == 0 {
		return nil
	}
	batches := make([][]domain.VectorRecord, 0, (len(records)+size-1)/size)
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		batches = append(batches, records[start:end])
	}
	return batches
}

// textPayloadKey stores the chunk text alongside its metadata.
const textPayloadKey = "text"

// payloadFromRecord converts a record's text and metadata into a
// Qdrant payload.
func payloadFromRecord(rec domain.VectorRecord) map[string]*qdrantclient.Value {
	payload := make(map[string]*qdrantclient.Value, len(rec.Metadata)+1)
	payload[textPayloadKey] = &qdrantclient.Value{
		Kind: &qdrantclient.Value_StringValue{StringValue: rec.Text},
	}
	for key, val := range rec.Metadata {
		payload[key] = metaToValue(val)
	}
	return payload
}

// recordFromPoint converts a search hit back into a vector record.
func recordFromPoint(point *qdrantclient.ScoredPoint) domain.VectorRecord {
	rec := domain.VectorRecord{
		ID:       point.GetId().GetUuid(),
		Metadata: make(domain.Metadata),
	}
	for key, val := range point.GetPayload() {
		if key == textPayloadKey {
			rec.Text = val.GetStringValue()
			continue
		}
		rec.Metadata[key] = valueToMeta(val)
	}
	return rec
}

// metaToValue converts a metadata value into the Qdrant payload format.
func metaToValue(v domain.MetaValue) *qdrantclient.Value {
	switch v.Kind() {
	case domain.MetaNumber:
		return &qdrantclient.Value{
			Kind: &qdrantclient.Value_DoubleValue{DoubleValue: v.Num()},
		}
	case domain.MetaBool:
		return &qdrantclient.Value{
			Kind: &qdrantclient.Value_BoolValue{BoolValue: v.Boolean()},
		}
	case domain.MetaStringList:
		items := v.List()
		values := make([]*qdrantclient.Value, len(items))
		for i, item := range items {
			values[i] = &qdrantclient.Value{
				Kind: &qdrantclient.Value_StringValue{StringValue: item},
			}
		}
		return &qdrantclient.Value{
			Kind: &qdrantclient.Value_ListValue{
				ListValue: &qdrantclient.ListValue{Values: values},
			},
		}
	default:
		return &qdrantclient.Value{
			Kind: &qdrantclient.Value_StringValue{StringValue: v.Str()},
		}
	}
}

// valueToMeta converts a Qdrant payload value back into a metadata
// value. Unsupported kinds are stringified.
func valueToMeta(v *qdrantclient.Value) domain.MetaValue {
	switch kind := v.GetKind().(type) {
	case *qdrantclient.Value_DoubleValue:
		return domain.Number(kind.DoubleValue)
	case *qdrantclient.Value_IntegerValue:
		return domain.Number(float64(kind.IntegerValue))
	case *qdrantclient.Value_BoolValue:
		return domain.Bool(kind.BoolValue)
	case *qdrantclient.Value_ListValue:
		values := kind.ListValue.GetValues()
		items := make([]string, len(values))
		for i, item := range values {
			items[i] = item.GetStringValue()
		}
		return domain.StringList(items)
	case *qdrantclient.Value_StringValue:
		return domain.String(kind.StringValue)
	default:
		return domain.String(v.String())
	}
}
