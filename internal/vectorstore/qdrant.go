package vectorstore

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
)

// QdrantStore adapts github.com/qdrant/go-client to the Store contract.
// Grounded on Tangerg-lynx's ai/providers/vectorstores/qdrant/store.go
// (client construction, CreateCollection-if-missing, PointStruct/payload
// conversion, Query-based k-NN); trimmed to Theodore's flat
// id/vector/metadata shape since there is no document-batcher or
// store-owned embedding model here.
type QdrantStore struct {
	client         *qdrant.Client
	collectionName string
}

// QdrantConfig configures store construction.
type QdrantConfig struct {
	Addr             string
	APIKey           string
	CollectionName   string
	VectorDimension  uint64
	InitializeSchema bool
}

// NewQdrantStore connects to a Qdrant instance and, if requested, creates
// the collection when it does not already exist.
func NewQdrantStore(ctx context.Context, cfg QdrantConfig) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Addr,
		Port:   6334,
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: connect: %w", err)
	}
	store := &QdrantStore{client: client, collectionName: cfg.CollectionName}
	if cfg.InitializeSchema {
		if err := store.ensureCollection(ctx, cfg.VectorDimension); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func (s *QdrantStore) ensureCollection(ctx context.Context, dim uint64) error {
	exists, err := s.client.CollectionExists(ctx, s.collectionName)
	if err != nil {
		return fmt.Errorf("qdrant: check collection: %w", err)
	}
	if exists {
		return nil
	}
	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dim,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("qdrant: create collection %s: %w", s.collectionName, err)
	}
	return nil
}

func (s *QdrantStore) Upsert(ctx context.Context, id string, vector []float32, metadata map[string]any) error {
	payload, err := qdrant.TryValueMap(metadata)
	if err != nil {
		return fmt.Errorf("qdrant: convert metadata: %w", err)
	}
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(id),
		Vectors: qdrant.NewVectors(vector...),
		Payload: payload,
	}
	wait := true
	_, err = s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collectionName,
		Wait:           &wait,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("qdrant: upsert %s: %w", id, err)
	}
	return nil
}

func (s *QdrantStore) FindByName(ctx context.Context, name string) (Entry, bool, error) {
	nameValue, err := qdrant.NewValue(name)
	if err != nil {
		return Entry{}, false, fmt.Errorf("qdrant: build name filter: %w", err)
	}
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("name", nameValue.GetStringValue()),
		},
	}
	limit := uint32(1)
	points, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: s.collectionName,
		Filter:         filter,
		Limit:          &limit,
		WithVectors:    qdrant.NewWithVectors(true),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return Entry{}, false, fmt.Errorf("qdrant: scroll: %w", err)
	}
	if len(points) == 0 {
		return Entry{}, false, nil
	}
	return pointToEntry(points[0]), true, nil
}

func (s *QdrantStore) KNearest(ctx context.Context, vector []float32, k int, filter map[string]any) ([]Match, error) {
	query := &qdrant.QueryPoints{
		CollectionName: s.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          ptrUint64(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(true),
	}
	if len(filter) > 0 {
		var conditions []*qdrant.Condition
		for key, val := range filter {
			str, ok := val.(string)
			if !ok {
				continue
			}
			conditions = append(conditions, qdrant.NewMatch(key, str))
		}
		if len(conditions) > 0 {
			query.Filter = &qdrant.Filter{Must: conditions}
		}
	}
	scored, err := s.client.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("qdrant: query: %w", err)
	}
	matches := make([]Match, 0, len(scored))
	for _, p := range scored {
		matches = append(matches, Match{
			Entry: scoredPointToEntry(p),
			Score: float64(p.GetScore()),
		})
	}
	return matches, nil
}

func pointToEntry(p *qdrant.RetrievedPoint) Entry {
	e := Entry{Metadata: convertPayload(p.GetPayload())}
	if id := p.GetId(); id != nil {
		e.ID = id.GetUuid()
		if e.ID == "" {
			e.ID = fmt.Sprintf("%d", id.GetNum())
		}
	}
	if v := p.GetVectors(); v != nil {
		e.Vector = v.GetVector().GetData()
	}
	return e
}

func scoredPointToEntry(p *qdrant.ScoredPoint) Entry {
	e := Entry{Metadata: convertPayload(p.GetPayload())}
	if id := p.GetId(); id != nil {
		e.ID = id.GetUuid()
		if e.ID == "" {
			e.ID = fmt.Sprintf("%d", id.GetNum())
		}
	}
	if v := p.GetVectors(); v != nil {
		e.Vector = v.GetVector().GetData()
	}
	return e
}

func convertPayload(payload map[string]*qdrant.Value) map[string]any {
	if payload == nil {
		return nil
	}
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = convertValue(v)
	}
	return out
}

func convertValue(v *qdrant.Value) any {
	if v == nil {
		return nil
	}
	switch kind := v.Kind.(type) {
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	default:
		return nil
	}
}

func ptrUint64(v uint64) *uint64 { return &v }
