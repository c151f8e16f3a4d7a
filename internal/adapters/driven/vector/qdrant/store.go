// Package qdrant provides a VectorIndex backed by a remote Qdrant server over gRPC.
package qdrant

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
	"github.com/custodia-labs/interview-pilot/internal/core/ports/driven"
)

// Payload keys reserved by the adapter.
const (
	payloadContent = "content"
	payloadID      = "_id"
)

// idNamespace derives stable point UUIDs from document IDs that are not UUIDs.
var idNamespace = uuid.MustParse("6f1c2b1e-4a57-4c39-9a43-2a1f0d3c7e55")

// Ensure Store implements the interface.
var _ driven.VectorIndex = (*Store)(nil)

// pointsAPI is the subset of pb.PointsClient the store uses.
type pointsAPI interface {
	Upsert(ctx context.Context, in *pb.UpsertPoints, opts ...grpc.CallOption) (*pb.PointsOperationResponse, error)
	Search(ctx context.Context, in *pb.SearchPoints, opts ...grpc.CallOption) (*pb.SearchResponse, error)
	Count(ctx context.Context, in *pb.CountPoints, opts ...grpc.CallOption) (*pb.CountResponse, error)
	Delete(ctx context.Context, in *pb.DeletePoints, opts ...grpc.CallOption) (*pb.PointsOperationResponse, error)
}

// collectionsAPI is the subset of pb.CollectionsClient the store uses.
type collectionsAPI interface {
	List(ctx context.Context, in *pb.ListCollectionsRequest, opts ...grpc.CallOption) (*pb.ListCollectionsResponse, error)
	Create(ctx context.Context, in *pb.CreateCollection, opts ...grpc.CallOption) (*pb.CollectionOperationResponse, error)
	Delete(ctx context.Context, in *pb.DeleteCollection, opts ...grpc.CallOption) (*pb.CollectionOperationResponse, error)
}

// Store is the sole owner of all Qdrant operations.
type Store struct {
	conn        *grpc.ClientConn
	points      pointsAPI
	collections collectionsAPI
	addr        string
}

// New creates a Store connected to Qdrant at the given gRPC address.
// The connection is established lazily on first use.
func New(addr string) (*Store, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("qdrant: dial %s: %w", addr, err)
	}
	return &Store{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		addr:        addr,
	}, nil
}

// newWithClients builds a Store around prebuilt clients.
func newWithClients(points pointsAPI, collections collectionsAPI, addr string) *Store {
	return &Store{points: points, collections: collections, addr: addr}
}

// Close closes the underlying gRPC connection.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// Location returns the server address.
func (s *Store) Location() string {
	return "qdrant://" + s.addr
}

// EnsureCollection creates the collection if it doesn't exist.
func (s *Store) EnsureCollection(ctx context.Context, name string, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("%w: dimensions must be positive", domain.ErrInvalidInput)
	}

	exists, err := s.exists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = s.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: name,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(dimensions),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("qdrant: create collection %s: %w", name, unavailable(err))
	}
	return nil
}

func (s *Store) exists(ctx context.Context, name string) (bool, error) {
	list, err := s.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return false, fmt.Errorf("qdrant: list collections: %w", unavailable(err))
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == name {
			return true, nil
		}
	}
	return false, nil
}

// Upsert stores records as points. Document metadata becomes the point payload.
func (s *Store) Upsert(ctx context.Context, name string, records []driven.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	points := make([]*pb.PointStruct, len(records))
	for i, r := range records {
		payload := make(map[string]*pb.Value, len(r.Document.Metadata)+2)
		for k, val := range r.Document.Metadata {
			payload[k] = toValue(val)
		}
		payload[payloadContent] = toValue(r.Document.Content)
		payload[payloadID] = toValue(r.ID)

		points[i] = &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{Uuid: pointID(r.ID)},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: r.Embedding},
				},
			},
			Payload: payload,
		}
	}

	wait := true
	_, err := s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: name,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("collection %s: %w", name, domain.ErrNotFound)
		}
		return fmt.Errorf("qdrant: upsert %d points: %w", len(records), unavailable(err))
	}
	return nil
}

// Query performs k-NN similarity search with an optional keyword filter.
// Qdrant reports cosine similarity; it is converted to distance.
func (s *Store) Query(
	ctx context.Context, name string, vector []float32, k int, filter *domain.Filter,
) ([]driven.VectorHit, error) {
	if k <= 0 {
		return []driven.VectorHit{}, nil
	}

	req := &pb.SearchPoints{
		CollectionName: name,
		Vector:         vector,
		Limit:          uint64(k),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	}
	if filter != nil {
		req.Filter = &pb.Filter{Must: []*pb.Condition{fieldMatch(filter.Field, filter.Value)}}
	}

	resp, err := s.points.Search(ctx, req)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return []driven.VectorHit{}, nil
		}
		return nil, fmt.Errorf("qdrant: search: %w", unavailable(err))
	}

	hits := make([]driven.VectorHit, 0, len(resp.GetResult()))
	for _, r := range resp.GetResult() {
		doc := domain.Document{
			ID:       r.GetId().GetUuid(),
			Metadata: make(domain.Metadata, len(r.GetPayload())),
		}
		for k, val := range r.GetPayload() {
			switch k {
			case payloadContent:
				doc.Content = val.GetStringValue()
			case payloadID:
				doc.ID = val.GetStringValue()
			default:
				doc.Metadata[k] = fromValue(val)
			}
		}
		hits = append(hits, driven.VectorHit{
			Document: doc,
			Distance: 1 - float64(r.GetScore()),
		})
	}
	return hits, nil
}

// Count returns the exact number of points in the collection.
func (s *Store) Count(ctx context.Context, name string) (int, error) {
	exact := true
	resp, err := s.points.Count(ctx, &pb.CountPoints{CollectionName: name, Exact: &exact})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return 0, nil
		}
		return 0, fmt.Errorf("qdrant: count: %w", unavailable(err))
	}
	return int(resp.GetResult().GetCount()), nil
}

// DeleteBySource removes all points whose source payload matches. Used
// when a file is re-ingested or removed.
func (s *Store) DeleteBySource(ctx context.Context, name, source string) error {
	wait := true
	_, err := s.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: name,
		Wait:           &wait,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Filter{
				Filter: &pb.Filter{
					Must: []*pb.Condition{fieldMatch(domain.MetaSource, source)},
				},
			},
		},
	})
	if err != nil && status.Code(err) != codes.NotFound {
		return fmt.Errorf("qdrant: delete by source %s: %w", source, unavailable(err))
	}
	return nil
}

// DeleteCollection deletes the collection.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	_, err := s.collections.Delete(ctx, &pb.DeleteCollection{CollectionName: name})
	if err != nil && status.Code(err) != codes.NotFound {
		return fmt.Errorf("qdrant: delete collection %s: %w", name, unavailable(err))
	}
	return nil
}

// Reset deletes every collection on the server.
func (s *Store) Reset(ctx context.Context) error {
	list, err := s.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("qdrant: list collections: %w", unavailable(err))
	}
	for _, c := range list.GetCollections() {
		if err := s.DeleteCollection(ctx, c.GetName()); err != nil {
			return err
		}
	}
	return nil
}

// pointID returns id when it is already a UUID, else a name-based UUID.
func pointID(id string) string {
	if _, err := uuid.Parse(id); err == nil {
		return id
	}
	return uuid.NewSHA1(idNamespace, []byte(id)).String()
}

// unavailable tags transport failures so callers can recognise them.
func unavailable(err error) error {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %w", domain.ErrVectorIndexUnavailable, err)
	default:
		return err
	}
}

func toValue(val any) *pb.Value {
	switch tv := val.(type) {
	case string:
		return &pb.Value{Kind: &pb.Value_StringValue{StringValue: tv}}
	case int:
		return &pb.Value{Kind: &pb.Value_IntegerValue{IntegerValue: int64(tv)}}
	case int64:
		return &pb.Value{Kind: &pb.Value_IntegerValue{IntegerValue: tv}}
	case float64:
		return &pb.Value{Kind: &pb.Value_DoubleValue{DoubleValue: tv}}
	case bool:
		return &pb.Value{Kind: &pb.Value_BoolValue{BoolValue: tv}}
	default:
		return &pb.Value{Kind: &pb.Value_StringValue{StringValue: fmt.Sprint(tv)}}
	}
}

func fromValue(v *pb.Value) any {
	switch kind := v.GetKind().(type) {
	case *pb.Value_StringValue:
		return kind.StringValue
	case *pb.Value_IntegerValue:
		return kind.IntegerValue
	case *pb.Value_DoubleValue:
		return kind.DoubleValue
	case *pb.Value_BoolValue:
		return kind.BoolValue
	default:
		return nil
	}
}

func fieldMatch(key, value string) *pb.Condition {
	return &pb.Condition{
		ConditionOneOf: &pb.Condition_Field{
			Field: &pb.FieldCondition{
				Key: key,
				Match: &pb.Match{
					MatchValue: &pb.Match_Keyword{Keyword: value},
				},
			},
		},
	}
}
