package vector

import (
	"context"
	"fmt"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// QdrantOptions holds connection settings for a Qdrant instance.
type QdrantOptions struct {
	Host       string
	Port       int
	Collection string
	Dimensions int
}

// QdrantIndex stores chunk embeddings in a Qdrant collection over gRPC.
// Chunk IDs are UUIDs, which is what Qdrant requires for point IDs.
type QdrantIndex struct {
	conn        *grpc.ClientConn
	collections pb.CollectionsClient
	points      pb.PointsClient
	collection  string
	dimensions  int
}

// NewQdrantIndex dials Qdrant and creates the collection if it does not exist.
func NewQdrantIndex(ctx context.Context, opts QdrantOptions) (*QdrantIndex, error) {
	addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("qdrant connect %s: %w", addr, err)
	}
	idx := &QdrantIndex{
		conn:        conn,
		collections: pb.NewCollectionsClient(conn),
		points:      pb.NewPointsClient(conn),
		collection:  opts.Collection,
		dimensions:  opts.Dimensions,
	}
	if err := idx.ensureCollection(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return idx, nil
}

func (idx *QdrantIndex) ensureCollection(ctx context.Context) error {
	_, err := idx.collections.Get(ctx, &pb.GetCollectionInfoRequest{CollectionName: idx.collection})
	if err == nil {
		return nil
	}
	_, err = idx.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: idx.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(idx.dimensions),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create collection %s: %w", idx.collection, err)
	}
	return nil
}

func (idx *QdrantIndex) Add(ctx context.Context, id string, vec []float32) error {
	if len(vec) != idx.dimensions {
		return fmt.Errorf("vector has %d dimensions, index expects %d", len(vec), idx.dimensions)
	}
	_, err := idx.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: idx.collection,
		Points: []*pb.PointStruct{
			{
				Id:      &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: id}},
				Vectors: &pb.Vectors{VectorsOptions: &pb.Vectors_Vector{Vector: &pb.Vector{Data: vec}}},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("upsert point %s: %w", id, err)
	}
	return nil
}

func (idx *QdrantIndex) Search(ctx context.Context, query []float32, k int) ([]Result, error) {
	resp, err := idx.points.Search(ctx, &pb.SearchPoints{
		CollectionName: idx.collection,
		Vector:         query,
		Limit:          uint64(k),
	})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", idx.collection, err)
	}
	results := make([]Result, 0, len(resp.Result))
	for _, r := range resp.Result {
		results = append(results, Result{ID: r.Id.GetUuid(), Score: r.Score})
	}
	return results, nil
}

func (idx *QdrantIndex) Remove(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	points := make([]*pb.PointId, len(ids))
	for i, id := range ids {
		points[i] = &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: id}}
	}
	_, err := idx.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: idx.collection,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Points{
				Points: &pb.PointsIdsList{Ids: points},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("delete points: %w", err)
	}
	return nil
}

// Save is a no-op; Qdrant persists server-side.
func (idx *QdrantIndex) Save() error {
	return nil
}

func (idx *QdrantIndex) Size() int {
	info, err := idx.collections.Get(context.Background(), &pb.GetCollectionInfoRequest{CollectionName: idx.collection})
	if err != nil || info.Result == nil {
		return 0
	}
	return int(info.Result.GetPointsCount())
}

func (idx *QdrantIndex) Type() string {
	return "qdrant"
}

func (idx *QdrantIndex) Close() error {
	return idx.conn.Close()
}
