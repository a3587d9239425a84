// Package vector provides vector index backends for semantic search over
// guide chunks: an in-process brute-force index persisted to disk, and a
// Qdrant-backed index for larger corpora.
package vector

import (
	"context"
	"fmt"

	"github.com/fieldnotes/guidepost/internal/config"
)

// Result is a single nearest-neighbor hit.
type Result struct {
	ID    string
	Score float32
}

// Index stores chunk embeddings and answers nearest-neighbor queries.
// Vectors are expected to be L2-normalized, so inner product equals cosine.
type Index interface {
	Add(ctx context.Context, id string, vec []float32) error
	Search(ctx context.Context, query []float32, k int) ([]Result, error)
	Remove(ctx context.Context, ids []string) error
	// Save persists the index if the backend is file-based; otherwise a no-op.
	Save() error
	Size() int
	Type() string
	Close() error
}

// NewIndex builds the vector index selected by cfg.
func NewIndex(cfg *config.Config) (Index, error) {
	switch cfg.Vector.Backend {
	case "memory", "":
		return NewMemoryIndex(cfg.Storage.VectorIndexPath, cfg.Embedding.Dimensions)
	case "qdrant":
		return NewQdrantIndex(context.Background(), QdrantOptions{
			Host:       cfg.Vector.QdrantHost,
			Port:       cfg.Vector.QdrantPort,
			Collection: cfg.Vector.QdrantCollection,
			Dimensions: cfg.Embedding.Dimensions,
		})
	default:
		return nil, fmt.Errorf("unknown vector backend: %s (supported: memory, qdrant)", cfg.Vector.Backend)
	}
}
