// Package embedding provides text embedding via an OpenAI-compatible API,
// a deterministic mock for offline use, and embedding caches.
package embedding

import (
	"context"
	"fmt"

	"github.com/fieldnotes/guidepost/internal/config"
)

// Embedder produces vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

// NewEmbedder builds the embedder described by cfg: "api" or "mock" provider,
// wrapped in a "memory" (LRU) or "redis" cache.
func NewEmbedder(cfg *config.EmbeddingConfig) (Embedder, error) {
	var base Embedder
	switch cfg.Provider {
	case "api":
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("embedding provider %q requires an endpoint", cfg.Provider)
		}
		base = NewAPIEmbedder(cfg.Endpoint, cfg.Model, cfg.APIKey, cfg.Dimensions)
	case "mock", "":
		base = NewMockEmbedder(cfg.Dimensions)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: api, mock)", cfg.Provider)
	}

	switch cfg.Cache {
	case "redis":
		cache, err := NewRedisCache(cfg.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("redis embedding cache: %w", err)
		}
		return NewCachedEmbedder(base, cache), nil
	case "memory", "":
		return NewCachedEmbedder(base, NewMemoryCache(cfg.CacheSize)), nil
	case "none":
		return base, nil
	default:
		return nil, fmt.Errorf("unknown embedding cache: %s (supported: memory, redis, none)", cfg.Cache)
	}
}
