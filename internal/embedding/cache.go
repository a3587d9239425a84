package embedding

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// Cache stores embeddings keyed by the text they were computed from.
type Cache interface {
	Get(ctx context.Context, text string) ([]float32, bool)
	Set(ctx context.Context, text string, vec []float32)
	Close() error
}

// cacheKey hashes the text so arbitrarily long chunks make bounded keys.
func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

type memoryEntry struct {
	key string
	vec []float32
}

// MemoryCache is a fixed-capacity LRU embedding cache.
type MemoryCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	entries  map[string]*list.Element
}

func NewMemoryCache(capacity int) *MemoryCache {
	if capacity <= 0 {
		capacity = 10000
	}
	return &MemoryCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}
}

func (c *MemoryCache) Get(_ context.Context, text string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[cacheKey(text)]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*memoryEntry).vec, true
}

func (c *MemoryCache) Set(_ context.Context, text string, vec []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(text)
	if el, ok := c.entries[key]; ok {
		el.Value.(*memoryEntry).vec = vec
		c.order.MoveToFront(el)
		return
	}
	c.entries[key] = c.order.PushFront(&memoryEntry{key: key, vec: vec})
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*memoryEntry).key)
	}
}

func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *MemoryCache) Close() error {
	return nil
}

// CachedEmbedder wraps an Embedder with a Cache so repeated chunks are
// embedded once.
type CachedEmbedder struct {
	inner Embedder
	cache Cache
}

func NewCachedEmbedder(inner Embedder, cache Cache) *CachedEmbedder {
	return &CachedEmbedder{inner: inner, cache: cache}
}

func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := e.cache.Get(ctx, text); ok {
		return vec, nil
	}
	vec, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	e.cache.Set(ctx, text, vec)
	return vec, nil
}

func (e *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int
	for i, t := range texts {
		if vec, ok := e.cache.Get(ctx, t); ok {
			vecs[i] = vec
		} else {
			missing = append(missing, t)
			missingIdx = append(missingIdx, i)
		}
	}
	if len(missing) == 0 {
		return vecs, nil
	}

	fresh, err := e.inner.EmbedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}
	for j, vec := range fresh {
		e.cache.Set(ctx, missing[j], vec)
		vecs[missingIdx[j]] = vec
	}
	return vecs, nil
}

func (e *CachedEmbedder) Dimensions() int {
	return e.inner.Dimensions()
}

func (e *CachedEmbedder) Close() error {
	if err := e.cache.Close(); err != nil {
		return err
	}
	return e.inner.Close()
}
