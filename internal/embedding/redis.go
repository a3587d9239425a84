package embedding

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "guidepost:emb:"

// RedisCache stores embeddings in Redis so multiple guidepost processes
// sharing an embedding service also share its cache. Vectors are packed as
// little-endian float32.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(addr string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Get(ctx context.Context, text string) ([]float32, bool) {
	data, err := c.client.Get(ctx, redisKeyPrefix+cacheKey(text)).Bytes()
	if err != nil || len(data)%4 != 0 {
		return nil, false
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, true
}

func (c *RedisCache) Set(ctx context.Context, text string, vec []float32) {
	data := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	// Cache failures are not fatal; the embedder recomputes on miss.
	c.client.Set(ctx, redisKeyPrefix+cacheKey(text), data, 0)
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
