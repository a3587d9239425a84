package embedding

import (
	"context"
	"hash/fnv"
	"strings"

	"github.com/fieldnotes/guidepost/pkg/utils"
)

// MockEmbedder produces deterministic pseudo-embeddings from token hashes.
// It exists for tests and for running without an embedding service; similar
// texts get similar vectors because they share token buckets.
type MockEmbedder struct {
	dimensions int
}

func NewMockEmbedder(dimensions int) *MockEmbedder {
	if dimensions <= 0 {
		dimensions = 384
	}
	return &MockEmbedder{dimensions: dimensions}
}

func (e *MockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dimensions)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New64a()
		h.Write([]byte(token))
		sum := h.Sum64()
		idx := int(sum % uint64(e.dimensions))
		// Alternate the sign from a high bit so vectors are not all-positive.
		if sum&(1<<63) != 0 {
			vec[idx] -= 1
		} else {
			vec[idx] += 1
		}
	}
	utils.NormalizeL2(vec)
	return vec, nil
}

func (e *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		vecs[i] = v
	}
	return vecs, nil
}

func (e *MockEmbedder) Dimensions() int {
	return e.dimensions
}

func (e *MockEmbedder) Close() error {
	return nil
}
