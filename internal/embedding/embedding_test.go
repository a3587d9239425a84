package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/fieldnotes/guidepost/internal/config"
)

func TestMockEmbedderDeterministic(t *testing.T) {
	e := NewMockEmbedder(64)
	ctx := context.Background()

	a, err := e.Embed(ctx, "hybrid search with reranking")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	b, err := e.Embed(ctx, "hybrid search with reranking")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 dimensions, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("embeddings differ at %d: %v vs %v", i, a[i], b[i])
		}
	}

	var norm float64
	for _, v := range a {
		norm += float64(v) * float64(v)
	}
	if math.Abs(norm-1.0) > 1e-5 {
		t.Errorf("expected unit norm, got %f", norm)
	}
}

func TestMockEmbedderDistinguishesTexts(t *testing.T) {
	e := NewMockEmbedder(64)
	ctx := context.Background()

	a, _ := e.Embed(ctx, "vector databases")
	b, _ := e.Embed(ctx, "workflow automation nodes")

	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	if dot > 0.99 {
		t.Errorf("unrelated texts should not be near-identical, dot=%f", dot)
	}
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	c := NewMemoryCache(2)
	ctx := context.Background()

	c.Set(ctx, "a", []float32{1})
	c.Set(ctx, "b", []float32{2})
	if _, ok := c.Get(ctx, "a"); !ok {
		t.Fatal("expected a present")
	}
	// a was just touched, so adding c evicts b.
	c.Set(ctx, "c", []float32{3})
	if _, ok := c.Get(ctx, "b"); ok {
		t.Error("expected b evicted")
	}
	if _, ok := c.Get(ctx, "a"); !ok {
		t.Error("expected a retained")
	}
	if c.Len() != 2 {
		t.Errorf("expected len 2, got %d", c.Len())
	}
}

type countingEmbedder struct {
	*MockEmbedder
	calls atomic.Int64
}

func (e *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.calls.Add(1)
	return e.MockEmbedder.Embed(ctx, text)
}

func (e *countingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	e.calls.Add(int64(len(texts)))
	return e.MockEmbedder.EmbedBatch(ctx, texts)
}

func TestCachedEmbedderAvoidsRecompute(t *testing.T) {
	inner := &countingEmbedder{MockEmbedder: NewMockEmbedder(32)}
	e := NewCachedEmbedder(inner, NewMemoryCache(100))
	ctx := context.Background()

	if _, err := e.Embed(ctx, "prompt engineering"); err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if _, err := e.Embed(ctx, "prompt engineering"); err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if got := inner.calls.Load(); got != 1 {
		t.Errorf("expected 1 inner call, got %d", got)
	}

	vecs, err := e.EmbedBatch(ctx, []string{"prompt engineering", "few-shot examples"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if len(vecs) != 2 || vecs[0] == nil || vecs[1] == nil {
		t.Fatalf("expected 2 vectors, got %v", vecs)
	}
	if got := inner.calls.Load(); got != 2 {
		t.Errorf("expected only the uncached text embedded, calls=%d", got)
	}
}

func TestAPIEmbedderBatch(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req apiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		resp := apiResponse{}
		// Reverse order to exercise index-based reassembly.
		for i := len(req.Input) - 1; i >= 0; i-- {
			resp.Data = append(resp.Data, struct {
				Index     int       `json:"index"`
				Embedding []float32 `json:"embedding"`
			}{Index: i, Embedding: []float32{float32(i), 1}})
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	e := NewAPIEmbedder(srv.URL+"/v1", "test-model", "secret", 2)
	vecs, err := e.EmbedBatch(context.Background(), []string{"one", "two", "three"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if len(vecs) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(vecs))
	}
	// Input i maps to vector [i, 1] normalized; check ordering survived.
	if vecs[0][0] != 0 {
		t.Errorf("vector 0 out of order: %v", vecs[0])
	}
	if vecs[2][0] <= vecs[1][0] {
		t.Errorf("vectors not reassembled by index: %v %v", vecs[1], vecs[2])
	}
}

func TestAPIEmbedderErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"rate limited"}}`)
	}))
	defer srv.Close()

	e := NewAPIEmbedder(srv.URL, "m", "", 4)
	if _, err := e.Embed(context.Background(), "x"); err == nil {
		t.Fatal("expected error for 429 response")
	}
}

func TestNewEmbedderFactory(t *testing.T) {
	e, err := NewEmbedder(&config.EmbeddingConfig{Provider: "mock", Dimensions: 128, Cache: "memory", CacheSize: 10})
	if err != nil {
		t.Fatalf("NewEmbedder: %v", err)
	}
	defer e.Close()
	if e.Dimensions() != 128 {
		t.Errorf("expected 128 dimensions, got %d", e.Dimensions())
	}

	if _, err := NewEmbedder(&config.EmbeddingConfig{Provider: "carrier-pigeon"}); err == nil {
		t.Error("expected error for unknown provider")
	}
	if _, err := NewEmbedder(&config.EmbeddingConfig{Provider: "api"}); err == nil {
		t.Error("expected error for api provider without endpoint")
	}
}
