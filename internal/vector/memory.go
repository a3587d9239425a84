package vector

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// memoryIndexMagic identifies the on-disk snapshot format.
const memoryIndexMagic = uint32(0x47504f31) // "GPO1"

// MemoryIndex is a brute-force inner-product index held in memory and
// snapshotted to a single file. Linear scan is fine at documentation-corpus
// scale (thousands of chunks).
type MemoryIndex struct {
	mu         sync.RWMutex
	path       string
	dimensions int
	ids        []string
	vectors    [][]float32
	byID       map[string]int
}

// NewMemoryIndex creates the index and loads a prior snapshot from path if
// one exists. An empty path disables persistence.
func NewMemoryIndex(path string, dimensions int) (*MemoryIndex, error) {
	idx := &MemoryIndex{
		path:       path,
		dimensions: dimensions,
		byID:       make(map[string]int),
	}
	if path != "" {
		if err := idx.load(); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load vector index: %w", err)
		}
	}
	return idx, nil
}

func (idx *MemoryIndex) Add(_ context.Context, id string, vec []float32) error {
	if len(vec) != idx.dimensions {
		return fmt.Errorf("vector has %d dimensions, index expects %d", len(vec), idx.dimensions)
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if pos, ok := idx.byID[id]; ok {
		idx.vectors[pos] = vec
		return nil
	}
	idx.byID[id] = len(idx.ids)
	idx.ids = append(idx.ids, id)
	idx.vectors = append(idx.vectors, vec)
	return nil
}

func (idx *MemoryIndex) Search(_ context.Context, query []float32, k int) ([]Result, error) {
	if len(query) != idx.dimensions {
		return nil, fmt.Errorf("query has %d dimensions, index expects %d", len(query), idx.dimensions)
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	results := make([]Result, 0, len(idx.ids))
	for i, vec := range idx.vectors {
		results = append(results, Result{ID: idx.ids[i], Score: dot(query, vec)})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})
	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (idx *MemoryIndex) Remove(_ context.Context, ids []string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	remove := make(map[string]bool, len(ids))
	for _, id := range ids {
		remove[id] = true
	}
	keptIDs := idx.ids[:0]
	keptVecs := idx.vectors[:0]
	for i, id := range idx.ids {
		if !remove[id] {
			keptIDs = append(keptIDs, id)
			keptVecs = append(keptVecs, idx.vectors[i])
		}
	}
	idx.ids = keptIDs
	idx.vectors = keptVecs
	idx.byID = make(map[string]int, len(idx.ids))
	for i, id := range idx.ids {
		idx.byID[id] = i
	}
	return nil
}

func (idx *MemoryIndex) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.ids)
}

func (idx *MemoryIndex) Type() string {
	return "memory"
}

func (idx *MemoryIndex) Close() error {
	return idx.Save()
}

// Save writes a snapshot atomically via a temp file rename.
func (idx *MemoryIndex) Save() error {
	if idx.path == "" {
		return nil
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(idx.path), 0o755); err != nil {
		return err
	}
	tmp := idx.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	write := func(v any) error { return binary.Write(f, binary.LittleEndian, v) }
	err = write(memoryIndexMagic)
	if err == nil {
		err = write(uint32(idx.dimensions))
	}
	if err == nil {
		err = write(uint32(len(idx.ids)))
	}
	for i := 0; err == nil && i < len(idx.ids); i++ {
		id := []byte(idx.ids[i])
		if err = write(uint32(len(id))); err == nil {
			_, err = f.Write(id)
		}
		if err == nil {
			err = write(idx.vectors[i])
		}
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, idx.path)
}

func (idx *MemoryIndex) load() error {
	f, err := os.Open(idx.path)
	if err != nil {
		return err
	}
	defer f.Close()

	read := func(v any) error { return binary.Read(f, binary.LittleEndian, v) }
	var magic, dims, count uint32
	if err := read(&magic); err != nil {
		return err
	}
	if magic != memoryIndexMagic {
		return fmt.Errorf("unrecognized vector index file %s", idx.path)
	}
	if err := read(&dims); err != nil {
		return err
	}
	if int(dims) != idx.dimensions {
		return fmt.Errorf("vector index has %d dimensions, config expects %d", dims, idx.dimensions)
	}
	if err := read(&count); err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		var idLen uint32
		if err := read(&idLen); err != nil {
			return err
		}
		id := make([]byte, idLen)
		if _, err := io.ReadFull(f, id); err != nil {
			return err
		}
		vec := make([]float32, dims)
		if err := read(vec); err != nil {
			return err
		}
		idx.byID[string(id)] = len(idx.ids)
		idx.ids = append(idx.ids, string(id))
		idx.vectors = append(idx.vectors, vec)
	}
	return nil
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	if math.IsNaN(float64(sum)) {
		return 0
	}
	return sum
}
