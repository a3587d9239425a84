package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fieldnotes/guidepost/internal/corpus"
)

type recorder struct {
	mu      sync.Mutex
	indexed []string
	removed []string
}

func (r *recorder) onIndex(rel string) {
	r.mu.Lock()
	r.indexed = append(r.indexed, rel)
	r.mu.Unlock()
}

func (r *recorder) onRemove(rel string) {
	r.mu.Lock()
	r.removed = append(r.removed, rel)
	r.mu.Unlock()
}

func (r *recorder) snapshot() ([]string, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.indexed...), append([]string(nil), r.removed...)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func startWatcher(t *testing.T, root string, rec *recorder) *Watcher {
	t.Helper()
	scanner := corpus.NewScanner(root, nil, nil)
	w := NewWatcher(scanner, true, rec.onIndex, rec.onRemove, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(w.Stop)
	return w
}

func containsSuffix(paths []string, suffix string) bool {
	for _, p := range paths {
		if filepath.Base(p) == suffix || p == suffix {
			return true
		}
	}
	return false
}

func TestWatcherIndexesNewGuide(t *testing.T) {
	root := t.TempDir()
	rec := &recorder{}
	startWatcher(t, root, rec)

	writeFile(t, filepath.Join(root, "guide.md"), "# Hello\n")
	writeFile(t, filepath.Join(root, "notes.txt"), "ignored")

	time.Sleep(400 * time.Millisecond)
	indexed, _ := rec.snapshot()
	if !containsSuffix(indexed, "guide.md") {
		t.Errorf("expected guide.md indexed, got %v", indexed)
	}
	if containsSuffix(indexed, "notes.txt") {
		t.Errorf("non-corpus file indexed: %v", indexed)
	}
	// Callbacks receive corpus-relative paths.
	for _, p := range indexed {
		if filepath.IsAbs(p) {
			t.Errorf("expected relative path, got %s", p)
		}
	}
}

func TestWatcherDebouncesWriteBursts(t *testing.T) {
	root := t.TempDir()
	rec := &recorder{}
	startWatcher(t, root, rec)

	path := filepath.Join(root, "burst.md")
	for i := 0; i < 5; i++ {
		writeFile(t, path, "# Draft\n")
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(400 * time.Millisecond)
	indexed, _ := rec.snapshot()
	count := 0
	for _, p := range indexed {
		if p == "burst.md" {
			count++
		}
	}
	if count == 0 {
		t.Fatal("expected burst.md indexed")
	}
	if count >= 5 {
		t.Errorf("expected debouncing to coalesce writes, got %d callbacks", count)
	}
}

func TestWatcherRemove(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "doomed.md")
	writeFile(t, path, "# Doomed\n")

	rec := &recorder{}
	startWatcher(t, root, rec)

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)
	_, removed := rec.snapshot()
	if !containsSuffix(removed, "doomed.md") {
		t.Errorf("expected removal callback for doomed.md, got %v", removed)
	}
}

func TestWatcherNewDirectory(t *testing.T) {
	root := t.TempDir()
	rec := &recorder{}
	startWatcher(t, root, rec)

	nested := filepath.Join(root, "vector-dbs")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(nested, "qdrant.md"), "# Qdrant\n")

	time.Sleep(500 * time.Millisecond)
	indexed, _ := rec.snapshot()
	if !containsSuffix(indexed, filepath.Join("vector-dbs", "qdrant.md")) &&
		!containsSuffix(indexed, "vector-dbs/qdrant.md") && !containsSuffix(indexed, "qdrant.md") {
		t.Errorf("expected guide in new directory indexed, got %v", indexed)
	}
}

func TestSyncExistingFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "# A\n")
	writeFile(t, filepath.Join(root, "sub", "b.md"), "# B\n")
	writeFile(t, filepath.Join(root, "skip.txt"), "x")

	rec := &recorder{}
	w := startWatcher(t, root, rec)
	w.SyncExistingFiles()

	indexed, _ := rec.snapshot()
	if len(indexed) != 2 {
		t.Fatalf("expected 2 guides synced, got %v", indexed)
	}
	if indexed[0] != "a.md" || indexed[1] != "sub/b.md" {
		t.Errorf("expected sorted relative paths, got %v", indexed)
	}
}
