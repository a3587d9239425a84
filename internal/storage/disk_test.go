package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiskUsageBytes(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.bin"), make([]byte, 100), 0o644); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(dir, "sub")
	os.MkdirAll(sub, 0o755)
	if err := os.WriteFile(filepath.Join(sub, "b.bin"), make([]byte, 50), 0o644); err != nil {
		t.Fatal(err)
	}

	total, err := DiskUsageBytes(dir)
	if err != nil {
		t.Fatalf("DiskUsageBytes: %v", err)
	}
	if total != 150 {
		t.Errorf("expected 150 bytes, got %d", total)
	}

	total, err = DiskUsageBytes(dir, filepath.Join(dir, "missing"), "")
	if err != nil {
		t.Fatalf("DiskUsageBytes with missing path: %v", err)
	}
	if total != 150 {
		t.Errorf("missing paths should contribute 0, got %d", total)
	}
}
