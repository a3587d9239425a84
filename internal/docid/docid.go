// Package docid provides a deterministic guide ID from a corpus-relative path.
package docid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
)

const prefix = "guide:"

// GuideID returns a stable document ID for the given corpus-relative path.
// The same path always yields the same ID, so re-indexing a changed guide
// updates it in place and watch remove events can address it by path.
// Separators are normalized so IDs agree across platforms.
func GuideID(relPath string) string {
	normalized := filepath.ToSlash(filepath.Clean(relPath))
	normalized = strings.TrimPrefix(normalized, "./")
	hash := sha256.Sum256([]byte(normalized))
	return prefix + hex.EncodeToString(hash[:])
}
