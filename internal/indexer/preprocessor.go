package indexer

import (
	"strings"

	"github.com/fieldnotes/guidepost/pkg/utils"
)

// Preprocess normalizes guide text for embedding and keyword indexing:
// fence markers are dropped (the code itself stays searchable) and
// whitespace is collapsed.
func Preprocess(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			continue
		}
		kept = append(kept, line)
	}
	return utils.CollapseWhitespace(strings.Join(kept, "\n"))
}
