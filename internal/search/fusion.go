// Package search runs hybrid (keyword + semantic) search over indexed guides.
package search

import (
	"github.com/fieldnotes/guidepost/internal/keyword"
	"github.com/fieldnotes/guidepost/internal/vector"
)

// NormalizeKeywordScores normalizes keyword scores to [0,1] by the max score.
func NormalizeKeywordScores(results []*keyword.Result) map[string]float64 {
	normalized := make(map[string]float64, len(results))
	if len(results) == 0 {
		return normalized
	}
	maxScore := results[0].Score
	for _, r := range results {
		if r.Score > maxScore {
			maxScore = r.Score
		}
	}
	for _, r := range results {
		if maxScore > 0 {
			normalized[r.ID] = r.Score / maxScore
		} else {
			normalized[r.ID] = 0
		}
	}
	return normalized
}

// docSemantic is the best semantic hit for a document.
type docSemantic struct {
	Score   float64
	Heading string
}

// AggregateSemanticByDocument reduces chunk-level hits to one score per
// document (the max over its chunks), keeping the best chunk's heading so
// results can point at the relevant section.
func AggregateSemanticByDocument(hits []vector.Result, chunkDoc map[string]string, chunkHeading map[string]string) map[string]docSemantic {
	byDoc := make(map[string]docSemantic)
	for _, hit := range hits {
		docID := chunkDoc[hit.ID]
		if docID == "" {
			continue
		}
		score := float64(hit.Score)
		if best, ok := byDoc[docID]; !ok || score > best.Score {
			byDoc[docID] = docSemantic{Score: score, Heading: chunkHeading[hit.ID]}
		}
	}
	return byDoc
}
