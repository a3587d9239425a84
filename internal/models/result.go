package models

// SearchResult represents a single search hit with document and scores.
type SearchResult struct {
	Document      *Document `json:"document"`
	Score         float64   `json:"score"`
	KeywordScore  float64   `json:"keyword_score"`
	SemanticScore float64   `json:"semantic_score"`
	// BestHeading is the heading path of the highest-scoring chunk for semantic hits.
	BestHeading string `json:"best_heading,omitempty"`
	Rank        int    `json:"rank"`
}

// SearchResponse is the response for a search request.
// NonSemanticResults and SemanticResults are disjoint (no guide appears in both).
type SearchResponse struct {
	// NonSemanticResults are keyword hits. A guide matched by both search
	// types appears here only, carrying both scores.
	NonSemanticResults []*SearchResult `json:"non_semantic_results"`
	// SemanticResults are semantic hits for guides absent from the keyword set.
	SemanticResults  []*SearchResult `json:"semantic_results"`
	TotalNonSemantic int             `json:"total_non_semantic"`
	TotalSemantic    int             `json:"total_semantic"`
	QueryTime        int64           `json:"query_time_ms"`
	Query            string          `json:"query"`
	// AutoFuzzy indicates that fuzzy search was automatically enabled because the
	// initial exact search returned no results.
	AutoFuzzy bool `json:"auto_fuzzy,omitempty"`
}
