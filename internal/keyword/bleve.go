package keyword

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/fieldnotes/guidepost/internal/models"
)

// BleveIndex implements Index using Bleve.
type BleveIndex struct {
	index bleve.Index
}

// bleveDoc is the indexed shape of a guide. Only searchable fields are kept;
// metadata and timestamps stay in storage.
type bleveDoc struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Content     string   `json:"content"`
}

// NewBleveIndex creates or opens a Bleve index at path. An existing index is
// reused so unchanged guides are not re-indexed on startup. If the mapping
// changes in code, remove the index directory to force a full re-index.
func NewBleveIndex(path string) (*BleveIndex, error) {
	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}

	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so a query like
	// "embeddings" matches the exact word rather than a stem.
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("title", textFieldMapping)
	docMapping.AddFieldMappingsAt("description", textFieldMapping)
	docMapping.AddFieldMappingsAt("content", textFieldMapping)
	// Tags are matched whole ("vector-db" is one term, not two).
	docMapping.AddFieldMappingsAt("tags", bleve.NewKeywordFieldMapping())
	im.DefaultMapping = docMapping

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

func (b *BleveIndex) Index(_ context.Context, id string, doc *models.Document) error {
	return b.index.Index(id, bleveDoc{
		Title:       doc.Title,
		Description: doc.Description,
		Tags:        doc.Tags,
		Content:     doc.Content,
	})
}

// Search runs a match query and returns up to limit results. With
// opts.TitleBoost > 1, separate title and body queries are merged with
// additive scoring so title hits rank higher. With opts.FuzzyEnabled,
// per-term fuzzy queries provide typo tolerance.
func (b *BleveIndex) Search(_ context.Context, query string, limit int, opts *SearchOptions) ([]*Result, error) {
	titleBoost := 1.0
	fuzzyEnabled := false
	fuzziness := 2
	if opts != nil {
		if opts.TitleBoost > 0 {
			titleBoost = opts.TitleBoost
		}
		fuzzyEnabled = opts.FuzzyEnabled
		if opts.Fuzziness > 0 {
			fuzziness = opts.Fuzziness
		}
	}

	if titleBoost <= 1.0 {
		return b.searchSingle(query, limit, fuzzyEnabled, fuzziness)
	}
	return b.searchWithTitleBoost(query, limit, titleBoost, fuzzyEnabled, fuzziness)
}

func (b *BleveIndex) searchSingle(query string, limit int, fuzzyEnabled bool, fuzziness int) ([]*Result, error) {
	var q blevequery.Query
	if fuzzyEnabled {
		q = buildFuzzyQuery(query, fuzziness, "")
	} else {
		q = bleve.NewMatchQuery(query)
	}
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	results, err := b.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := make([]*Result, len(results.Hits))
	for i, hit := range results.Hits {
		out[i] = &Result{ID: hit.ID, Score: hit.Score}
	}
	return out, nil
}

// searchWithTitleBoost merges title and body hits additively:
// score = titleScore*titleBoost + descriptionScore + contentScore.
func (b *BleveIndex) searchWithTitleBoost(query string, limit int, titleBoost float64, fuzzyEnabled bool, fuzziness int) ([]*Result, error) {
	// Request enough from each field so the merged top "limit" is correct.
	reqSize := limit * 2
	if reqSize < 50 {
		reqSize = 50
	}

	fieldScores := func(field string) (map[string]float64, error) {
		var q blevequery.Query
		if fuzzyEnabled {
			q = buildFuzzyQuery(query, fuzziness, field)
		} else {
			mq := bleve.NewMatchQuery(query)
			mq.SetField(field)
			q = mq
		}
		req := bleve.NewSearchRequest(q)
		req.Size = reqSize
		results, err := b.index.Search(req)
		if err != nil {
			return nil, fmt.Errorf("Bleve %s search failed: %w", field, err)
		}
		scores := make(map[string]float64, len(results.Hits))
		for _, hit := range results.Hits {
			scores[hit.ID] = hit.Score
		}
		return scores, nil
	}

	titleScores, err := fieldScores("title")
	if err != nil {
		return nil, err
	}
	descScores, err := fieldScores("description")
	if err != nil {
		return nil, err
	}
	contentScores, err := fieldScores("content")
	if err != nil {
		return nil, err
	}

	merged := make(map[string]float64)
	for id, s := range titleScores {
		merged[id] += s * titleBoost
	}
	for id, s := range descScores {
		merged[id] += s
	}
	for id, s := range contentScores {
		merged[id] += s
	}

	out := make([]*Result, 0, len(merged))
	for id, score := range merged {
		out = append(out, &Result{ID: id, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// buildFuzzyQuery creates a disjunction of per-term fuzzy queries. An empty
// field searches all fields.
func buildFuzzyQuery(queryStr string, fuzziness int, field string) blevequery.Query {
	terms := strings.Fields(strings.ToLower(queryStr))
	if len(terms) == 0 {
		mq := bleve.NewMatchQuery(queryStr)
		if field != "" {
			mq.SetField(field)
		}
		return mq
	}
	queries := make([]blevequery.Query, 0, len(terms))
	for _, term := range terms {
		fq := bleve.NewFuzzyQuery(term)
		fq.SetFuzziness(fuzziness)
		if field != "" {
			fq.SetField(field)
		}
		queries = append(queries, fq)
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewDisjunctionQuery(queries...)
}

func (b *BleveIndex) Delete(_ context.Context, id string) error {
	return b.index.Delete(id)
}

func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}

func (b *BleveIndex) Close() error {
	return b.index.Close()
}
