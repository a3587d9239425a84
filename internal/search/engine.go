package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fieldnotes/guidepost/internal/config"
	"github.com/fieldnotes/guidepost/internal/embedding"
	"github.com/fieldnotes/guidepost/internal/keyword"
	"github.com/fieldnotes/guidepost/internal/models"
	"github.com/fieldnotes/guidepost/internal/storage"
	"github.com/fieldnotes/guidepost/internal/vector"
)

// Engine runs hybrid search and assembles document-level results.
type Engine struct {
	storage      storage.Storage
	embedder     embedding.Embedder
	vectorIndex  vector.Index
	keywordIndex keyword.Index
	config       *config.SearchConfig
}

// NewEngine creates a search engine with the given dependencies.
func NewEngine(
	store storage.Storage,
	embedder embedding.Embedder,
	vectorIndex vector.Index,
	keywordIndex keyword.Index,
	cfg *config.SearchConfig,
) *Engine {
	return &Engine{
		storage:      store,
		embedder:     embedder,
		vectorIndex:  vectorIndex,
		keywordIndex: keywordIndex,
		config:       cfg,
	}
}

// Search runs keyword and semantic search concurrently and returns two
// disjoint result lists. When an exact search comes back empty, it retries
// once with fuzzy matching and marks the response AutoFuzzy.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error) {
	startTime := time.Now()
	if err := ProcessQuery(query); err != nil {
		return nil, err
	}
	e.applyScoreDefaults(query)

	resp, err := e.searchOnce(ctx, query, query.FuzzyEnabled)
	if err != nil {
		return nil, err
	}
	if resp.TotalNonSemantic == 0 && resp.TotalSemantic == 0 && !query.FuzzyEnabled && query.KeywordEnabled {
		resp, err = e.searchOnce(ctx, query, true)
		if err != nil {
			return nil, err
		}
		resp.AutoFuzzy = true
	}

	resp.Query = query.Query
	resp.QueryTime = time.Since(startTime).Milliseconds()
	return resp, nil
}

func (e *Engine) applyScoreDefaults(query *models.SearchQuery) {
	if query.MinKeywordScore == 0 {
		query.MinKeywordScore = e.config.DefaultMinKeywordScore
	}
	if query.MinSemanticScore == 0 {
		query.MinSemanticScore = e.config.DefaultMinSemanticScore
	}
}

func (e *Engine) searchOnce(ctx context.Context, query *models.SearchQuery, fuzzy bool) (*models.SearchResponse, error) {
	var (
		keywordResults []*keyword.Result
		semanticHits   []vector.Result
		errChan        = make(chan error, 2)
		wg             sync.WaitGroup
	)

	if query.KeywordEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results, err := e.keywordIndex.Search(ctx, query.Query, e.config.TopKCandidates, &keyword.SearchOptions{
				TitleBoost:   e.config.KeywordTitleBoost,
				FuzzyEnabled: fuzzy,
			})
			if err != nil {
				errChan <- fmt.Errorf("keyword search failed: %w", err)
				return
			}
			keywordResults = results
		}()
	}

	if query.SemanticEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			queryEmbedding, err := e.embedder.Embed(ctx, query.Query)
			if err != nil {
				errChan <- fmt.Errorf("embedding failed: %w", err)
				return
			}
			results, err := e.vectorIndex.Search(ctx, queryEmbedding, e.config.TopKCandidates)
			if err != nil {
				errChan <- fmt.Errorf("vector search failed: %w", err)
				return
			}
			semanticHits = results
		}()
	}

	wg.Wait()
	close(errChan)
	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	keywordScores := NormalizeKeywordScores(keywordResults)

	chunkDoc := make(map[string]string, len(semanticHits))
	chunkHeading := make(map[string]string, len(semanticHits))
	for _, hit := range semanticHits {
		chunk, err := e.storage.GetChunk(ctx, hit.ID)
		if err != nil {
			continue
		}
		chunkDoc[hit.ID] = chunk.DocumentID
		chunkHeading[hit.ID] = chunk.Heading
	}
	semanticByDoc := AggregateSemanticByDocument(semanticHits, chunkDoc, chunkHeading)

	queryTerms := strings.Fields(strings.ToLower(query.Query))

	// Keyword hits first; a guide matched by both search types stays in the
	// keyword list with its semantic score attached.
	var nonSemantic []*models.SearchResult
	for id, score := range keywordScores {
		doc, err := e.storage.GetDocument(ctx, id)
		if err != nil {
			continue
		}
		if !matchesTags(doc, query.Tags) {
			continue
		}
		score = e.boostForTags(score, doc, queryTerms)
		if score < query.MinKeywordScore {
			continue
		}
		result := &models.SearchResult{
			Document:     doc,
			Score:        score,
			KeywordScore: score,
		}
		if sem, ok := semanticByDoc[id]; ok {
			result.SemanticScore = sem.Score
			result.BestHeading = sem.Heading
		}
		nonSemantic = append(nonSemantic, result)
	}

	var semantic []*models.SearchResult
	for id, sem := range semanticByDoc {
		if _, inKeyword := keywordScores[id]; inKeyword {
			continue
		}
		if sem.Score < query.MinSemanticScore {
			continue
		}
		doc, err := e.storage.GetDocument(ctx, id)
		if err != nil {
			continue
		}
		if !matchesTags(doc, query.Tags) {
			continue
		}
		semantic = append(semantic, &models.SearchResult{
			Document:      doc,
			Score:         sem.Score,
			SemanticScore: sem.Score,
			BestHeading:   sem.Heading,
		})
	}

	sortResults(nonSemantic)
	sortResults(semantic)

	resp := &models.SearchResponse{
		TotalNonSemantic: len(nonSemantic),
		TotalSemantic:    len(semantic),
	}
	resp.NonSemanticResults = page(nonSemantic, query.Offset, query.Limit)
	resp.SemanticResults = page(semantic, query.Offset, query.Limit)
	for i, r := range resp.NonSemanticResults {
		r.Rank = query.Offset + i + 1
	}
	for i, r := range resp.SemanticResults {
		r.Rank = query.Offset + i + 1
	}
	return resp, nil
}

// boostForTags multiplies the score when one of the guide's tags appears as a
// query term, so explicitly tagged guides edge out incidental matches.
func (e *Engine) boostForTags(score float64, doc *models.Document, queryTerms []string) float64 {
	if e.config.TagBoost <= 1 {
		return score
	}
	for _, tag := range doc.Tags {
		tagLower := strings.ToLower(tag)
		for _, term := range queryTerms {
			if term == tagLower {
				return score * e.config.TagBoost
			}
		}
	}
	return score
}

// matchesTags reports whether the document carries any of the wanted tags.
// An empty filter matches everything.
func matchesTags(doc *models.Document, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, w := range wanted {
		for _, tag := range doc.Tags {
			if strings.EqualFold(w, tag) {
				return true
			}
		}
	}
	return false
}

func sortResults(results []*models.SearchResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Document.Path < results[j].Document.Path
	})
}

func page(results []*models.SearchResult, offset, limit int) []*models.SearchResult {
	start := offset
	if start > len(results) {
		start = len(results)
	}
	end := start + limit
	if end > len(results) {
		end = len(results)
	}
	return results[start:end]
}
