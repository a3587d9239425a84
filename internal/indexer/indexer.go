package indexer

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/fieldnotes/guidepost/internal/config"
	"github.com/fieldnotes/guidepost/internal/corpus"
	"github.com/fieldnotes/guidepost/internal/docid"
	"github.com/fieldnotes/guidepost/internal/embedding"
	"github.com/fieldnotes/guidepost/internal/keyword"
	"github.com/fieldnotes/guidepost/internal/lint"
	"github.com/fieldnotes/guidepost/internal/models"
	"github.com/fieldnotes/guidepost/internal/storage"
	"github.com/fieldnotes/guidepost/internal/vector"
)

const (
	metaKeySourcePath   = "source_path"
	metaKeySourceMtime  = "source_mtime"
	metaKeySourceSize   = "source_size"
	metaKeyLintErrors   = "lint_errors"
	metaKeyLintWarnings = "lint_warnings"
)

// Indexer indexes guides into storage, the keyword index, and the vector index.
type Indexer struct {
	scanner      *corpus.Scanner
	storage      storage.Storage
	embedder     embedding.Embedder
	vectorIndex  vector.Index
	keywordIndex keyword.Index
	chunker      *Chunker
	linter       *lint.Linter
	logger       *zap.Logger
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) IndexerOption {
	return func(idx *Indexer) { idx.logger = l }
}

// WithLinter attaches a linter so each indexed guide's lint status lands in
// its metadata. Guides with lint errors are still indexed.
func WithLinter(l *lint.Linter) IndexerOption {
	return func(idx *Indexer) { idx.linter = l }
}

// NewIndexer creates an indexer with the given dependencies.
func NewIndexer(
	scanner *corpus.Scanner,
	store storage.Storage,
	embedder embedding.Embedder,
	vectorIndex vector.Index,
	keywordIndex keyword.Index,
	cfg *config.SearchConfig,
	opts ...IndexerOption,
) *Indexer {
	idx := &Indexer{
		scanner:      scanner,
		storage:      store,
		embedder:     embedder,
		vectorIndex:  vectorIndex,
		keywordIndex: keywordIndex,
		chunker:      NewChunker(cfg.ChunkSize, cfg.ChunkOverlap),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// IndexFile loads and indexes one guide by corpus-relative path. The document
// ID is derived from the path, so re-indexing updates the same document.
// Unchanged files (same mtime and size as last indexed) are skipped.
func (idx *Indexer) IndexFile(ctx context.Context, relPath string) error {
	if idx.logger != nil {
		idx.logger.Debug("indexing guide", zap.String("path", relPath))
	}
	guide, err := idx.scanner.Load(relPath)
	if err != nil {
		return fmt.Errorf("load guide: %w", err)
	}

	id := docid.GuideID(guide.Path)
	if idx.unchanged(ctx, id, guide) {
		// Repopulate the keyword index in case it was opened empty.
		if doc, getErr := idx.storage.GetDocument(ctx, id); getErr == nil {
			_ = idx.keywordIndex.Index(ctx, id, doc)
		}
		if idx.logger != nil {
			idx.logger.Debug("skipping unchanged guide", zap.String("path", relPath))
		}
		return nil
	}

	_ = idx.DeleteDocument(ctx, id)
	return idx.indexGuide(ctx, id, guide)
}

func (idx *Indexer) indexGuide(ctx context.Context, id string, guide *corpus.Guide) error {
	doc := &models.Document{
		ID:          id,
		Path:        guide.Path,
		Title:       guide.Title(),
		Description: guide.Description(),
		Tags:        guide.Tags(),
		Content:     Preprocess(guide.Body),
		Metadata: map[string]interface{}{
			metaKeySourcePath: guide.Path,
			// Stored as strings: UnixNano exceeds float64 precision in JSON.
			metaKeySourceMtime: strconv.FormatInt(guide.ModTime.UnixNano(), 10),
			metaKeySourceSize:  strconv.FormatInt(guide.Size, 10),
		},
	}
	if idx.linter != nil {
		report := idx.linter.LintGuide(ctx, guide)
		doc.Metadata[metaKeyLintErrors] = strconv.Itoa(report.Errors)
		doc.Metadata[metaKeyLintWarnings] = strconv.Itoa(report.Warnings)
	}
	if err := idx.storage.CreateDocument(ctx, doc); err != nil {
		return fmt.Errorf("failed to store document: %w", err)
	}

	chunks := idx.chunker.Chunk(id, SectionsFromGuide(guide))
	if len(chunks) == 0 {
		chunks = idx.chunker.Chunk(id, []Section{{Heading: doc.Title, Content: doc.Title + " " + doc.Description}})
	}
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = chunkEmbeddingText(doc.Title, ch)
	}
	embeddings, err := idx.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}
	if err := idx.storage.BatchCreateChunks(ctx, chunks); err != nil {
		return fmt.Errorf("failed to store chunks: %w", err)
	}
	for i, ch := range chunks {
		if err := idx.vectorIndex.Add(ctx, ch.ID, embeddings[i]); err != nil {
			return fmt.Errorf("failed to index vectors: %w", err)
		}
	}
	if err := idx.keywordIndex.Index(ctx, id, doc); err != nil {
		return fmt.Errorf("failed to index keywords: %w", err)
	}
	if idx.logger != nil {
		idx.logger.Debug("guide indexed",
			zap.String("path", guide.Path),
			zap.String("doc_id", id),
			zap.Int("chunks", len(chunks)))
	}
	return nil
}

// chunkEmbeddingText prefixes the chunk with its title and heading context so
// embeddings capture where in the guide the text sits.
func chunkEmbeddingText(title string, ch *models.DocumentChunk) string {
	text := ch.Content
	if ch.Heading != "" {
		text = ch.Heading + "\n" + text
	}
	if title != "" {
		text = title + "\n" + text
	}
	return text
}

// unchanged reports whether the stored document matches the on-disk mtime and size.
func (idx *Indexer) unchanged(ctx context.Context, id string, guide *corpus.Guide) bool {
	doc, err := idx.storage.GetDocument(ctx, id)
	if err != nil || doc.Metadata == nil {
		return false
	}
	if doc.Metadata[metaKeySourcePath] != guide.Path {
		return false
	}
	return metadataInt64(doc.Metadata, metaKeySourceMtime) == guide.ModTime.UnixNano() &&
		metadataInt64(doc.Metadata, metaKeySourceSize) == guide.Size
}

func metadataInt64(m map[string]interface{}, key string) int64 {
	switch n := m[key].(type) {
	case string:
		x, _ := strconv.ParseInt(n, 10, 64)
		return x
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

// IndexCorpus indexes every guide under the corpus root. Returns the number
// of guides processed (indexed or skipped as unchanged).
func (idx *Indexer) IndexCorpus(ctx context.Context) (int, error) {
	files, err := idx.scanner.Files()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if err := idx.IndexFile(ctx, rel); err != nil {
			return n, fmt.Errorf("index %s: %w", rel, err)
		}
		n++
	}
	return n, nil
}

// DeleteDocument removes a document from all indices and storage.
func (idx *Indexer) DeleteDocument(ctx context.Context, id string) error {
	if err := idx.keywordIndex.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete from keyword index: %w", err)
	}
	chunks, err := idx.storage.GetChunksByDocumentID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get chunks: %w", err)
	}
	chunkIDs := make([]string, len(chunks))
	for i, ch := range chunks {
		chunkIDs[i] = ch.ID
	}
	if err := idx.vectorIndex.Remove(ctx, chunkIDs); err != nil {
		return fmt.Errorf("failed to delete from vector index: %w", err)
	}
	if err := idx.storage.DeleteChunksByDocumentID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	if err := idx.storage.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if idx.logger != nil {
		idx.logger.Debug("document deleted", zap.String("id", id))
	}
	return nil
}

// DeletePath removes the document for a corpus-relative path.
func (idx *Indexer) DeletePath(ctx context.Context, relPath string) error {
	return idx.DeleteDocument(ctx, docid.GuideID(relPath))
}
