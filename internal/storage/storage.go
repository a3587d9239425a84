// Package storage provides persistent guide and chunk storage.
package storage

import (
	"context"

	"github.com/fieldnotes/guidepost/internal/models"
)

// Storage defines persistence operations for guides and their chunks.
type Storage interface {
	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	UpdateDocument(ctx context.Context, doc *models.Document) error
	DeleteDocument(ctx context.Context, id string) error
	ListDocuments(ctx context.Context, offset, limit int) ([]*models.Document, error)
	CountDocuments(ctx context.Context) (int64, error)
	// ListTags returns every tag in the corpus with its guide count.
	ListTags(ctx context.Context) (map[string]int, error)

	CreateChunk(ctx context.Context, chunk *models.DocumentChunk) error
	GetChunk(ctx context.Context, id string) (*models.DocumentChunk, error)
	GetChunksByDocumentID(ctx context.Context, docID string) ([]*models.DocumentChunk, error)
	DeleteChunksByDocumentID(ctx context.Context, docID string) error
	BatchCreateChunks(ctx context.Context, chunks []*models.DocumentChunk) error
	CountChunks(ctx context.Context) (int64, error)

	Close() error
}
