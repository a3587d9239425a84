// Package models defines core data structures for stored guides, queries, and search results.
package models

import "time"

// Document is a stored, indexed guide. Title, Description, and Tags come from
// the guide's front matter; Path is the corpus-relative source path.
type Document struct {
	ID          string                 `json:"id" db:"id"`
	Path        string                 `json:"path" db:"path"`
	Title       string                 `json:"title" db:"title"`
	Description string                 `json:"description" db:"description"`
	Tags        []string               `json:"tags,omitempty" db:"tags"`
	Content     string                 `json:"content" db:"content"`
	Metadata    map[string]interface{} `json:"metadata,omitempty" db:"metadata"`
	CreatedAt   time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at" db:"updated_at"`
}

// DocumentChunk is a section-sized piece of a guide used for semantic indexing.
// Heading is the nearest enclosing heading path (e.g. "Vector Databases > Hybrid Search").
type DocumentChunk struct {
	ID         string    `json:"id" db:"id"`
	DocumentID string    `json:"document_id" db:"document_id"`
	Heading    string    `json:"heading,omitempty" db:"heading"`
	Content    string    `json:"content" db:"content"`
	ChunkIndex int       `json:"chunk_index" db:"chunk_index"`
	Embedding  []float32 `json:"-" db:"-"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
