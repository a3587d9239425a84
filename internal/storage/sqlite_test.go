package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fieldnotes/guidepost/internal/models"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "guidepost.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStorage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleDoc(id, path string, tags ...string) *models.Document {
	return &models.Document{
		ID:          id,
		Path:        path,
		Title:       "Prompt Engineering",
		Description: "How to write effective prompts.",
		Tags:        tags,
		Content:     "Be specific. Show examples.",
		Metadata:    map[string]interface{}{"source_mtime": "1700000000"},
	}
}

func TestDocumentCRUD(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	doc := sampleDoc("guide:1", "prompts/basics.md", "prompting")
	if err := s.CreateDocument(ctx, doc); err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}

	got, err := s.GetDocument(ctx, "guide:1")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if got.Path != "prompts/basics.md" || got.Title != "Prompt Engineering" {
		t.Errorf("unexpected document: %+v", got)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "prompting" {
		t.Errorf("tags not round-tripped: %v", got.Tags)
	}
	if got.Metadata["source_mtime"] != "1700000000" {
		t.Errorf("metadata not round-tripped: %v", got.Metadata)
	}

	got.Description = "Updated."
	if err := s.UpdateDocument(ctx, got); err != nil {
		t.Fatalf("UpdateDocument: %v", err)
	}
	got2, _ := s.GetDocument(ctx, "guide:1")
	if got2.Description != "Updated." {
		t.Errorf("update not persisted: %q", got2.Description)
	}

	if err := s.DeleteDocument(ctx, "guide:1"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if _, err := s.GetDocument(ctx, "guide:1"); err == nil {
		t.Error("expected error for deleted document")
	}
}

func TestUpdateMissingDocument(t *testing.T) {
	s := newTestStorage(t)
	if err := s.UpdateDocument(context.Background(), sampleDoc("guide:none", "x.md")); err == nil {
		t.Error("expected error updating missing document")
	}
}

func TestListDocumentsOrderedByPath(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	s.CreateDocument(ctx, sampleDoc("guide:b", "vector-dbs/qdrant.md"))
	s.CreateDocument(ctx, sampleDoc("guide:a", "n8n/webhooks.md"))

	docs, err := s.ListDocuments(ctx, 0, 10)
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].Path != "n8n/webhooks.md" {
		t.Errorf("expected path ordering, got %s first", docs[0].Path)
	}

	page, err := s.ListDocuments(ctx, 1, 10)
	if err != nil {
		t.Fatalf("ListDocuments offset: %v", err)
	}
	if len(page) != 1 || page[0].Path != "vector-dbs/qdrant.md" {
		t.Errorf("offset paging wrong: %+v", page)
	}
}

func TestListTags(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	s.CreateDocument(ctx, sampleDoc("guide:1", "a.md", "prompting", "rag"))
	s.CreateDocument(ctx, sampleDoc("guide:2", "b.md", "rag"))
	s.CreateDocument(ctx, sampleDoc("guide:3", "c.md"))

	tags, err := s.ListTags(ctx)
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if tags["rag"] != 2 || tags["prompting"] != 1 {
		t.Errorf("unexpected tag counts: %v", tags)
	}
}

func TestChunkLifecycle(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	s.CreateDocument(ctx, sampleDoc("guide:1", "a.md"))

	chunks := []*models.DocumentChunk{
		{ID: "c1", DocumentID: "guide:1", Heading: "Overview", Content: "first", ChunkIndex: 0},
		{ID: "c2", DocumentID: "guide:1", Heading: "Details", Content: "second", ChunkIndex: 1},
	}
	if err := s.BatchCreateChunks(ctx, chunks); err != nil {
		t.Fatalf("BatchCreateChunks: %v", err)
	}

	got, err := s.GetChunksByDocumentID(ctx, "guide:1")
	if err != nil {
		t.Fatalf("GetChunksByDocumentID: %v", err)
	}
	if len(got) != 2 || got[0].ID != "c1" || got[1].Heading != "Details" {
		t.Errorf("unexpected chunks: %+v", got)
	}

	one, err := s.GetChunk(ctx, "c2")
	if err != nil {
		t.Fatalf("GetChunk: %v", err)
	}
	if one.Content != "second" {
		t.Errorf("unexpected chunk: %+v", one)
	}

	n, _ := s.CountChunks(ctx)
	if n != 2 {
		t.Errorf("expected 2 chunks, got %d", n)
	}

	if err := s.DeleteChunksByDocumentID(ctx, "guide:1"); err != nil {
		t.Fatalf("DeleteChunksByDocumentID: %v", err)
	}
	n, _ = s.CountChunks(ctx)
	if n != 0 {
		t.Errorf("expected 0 chunks after delete, got %d", n)
	}
}
