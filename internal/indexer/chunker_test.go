package indexer

import (
	"strings"
	"testing"

	"github.com/fieldnotes/guidepost/internal/corpus"
)

func TestSectionsFromGuide(t *testing.T) {
	content := `---
title: Chunking
description: How to split documents.
---
Intro paragraph before any heading.

## First Section

Body of the first section.

## Second Section

Body of the second section.
`
	g := corpus.ParseGuide("guides/chunking.md", []byte(content))
	sections := SectionsFromGuide(g)
	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d: %+v", len(sections), sections)
	}
	if sections[0].Heading != "" || !strings.Contains(sections[0].Content, "Intro paragraph") {
		t.Errorf("unexpected preamble section: %+v", sections[0])
	}
	if sections[1].Heading != "First Section" || !strings.Contains(sections[1].Content, "first section") {
		t.Errorf("unexpected section: %+v", sections[1])
	}
	if sections[2].Heading != "Second Section" {
		t.Errorf("unexpected section: %+v", sections[2])
	}
}

func TestSectionsFromGuideNoHeadings(t *testing.T) {
	g := corpus.ParseGuide("a.md", []byte("Just a paragraph.\n"))
	sections := SectionsFromGuide(g)
	if len(sections) != 1 || sections[0].Content != "Just a paragraph." {
		t.Fatalf("unexpected sections: %+v", sections)
	}
}

func TestChunkerOverlap(t *testing.T) {
	c := NewChunker(4, 1)
	words := []string{"one", "two", "three", "four", "five", "six", "seven"}
	chunks := c.Chunk("guide:x", []Section{{Heading: "H", Content: strings.Join(words, " ")}})

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Content != "one two three four" {
		t.Errorf("unexpected first chunk: %q", chunks[0].Content)
	}
	// Step of 3 (size 4, overlap 1) means the second window starts at "four".
	if chunks[1].Content != "four five six seven" {
		t.Errorf("unexpected second chunk: %q", chunks[1].Content)
	}
	for i, ch := range chunks {
		if ch.ChunkIndex != i {
			t.Errorf("chunk %d has index %d", i, ch.ChunkIndex)
		}
		if ch.Heading != "H" {
			t.Errorf("chunk %d lost heading: %q", i, ch.Heading)
		}
		if ch.DocumentID != "guide:x" {
			t.Errorf("chunk %d has document %q", i, ch.DocumentID)
		}
	}
	if chunks[0].ID == chunks[1].ID {
		t.Error("chunk IDs must be unique")
	}
}

func TestChunkerBareHeading(t *testing.T) {
	c := NewChunker(10, 2)
	chunks := c.Chunk("guide:x", []Section{{Heading: "Roadmap", Content: ""}})
	if len(chunks) != 1 || chunks[0].Content != "Roadmap" {
		t.Fatalf("expected heading-only chunk, got %+v", chunks)
	}
}

func TestPreprocessStripsFenceMarkers(t *testing.T) {
	text := "Some prose.\n```python\nimport os\n```\nMore   prose.\n"
	got := Preprocess(text)
	if strings.Contains(got, "```") {
		t.Errorf("fence markers should be removed: %q", got)
	}
	if !strings.Contains(got, "import os") {
		t.Errorf("code content should stay searchable: %q", got)
	}
	if strings.Contains(got, "  ") {
		t.Errorf("whitespace not collapsed: %q", got)
	}
}
