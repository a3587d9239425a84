package corpus

import (
	"strings"
	"testing"
)

const sampleGuide = `---
title: "Hybrid Search"
description: Combining keyword and vector retrieval.
author: docs-team
date: 2024-11-02
tags:
  - vector-db
  - rag
---
# Hybrid Search

Intro text with an [inline link](../rag/index.md) and an
image ![diagram](img/flow.png) that is not a link.

## Score Fusion

` + "```python\nscores = 0.5 * kw + 0.5 * sem\n```" + `

## See Also

- [RAG Basics](../rag/index.md)
- [Qdrant Guide](vector-db/qdrant.md#setup)
- [External](https://example.com/docs)
`

func TestParseGuide_frontMatter(t *testing.T) {
	g := ParseGuide("guides/hybrid-search.md", []byte(sampleGuide))
	if g.FrontMatterErr != "" {
		t.Fatalf("front matter error: %s", g.FrontMatterErr)
	}
	if g.FrontMatter.Title != "Hybrid Search" {
		t.Errorf("title = %q", g.FrontMatter.Title)
	}
	if g.FrontMatter.Description == "" {
		t.Error("description missing")
	}
	if g.FrontMatter.Author != "docs-team" {
		t.Errorf("author = %q", g.FrontMatter.Author)
	}
	if g.FrontMatter.Date != "2024-11-02" {
		t.Errorf("date = %q", g.FrontMatter.Date)
	}
	if len(g.FrontMatter.Tags) != 2 || g.FrontMatter.Tags[0] != "vector-db" {
		t.Errorf("tags = %v", g.FrontMatter.Tags)
	}
	if _, ok := g.FrontMatterRaw["author"]; !ok {
		t.Error("raw front matter should preserve all keys")
	}
	if strings.Contains(g.Body, "title:") {
		t.Error("front matter should be stripped from body")
	}
}

func TestParseGuide_headings(t *testing.T) {
	g := ParseGuide("g.md", []byte(sampleGuide))
	if len(g.Headings) != 3 {
		t.Fatalf("headings = %d, want 3", len(g.Headings))
	}
	if g.Headings[0].Level != 1 || g.Headings[0].Text != "Hybrid Search" {
		t.Errorf("first heading: %+v", g.Headings[0])
	}
	if g.Headings[1].Anchor != "score-fusion" {
		t.Errorf("anchor = %q", g.Headings[1].Anchor)
	}
}

func TestParseGuide_links(t *testing.T) {
	g := ParseGuide("g.md", []byte(sampleGuide))
	if len(g.Links) != 4 {
		t.Fatalf("links = %d, want 4 (image excluded)", len(g.Links))
	}
	seeAlso := g.SeeAlso()
	if len(seeAlso) != 3 {
		t.Fatalf("see also links = %d, want 3", len(seeAlso))
	}
	if seeAlso[1].Target != "vector-db/qdrant.md#setup" {
		t.Errorf("see also target = %q", seeAlso[1].Target)
	}
	if g.Links[0].SeeAlso {
		t.Error("intro link should not be marked see-also")
	}
}

func TestParseGuide_fences(t *testing.T) {
	g := ParseGuide("g.md", []byte(sampleGuide))
	if len(g.Fences) != 1 {
		t.Fatalf("fences = %d, want 1", len(g.Fences))
	}
	f := g.Fences[0]
	if f.Language != "python" {
		t.Errorf("language = %q", f.Language)
	}
	if !f.Terminated {
		t.Error("fence should be terminated")
	}
	if !strings.Contains(f.Content, "scores = 0.5") {
		t.Errorf("fence content = %q", f.Content)
	}
}

func TestParseGuide_fenceLineNumbers(t *testing.T) {
	g := ParseGuide("g.md", []byte(sampleGuide))
	// Front matter spans lines 1-9, body starts at line 10.
	if g.BodyStartLine != 10 {
		t.Errorf("body start line = %d, want 10", g.BodyStartLine)
	}
	if g.Fences[0].Line != 17 {
		t.Errorf("fence line = %d, want 17", g.Fences[0].Line)
	}
}

func TestParseGuide_unterminatedFence(t *testing.T) {
	src := "# T\n\n```json\n{\"a\": 1}\n"
	g := ParseGuide("g.md", []byte(src))
	if len(g.Fences) != 1 {
		t.Fatalf("fences = %d", len(g.Fences))
	}
	if g.Fences[0].Terminated {
		t.Error("fence should be unterminated")
	}
}

func TestParseGuide_tildeFence(t *testing.T) {
	src := "~~~yaml\nkey: value\n~~~\n"
	g := ParseGuide("g.md", []byte(src))
	if len(g.Fences) != 1 || g.Fences[0].Language != "yaml" {
		t.Fatalf("tilde fence not recognized: %+v", g.Fences)
	}
}

func TestParseGuide_linksInsideFenceIgnored(t *testing.T) {
	src := "```markdown\n[not a link](target.md)\n```\n"
	g := ParseGuide("g.md", []byte(src))
	if len(g.Links) != 0 {
		t.Errorf("links inside fences should be ignored, got %v", g.Links)
	}
}

func TestParseGuide_brokenFrontMatter(t *testing.T) {
	src := "---\ntitle: [unclosed\n---\n# Body\n"
	g := ParseGuide("g.md", []byte(src))
	if g.FrontMatterErr == "" {
		t.Error("broken front matter should record an error")
	}
	if g.FrontMatter != nil {
		t.Error("typed front matter should be nil on parse failure")
	}
	if !strings.Contains(g.Body, "# Body") {
		t.Error("full text should become the body on parse failure")
	}
}

func TestParseGuide_noFrontMatter(t *testing.T) {
	g := ParseGuide("g.md", []byte("# Only Body\n"))
	if g.FrontMatter != nil || g.FrontMatterErr != "" {
		t.Error("missing front matter is not an error at parse time")
	}
	if g.BodyStartLine != 1 {
		t.Errorf("body start = %d, want 1", g.BodyStartLine)
	}
	if g.Title() != "Only Body" {
		t.Errorf("title should fall back to first H1, got %q", g.Title())
	}
}

func TestParseGuide_bom(t *testing.T) {
	src := "\uFEFF---\ntitle: T\ndescription: D\n---\nbody\n"
	g := ParseGuide("g.md", []byte(src))
	if g.FrontMatter == nil || g.FrontMatter.Title != "T" {
		t.Error("BOM should be stripped before front matter detection")
	}
}

func TestParseGuide_stableID(t *testing.T) {
	a := ParseGuide("guides/x.md", []byte("one"))
	b := ParseGuide("guides/x.md", []byte("two"))
	if a.ID != b.ID {
		t.Error("ID depends only on path, not content")
	}
	if a.ContentHash == b.ContentHash {
		t.Error("content hash should differ")
	}
}

func TestParseGuide_scalarTag(t *testing.T) {
	src := "---\ntitle: T\ndescription: D\ntags: prompts\n---\nbody\n"
	g := ParseGuide("g.md", []byte(src))
	if len(g.FrontMatter.Tags) != 1 || g.FrontMatter.Tags[0] != "prompts" {
		t.Errorf("scalar tag should be promoted to list: %v", g.FrontMatter.Tags)
	}
}
