package corpus

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCorpus(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestScanner_Files(t *testing.T) {
	root := writeCorpus(t, map[string]string{
		"prompts/index.md":         "# Prompts\n",
		"vector-db/qdrant.md":      "# Qdrant\n",
		"n8n/webhooks.md":          "# Webhooks\n",
		"README.txt":               "not markdown",
		"drafts/wip.md":            "# WIP\n",
		"node_modules/dep/page.md": "# Vendored\n",
	})
	s := NewScanner(root, nil, []string{"drafts/**", "**/node_modules/**", "node_modules/**"})
	files, err := s.Files()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"n8n/webhooks.md", "prompts/index.md", "vector-db/qdrant.md"}
	if len(files) != len(want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %s, want %s (sorted order)", i, files[i], want[i])
		}
	}
}

func TestScanner_Match(t *testing.T) {
	s := NewScanner("/corpus", []string{"**/*.md"}, []string{"drafts/**"})
	if !s.Match("guides/rag.md") {
		t.Error("markdown under root should match")
	}
	if s.Match("guides/rag.txt") {
		t.Error("non-markdown should not match")
	}
	if s.Match("drafts/wip.md") {
		t.Error("excluded path should not match")
	}
}

func TestScanner_MatchAbs(t *testing.T) {
	s := NewScanner("/corpus", nil, nil)
	if !s.MatchAbs("/corpus/a/b.md") {
		t.Error("abs path under root should match")
	}
	if s.MatchAbs("/elsewhere/b.md") {
		t.Error("path outside root should not match")
	}
}

func TestScanner_Scan(t *testing.T) {
	root := writeCorpus(t, map[string]string{
		"a.md": "---\ntitle: A\ndescription: first\n---\nbody a\n",
		"b.md": "---\ntitle: B\ndescription: second\n---\nbody b\n",
	})
	s := NewScanner(root, nil, nil)
	guides, err := s.Scan()
	if err != nil {
		t.Fatal(err)
	}
	if len(guides) != 2 {
		t.Fatalf("guides = %d", len(guides))
	}
	if guides[0].FrontMatter.Title != "A" || guides[1].FrontMatter.Title != "B" {
		t.Error("guides should come back in path order")
	}
	if guides[0].Size == 0 || guides[0].ModTime.IsZero() {
		t.Error("file size and mtime should be recorded")
	}
}

func TestScanner_missingRoot(t *testing.T) {
	s := NewScanner(filepath.Join(t.TempDir(), "nope"), nil, nil)
	if _, err := s.Files(); err == nil {
		t.Error("missing root should error")
	}
}
