package utils

import "testing"

func TestTruncate(t *testing.T) {
	if Truncate("hello", 10) != "hello" {
		t.Error("short string unchanged")
	}
	if Truncate("hello world", 5) != "hello..." {
		t.Errorf("got %s", Truncate("hello world", 5))
	}
	if Truncate("x", 0) != "x" {
		t.Error("maxLen 0 returns as-is")
	}
}

func TestTruncateWords(t *testing.T) {
	if TruncateWords("one two three", 5) != "one two three" {
		t.Error("short string unchanged")
	}
	if TruncateWords("one two three", 2) != "one two..." {
		t.Errorf("got %s", TruncateWords("one two three", 2))
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"See Also":                "see-also",
		"Prompt Engineering 101":  "prompt-engineering-101",
		"  Hybrid Search & RAG  ": "hybrid-search--rag",
		"n8n_workflows":           "n8n-workflows",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCollapseWhitespace(t *testing.T) {
	if CollapseWhitespace("  a \n\t b  ") != "a b" {
		t.Error("expected trimmed and collapsed spaces")
	}
}
