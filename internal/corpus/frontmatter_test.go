package corpus

import "testing"

func TestSplitFrontMatter(t *testing.T) {
	yamlBlock, body, line, ok := splitFrontMatter("---\ntitle: X\n---\nbody here\n")
	if !ok {
		t.Fatal("block should be detected")
	}
	if yamlBlock != "title: X" {
		t.Errorf("block = %q", yamlBlock)
	}
	if body != "body here\n" {
		t.Errorf("body = %q", body)
	}
	if line != 4 {
		t.Errorf("body line = %d, want 4", line)
	}
}

func TestSplitFrontMatter_crlf(t *testing.T) {
	_, body, _, ok := splitFrontMatter("---\r\ntitle: X\r\n---\r\nbody\r\n")
	if !ok {
		t.Fatal("CRLF block should be detected")
	}
	if body != "body\r\n" {
		t.Errorf("body = %q", body)
	}
}

func TestSplitFrontMatter_noClose(t *testing.T) {
	_, body, line, ok := splitFrontMatter("---\ntitle: X\nno close")
	if ok {
		t.Error("unclosed delimiter is not a front matter block")
	}
	if line != 1 || body == "" {
		t.Error("full content should be returned as body")
	}
}

func TestSplitFrontMatter_absent(t *testing.T) {
	_, _, _, ok := splitFrontMatter("# Just a heading\n")
	if ok {
		t.Error("no block expected")
	}
}

func TestParseFrontMatter_types(t *testing.T) {
	raw, fm, err := parseFrontMatter("title: T\ndescription: D\ndate: 2025-01-15\ntags: [a, b]")
	if err != nil {
		t.Fatal(err)
	}
	if fm.Date != "2025-01-15" {
		t.Errorf("date = %q", fm.Date)
	}
	if len(fm.Tags) != 2 {
		t.Errorf("tags = %v", fm.Tags)
	}
	if len(raw) != 4 {
		t.Errorf("raw keys = %d", len(raw))
	}
}

func TestParseFrontMatter_empty(t *testing.T) {
	if _, _, err := parseFrontMatter(""); err == nil {
		t.Error("empty block should error")
	}
}

func TestParseFrontMatter_notMapping(t *testing.T) {
	if _, _, err := parseFrontMatter("- just\n- a list"); err == nil {
		t.Error("non-mapping block should error")
	}
}
