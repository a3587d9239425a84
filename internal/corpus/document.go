// Package corpus loads and parses the Markdown guide corpus: front matter,
// headings, links, and fenced code blocks.
package corpus

import (
	"time"
)

// Guide is one parsed Markdown guide from the corpus.
type Guide struct {
	// ID is the stable document ID derived from Path.
	ID string
	// Path is the corpus-relative path, slash-separated.
	Path string
	// FrontMatter holds the typed metadata block, nil when absent or unparseable.
	FrontMatter *FrontMatter
	// FrontMatterRaw preserves every key of the block, including ones the
	// typed struct does not model.
	FrontMatterRaw map[string]interface{}
	// FrontMatterErr records why the block failed to parse, empty on success.
	// A failed parse is not fatal: the whole file becomes Body and lint reports it.
	FrontMatterErr string
	// Body is the Markdown content after the front matter block.
	Body string
	// BodyStartLine is the 1-based line number in the source file where Body begins.
	BodyStartLine int

	Headings []Heading
	Links    []Link
	Fences   []CodeFence

	// ContentHash is the SHA-256 of the raw file content.
	ContentHash string
	Size        int64
	ModTime     time.Time
}

// FrontMatter is the YAML metadata block of a guide. Title and Description are
// the minimum contract with the documentation-site generator.
type FrontMatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Author      string   `yaml:"author"`
	Date        string   `yaml:"date"`
	Tags        []string `yaml:"tags"`
}

// Heading is an ATX heading in the guide body.
type Heading struct {
	Level  int
	Text   string
	Anchor string
	Line   int
}

// Link is an inline Markdown link in the guide body.
type Link struct {
	Target string
	Text   string
	Line   int
	// SeeAlso marks links that appear under a "See Also" heading.
	SeeAlso bool
}

// CodeFence is a fenced code block in the guide body.
type CodeFence struct {
	// Language is the first word of the info string, lowercased; empty when undeclared.
	Language string
	Content  string
	// Line is the 1-based line number of the opening fence in the source file.
	Line int
	// Terminated reports whether the closing fence was found before EOF.
	Terminated bool
}

// Title returns the guide title: front matter title, else the first H1, else the path.
func (g *Guide) Title() string {
	if g.FrontMatter != nil && g.FrontMatter.Title != "" {
		return g.FrontMatter.Title
	}
	for _, h := range g.Headings {
		if h.Level == 1 {
			return h.Text
		}
	}
	return g.Path
}

// Description returns the front matter description, empty when absent.
func (g *Guide) Description() string {
	if g.FrontMatter == nil {
		return ""
	}
	return g.FrontMatter.Description
}

// Tags returns the front matter tags, nil when absent.
func (g *Guide) Tags() []string {
	if g.FrontMatter == nil {
		return nil
	}
	return g.FrontMatter.Tags
}

// SeeAlso returns the links marked as cross-references.
func (g *Guide) SeeAlso() []Link {
	var out []Link
	for _, l := range g.Links {
		if l.SeeAlso {
			out = append(out, l)
		}
	}
	return out
}
