// Package indexer turns parsed guides into stored, keyword-indexed, and
// vector-indexed documents.
package indexer

import (
	"strings"

	"github.com/google/uuid"

	"github.com/fieldnotes/guidepost/internal/corpus"
	"github.com/fieldnotes/guidepost/internal/models"
)

// Section is a run of body text under one heading.
type Section struct {
	Heading string
	Content string
}

// Chunker splits guide sections into overlapping word-based chunks that carry
// their heading as context.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker creates a chunker with the given size and overlap (in words).
func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	return &Chunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// SectionsFromGuide splits a guide body at its headings. Text before the
// first heading becomes a section with an empty heading.
func SectionsFromGuide(g *corpus.Guide) []Section {
	if len(g.Headings) == 0 {
		body := strings.TrimSpace(g.Body)
		if body == "" {
			return nil
		}
		return []Section{{Content: body}}
	}

	lines := strings.Split(g.Body, "\n")
	var sections []Section
	heading := ""
	var buf []string

	flush := func() {
		content := strings.TrimSpace(strings.Join(buf, "\n"))
		if content != "" || heading != "" {
			sections = append(sections, Section{Heading: heading, Content: content})
		}
		buf = buf[:0]
	}

	// Heading lines are 1-based positions in the source file; body line i
	// sits at file line BodyStartLine+i.
	headingAt := make(map[int]string, len(g.Headings))
	for _, h := range g.Headings {
		headingAt[h.Line] = h.Text
	}

	for i, line := range lines {
		if text, ok := headingAt[g.BodyStartLine+i]; ok {
			flush()
			heading = text
			continue
		}
		buf = append(buf, line)
	}
	flush()
	return sections
}

// Chunk splits sections into DocumentChunks with overlapping word windows.
// Chunk IDs are UUIDs so they are valid point IDs in every vector backend.
func (c *Chunker) Chunk(docID string, sections []Section) []*models.DocumentChunk {
	var chunks []*models.DocumentChunk
	chunkIndex := 0
	step := c.chunkSize - c.chunkOverlap
	if step <= 0 {
		step = 1
	}
	for _, sec := range sections {
		words := strings.Fields(sec.Content)
		if len(words) == 0 {
			if sec.Heading == "" {
				continue
			}
			// A bare heading still marks a searchable entry point.
			words = strings.Fields(sec.Heading)
		}
		for i := 0; i < len(words); i += step {
			end := i + c.chunkSize
			if end > len(words) {
				end = len(words)
			}
			chunks = append(chunks, &models.DocumentChunk{
				ID:         uuid.New().String(),
				DocumentID: docID,
				Heading:    sec.Heading,
				Content:    strings.Join(words[i:end], " "),
				ChunkIndex: chunkIndex,
			})
			chunkIndex++
			if end >= len(words) {
				break
			}
		}
	}
	return chunks
}
