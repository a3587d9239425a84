package corpus

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fieldnotes/guidepost/internal/docid"
	"github.com/fieldnotes/guidepost/pkg/utils"
)

var (
	headingRe = regexp.MustCompile(`^(#{1,6})\s+(.*?)\s*#*\s*$`)
	// Inline links; the image form ![alt](src) is excluded by the scanner.
	linkRe = regexp.MustCompile(`\[([^\]]*)\]\(\s*([^)\s]+)(?:\s+"[^"]*")?\s*\)`)
)

// ParseGuide parses raw Markdown into a Guide. Parsing never fails: a broken
// front matter block is recorded in FrontMatterErr and the full text becomes
// the body, so lint can report it and indexing can still proceed.
func ParseGuide(relPath string, content []byte) *Guide {
	text := strings.TrimPrefix(string(content), "\uFEFF")

	hash := sha256.Sum256(content)
	g := &Guide{
		ID:          docid.GuideID(relPath),
		Path:        filepath.ToSlash(relPath),
		ContentHash: hex.EncodeToString(hash[:]),
	}

	yamlBlock, body, bodyLine, hasBlock := splitFrontMatter(text)
	g.Body = body
	g.BodyStartLine = bodyLine
	if hasBlock {
		raw, fm, err := parseFrontMatter(yamlBlock)
		if err != nil {
			g.FrontMatterErr = err.Error()
			g.Body = text
			g.BodyStartLine = 1
		} else {
			g.FrontMatterRaw = raw
			g.FrontMatter = fm
		}
	}

	scanBody(g)
	return g
}

// LoadGuide reads and parses the guide at relPath under root, recording file size and mtime.
func LoadGuide(root, relPath string) (*Guide, error) {
	full := filepath.Join(root, relPath)
	info, err := os.Stat(full)
	if err != nil {
		return nil, fmt.Errorf("stat guide: %w", err)
	}
	content, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("read guide: %w", err)
	}
	g := ParseGuide(relPath, content)
	g.Size = info.Size()
	g.ModTime = info.ModTime()
	return g, nil
}

// scanBody walks the body line by line collecting headings, links, and fences.
// Links inside code fences are ignored. Links under a "See Also" heading are
// marked as cross-references.
func scanBody(g *Guide) {
	lines := strings.Split(g.Body, "\n")

	var (
		inFence    bool
		fenceChar  byte
		fenceLen   int
		fenceStart int
		fenceLang  string
		fenceBody  []string
		inSeeAlso  bool
	)

	closeFence := func(terminated bool) {
		g.Fences = append(g.Fences, CodeFence{
			Language:   fenceLang,
			Content:    strings.Join(fenceBody, "\n"),
			Line:       fenceStart,
			Terminated: terminated,
		})
		inFence = false
		fenceBody = nil
	}

	for i, line := range lines {
		srcLine := g.BodyStartLine + i

		if inFence {
			if isClosingFence(line, fenceChar, fenceLen) {
				closeFence(true)
			} else {
				fenceBody = append(fenceBody, line)
			}
			continue
		}

		if ch, n, info, ok := parseFenceOpener(line); ok {
			inFence = true
			fenceChar = ch
			fenceLen = n
			fenceStart = srcLine
			fenceLang = fenceLanguage(info)
			continue
		}

		if m := headingRe.FindStringSubmatch(line); m != nil {
			text := strings.TrimSpace(m[2])
			g.Headings = append(g.Headings, Heading{
				Level:  len(m[1]),
				Text:   text,
				Anchor: utils.Slugify(text),
				Line:   srcLine,
			})
			inSeeAlso = strings.EqualFold(text, "see also")
			continue
		}

		for _, lm := range linkRe.FindAllStringSubmatchIndex(line, -1) {
			// Skip the image form: a '!' immediately before the bracket.
			if lm[0] > 0 && line[lm[0]-1] == '!' {
				continue
			}
			g.Links = append(g.Links, Link{
				Text:    line[lm[2]:lm[3]],
				Target:  line[lm[4]:lm[5]],
				Line:    srcLine,
				SeeAlso: inSeeAlso,
			})
		}
	}

	if inFence {
		closeFence(false)
	}
}

// parseFenceOpener reports whether line opens a code fence (``` or ~~~, three
// or more, up to three leading spaces) and returns the fence char, its run
// length, and the info string.
func parseFenceOpener(line string) (ch byte, n int, info string, ok bool) {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 || trimmed == "" {
		return 0, 0, "", false
	}
	c := trimmed[0]
	if c != '`' && c != '~' {
		return 0, 0, "", false
	}
	i := 0
	for i < len(trimmed) && trimmed[i] == c {
		i++
	}
	if i < 3 {
		return 0, 0, "", false
	}
	rest := strings.TrimSpace(trimmed[i:])
	// An info string containing the fence char is not an opener (e.g. ``a``).
	if c == '`' && strings.ContainsRune(rest, '`') {
		return 0, 0, "", false
	}
	return c, i, rest, true
}

// isClosingFence reports whether line closes a fence opened with ch repeated openLen times.
func isClosingFence(line string, ch byte, openLen int) bool {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return false
	}
	i := 0
	for i < len(trimmed) && trimmed[i] == ch {
		i++
	}
	return i >= openLen && strings.TrimSpace(trimmed[i:]) == ""
}

// fenceLanguage returns the first word of the info string, lowercased.
func fenceLanguage(info string) string {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}
