package lint

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fieldnotes/guidepost/internal/corpus"
	"go.uber.org/zap"
)

// Guides sometimes arrive with fenced code blocks flattened into a single
// line whose newlines were serialized as literal \n escapes (an artifact of
// passing Markdown through JSON-emitting pipelines). Fixer expands those
// blocks back into real lines. The repair is idempotent: an already-expanded
// block contains no qualifying lines.

// gluedFenceRe matches a fence opener with code glued onto the same line,
// either through real whitespace ("```python import os\n...") or directly
// through a literal \n escape ("```python\nimport os\n..."), the shape a
// fully flattened block arrives in. Group 1 is any prefix text, group 2 the
// language, group 3 the glued code.
var gluedFenceRe = regexp.MustCompile("^(.*?)```([A-Za-z0-9_+-]+)(?:\\s+|\\\\n)(\\S.*)$")

// FixResult describes the outcome for one file.
type FixResult struct {
	Path     string `json:"path"`
	LinesIn  int    `json:"lines_in"`
	LinesOut int    `json:"lines_out"`
	Changed  bool   `json:"changed"`
}

// Fixer repairs flattened code blocks across the corpus.
type Fixer struct {
	scanner   *corpus.Scanner
	threshold int
	logger    *zap.Logger // optional
}

// FixerOption configures a Fixer.
type FixerOption func(*Fixer)

// WithFixLogger sets a logger for debug output.
func WithFixLogger(l *zap.Logger) FixerOption {
	return func(f *Fixer) { f.logger = l }
}

// NewFixer creates a fixer. threshold is the minimum line length before a
// line containing literal \n escapes is treated as flattened.
func NewFixer(scanner *corpus.Scanner, threshold int, opts ...FixerOption) *Fixer {
	f := &Fixer{scanner: scanner, threshold: threshold}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run fixes every guide in the corpus. When write is false (dry run), files
// are not touched and results report what would change.
func (f *Fixer) Run(write bool) ([]*FixResult, error) {
	files, err := f.scanner.Files()
	if err != nil {
		return nil, err
	}
	results := make([]*FixResult, 0, len(files))
	for _, rel := range files {
		res, err := f.FixFile(rel, write)
		if err != nil {
			return nil, fmt.Errorf("fix %s: %w", rel, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// FixFile repairs one guide by corpus-relative path.
func (f *Fixer) FixFile(relPath string, write bool) (*FixResult, error) {
	full := filepath.Join(f.scanner.Root(), filepath.FromSlash(relPath))
	content, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	fixed, changed := FixContent(string(content), f.threshold)
	res := &FixResult{
		Path:     relPath,
		LinesIn:  strings.Count(string(content), "\n"),
		LinesOut: strings.Count(fixed, "\n"),
		Changed:  changed,
	}
	if changed && write {
		info, statErr := os.Stat(full)
		mode := os.FileMode(0644)
		if statErr == nil {
			mode = info.Mode()
		}
		if err := os.WriteFile(full, []byte(fixed), mode); err != nil {
			return nil, fmt.Errorf("write file: %w", err)
		}
	}
	if f.logger != nil && changed {
		f.logger.Debug("fixed flattened code block",
			zap.String("path", relPath),
			zap.Int("lines_in", res.LinesIn),
			zap.Int("lines_out", res.LinesOut),
			zap.Bool("written", write))
	}
	return res, nil
}

// FixContent expands flattened code blocks in a Markdown document and reports
// whether anything changed.
func FixContent(content string, threshold int) (string, bool) {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	changed := false
	inFence := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case !inFence && isPureFenceOpener(trimmed):
			inFence = true
			out = append(out, line)
		case inFence && strings.HasPrefix(trimmed, "```"):
			inFence = false
			out = append(out, line)
		case !inFence && hasGluedFence(line):
			// Opener with code glued on: split into opener plus expanded body.
			// A fully flattened block carries its own closer, so the fence may
			// already be closed after expansion.
			m := gluedFenceRe.FindStringSubmatch(line)
			if prefix := strings.TrimRight(m[1], " "); prefix != "" {
				out = append(out, prefix)
			}
			out = append(out, "```"+m[2])
			body := expandCompressed(m[3])
			out = append(out, body...)
			inFence = true
			if len(body) > 0 && strings.HasPrefix(strings.TrimSpace(body[len(body)-1]), "```") {
				inFence = false
			}
			changed = true
		case inFence && IsCompressedLine(line, threshold):
			out = append(out, expandCompressed(line)...)
			changed = true
		default:
			out = append(out, line)
		}
	}

	if !changed {
		return content, false
	}
	return strings.Join(out, "\n"), true
}

// IsCompressedLine reports whether line looks like a flattened code block:
// literal \n escapes and longer than threshold.
func IsCompressedLine(line string, threshold int) bool {
	if threshold <= 0 {
		threshold = 150
	}
	return len(line) > threshold && strings.Contains(line, `\n`)
}

// isPureFenceOpener reports whether trimmed is a fence opener with nothing
// but an info string (no glued code, no \n escapes hiding a flattened body).
func isPureFenceOpener(trimmed string) bool {
	if !strings.HasPrefix(trimmed, "```") {
		return false
	}
	rest := strings.TrimLeft(trimmed, "`")
	return !strings.ContainsAny(rest, " \t") && !strings.Contains(rest, `\n`)
}

// hasGluedFence reports whether line carries a fence opener with code on the
// same line.
func hasGluedFence(line string) bool {
	return gluedFenceRe.MatchString(line)
}

// expandCompressed splits a flattened line on literal \n escapes into real
// lines, unescaping \" along the way. Empty segments become blank lines.
func expandCompressed(line string) []string {
	parts := strings.Split(line, `\n`)
	out := make([]string, 0, len(parts))
	for i, part := range parts {
		if part == "" {
			if i < len(parts)-1 {
				out = append(out, "")
			}
			continue
		}
		out = append(out, strings.ReplaceAll(part, `\"`, `"`))
	}
	return out
}
