package lint

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/fieldnotes/guidepost/internal/corpus"
	"github.com/fieldnotes/guidepost/internal/syntax"
)

// Rule IDs. A rule listed in config lint.disabled_rules is skipped.
const (
	RuleFrontMatterPresent  = "front-matter/present"
	RuleFrontMatterValid    = "front-matter/valid"
	RuleFrontMatterRequired = "front-matter/required"
	RuleLinkResolves        = "link/resolves"
	RuleFenceLanguage       = "fence/language"
	RuleFenceSyntax         = "fence/syntax"
	RuleFenceTerminated     = "fence/terminated"
	RuleFenceCompressed     = "fence/compressed"
)

// checkFrontMatter enforces the site-generator contract: a well-formed YAML
// block carrying at least the required fields.
func checkFrontMatter(g *corpus.Guide, required []string, rep *reporter) {
	if g.FrontMatterErr != "" {
		rep.add(Finding{
			Path: g.Path, Line: 1, Rule: RuleFrontMatterValid,
			Severity: SeverityError,
			Message:  fmt.Sprintf("front matter does not parse: %s", g.FrontMatterErr),
		})
		return
	}
	if g.FrontMatter == nil {
		rep.add(Finding{
			Path: g.Path, Line: 1, Rule: RuleFrontMatterPresent,
			Severity: SeverityError,
			Message:  "file has no YAML front matter block",
		})
		return
	}
	for _, field := range required {
		if !frontMatterHas(g, field) {
			rep.add(Finding{
				Path: g.Path, Line: 1, Rule: RuleFrontMatterRequired,
				Severity: SeverityError,
				Message:  fmt.Sprintf("front matter is missing required field %q", field),
			})
		}
	}
}

func frontMatterHas(g *corpus.Guide, field string) bool {
	v, ok := g.FrontMatterRaw[field]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
		return false
	}
	return true
}

// checkLinks verifies every relative link resolves to a file in the corpus.
// exists receives a corpus-relative slash path. Fragments are stripped before
// resolution; external schemes and pure-fragment links are exempt.
func checkLinks(g *corpus.Guide, exists func(rel string) bool, rep *reporter) {
	for _, l := range g.Links {
		target := l.Target
		if isExternalLink(target) {
			continue
		}
		if i := strings.IndexByte(target, '#'); i >= 0 {
			target = target[:i]
		}
		if target == "" {
			// Same-page anchor.
			continue
		}
		resolved := resolveLink(g.Path, target)
		if !exists(resolved) {
			rep.add(Finding{
				Path: g.Path, Line: l.Line, Rule: RuleLinkResolves,
				Severity: SeverityError,
				Message:  fmt.Sprintf("link target %q does not resolve (looked for %s)", l.Target, resolved),
			})
		}
	}
}

func isExternalLink(target string) bool {
	lower := strings.ToLower(target)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "mailto:") ||
		strings.Contains(lower, "://")
}

// resolveLink resolves target against the linking guide's directory.
// A leading "/" is relative to the corpus root.
func resolveLink(fromPath, target string) string {
	if strings.HasPrefix(target, "/") {
		return path.Clean(strings.TrimPrefix(target, "/"))
	}
	return path.Clean(path.Join(path.Dir(fromPath), target))
}

// checkFences verifies each fence declares a language, is terminated, parses
// under its language's checker, and is not a flattened single-line block.
func checkFences(ctx context.Context, g *corpus.Guide, reg *syntax.Registry, compressedThreshold int, rep *reporter) {
	for _, f := range g.Fences {
		if !f.Terminated {
			rep.add(Finding{
				Path: g.Path, Line: f.Line, Rule: RuleFenceTerminated,
				Severity: SeverityError,
				Message:  "code fence is never closed",
			})
		}
		if f.Language == "" {
			rep.add(Finding{
				Path: g.Path, Line: f.Line, Rule: RuleFenceLanguage,
				Severity: SeverityWarning,
				Message:  "code fence does not declare a language",
			})
			continue
		}
		for i, line := range strings.Split(f.Content, "\n") {
			if IsCompressedLine(line, compressedThreshold) {
				rep.add(Finding{
					Path: g.Path, Line: f.Line + 1 + i, Rule: RuleFenceCompressed,
					Severity: SeverityWarning,
					Message:  "code block flattened to one line with literal \\n escapes (run guidepost fix)",
				})
			}
		}
		check, ok := reg.Lookup(f.Language)
		if !ok {
			continue
		}
		if err := check(ctx, []byte(f.Content)); err != nil {
			rep.add(Finding{
				Path: g.Path, Line: f.Line, Rule: RuleFenceSyntax,
				Severity: SeverityError,
				Message:  fmt.Sprintf("%s block does not parse: %v", f.Language, err),
			})
		}
	}
}
