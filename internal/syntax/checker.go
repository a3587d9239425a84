// Package syntax verifies that fenced code blocks parse as their declared
// language. Parseable, not runnable: the guides' snippets are illustrative,
// so a checker only rejects text the language's grammar cannot accept.
package syntax

import (
	"context"
	"strings"
)

// CheckFunc parses src and returns an error when it is not valid for the language.
type CheckFunc func(ctx context.Context, src []byte) error

// Registry maps fence languages to checkers. Languages without a registered
// checker are skipped by lint, not failed.
type Registry struct {
	checkers map[string]CheckFunc
	aliases  map[string]string
}

// NewRegistry returns a registry with the built-in checkers: python and
// javascript (tree-sitter), json (encoding/json), yaml (yaml.v3).
func NewRegistry() *Registry {
	r := &Registry{
		checkers: make(map[string]CheckFunc),
		aliases: map[string]string{
			"py":      "python",
			"python3": "python",
			"js":      "javascript",
			"node":    "javascript",
			"yml":     "yaml",
		},
	}
	r.Register("python", CheckPython)
	r.Register("javascript", CheckJavaScript)
	r.Register("json", CheckJSON)
	r.Register("yaml", CheckYAML)
	return r
}

// Register adds or replaces the checker for a language.
func (r *Registry) Register(language string, fn CheckFunc) {
	r.checkers[strings.ToLower(language)] = fn
}

// Lookup returns the checker for a language or its alias.
func (r *Registry) Lookup(language string) (CheckFunc, bool) {
	lang := strings.ToLower(language)
	if canonical, ok := r.aliases[lang]; ok {
		lang = canonical
	}
	fn, ok := r.checkers[lang]
	return fn, ok
}

// Languages returns the canonical languages with a registered checker.
func (r *Registry) Languages() []string {
	out := make([]string, 0, len(r.checkers))
	for lang := range r.checkers {
		out = append(out, lang)
	}
	return out
}
