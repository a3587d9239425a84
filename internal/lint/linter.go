package lint

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fieldnotes/guidepost/internal/config"
	"github.com/fieldnotes/guidepost/internal/corpus"
	"github.com/fieldnotes/guidepost/internal/syntax"
	"go.uber.org/zap"
)

// Linter runs all hygiene rules over a corpus.
type Linter struct {
	scanner  *corpus.Scanner
	registry *syntax.Registry
	cfg      *config.LintConfig
	logger   *zap.Logger // optional; when set, logs debug events
}

// LinterOption configures a Linter.
type LinterOption func(*Linter)

// WithLogger sets a logger for debug output (files linted, rule hits).
func WithLogger(l *zap.Logger) LinterOption {
	return func(lin *Linter) { lin.logger = l }
}

// NewLinter creates a linter. registry may be nil to use the built-in checkers.
func NewLinter(scanner *corpus.Scanner, registry *syntax.Registry, cfg *config.LintConfig, opts ...LinterOption) *Linter {
	if registry == nil {
		registry = syntax.NewRegistry()
	}
	lin := &Linter{scanner: scanner, registry: registry, cfg: cfg}
	for _, opt := range opts {
		opt(lin)
	}
	return lin
}

// reporter filters disabled rules before recording findings.
type reporter struct {
	report   *Report
	disabled map[string]bool
}

func (r *reporter) add(f Finding) {
	if r.disabled[f.Rule] {
		return
	}
	r.report.add(f)
}

func (l *Linter) newReporter(rep *Report) *reporter {
	disabled := make(map[string]bool, len(l.cfg.DisabledRules))
	for _, id := range l.cfg.DisabledRules {
		disabled[id] = true
	}
	return &reporter{report: rep, disabled: disabled}
}

// Run lints the whole corpus and returns a report with findings in
// deterministic path/line order.
func (l *Linter) Run(ctx context.Context) (*Report, error) {
	files, err := l.scanner.Files()
	if err != nil {
		return nil, err
	}
	fileSet := make(map[string]bool, len(files))
	for _, f := range files {
		fileSet[f] = true
	}

	report := &Report{Files: len(files)}
	rep := l.newReporter(report)
	for _, rel := range files {
		g, err := l.scanner.Load(rel)
		if err != nil {
			return nil, err
		}
		l.lintGuide(ctx, g, fileSet, rep)
	}
	report.sortFindings()
	return report, nil
}

// LintGuide lints a single parsed guide against the corpus file set.
// Used by the watcher to re-lint one changed file.
func (l *Linter) LintGuide(ctx context.Context, g *corpus.Guide) *Report {
	files, err := l.scanner.Files()
	fileSet := make(map[string]bool, len(files))
	if err == nil {
		for _, f := range files {
			fileSet[f] = true
		}
	}
	report := &Report{Files: 1}
	l.lintGuide(ctx, g, fileSet, l.newReporter(report))
	report.sortFindings()
	return report
}

func (l *Linter) lintGuide(ctx context.Context, g *corpus.Guide, fileSet map[string]bool, rep *reporter) {
	if l.logger != nil {
		l.logger.Debug("linting guide", zap.String("path", g.Path))
	}
	checkFrontMatter(g, l.cfg.RequiredFrontMatter, rep)
	checkLinks(g, func(rel string) bool { return fileSet[rel] || l.fileOnDisk(rel) }, rep)
	checkFences(ctx, g, l.registry, l.cfg.CompressedLineThreshold, rep)
}

// fileOnDisk reports whether rel names an existing file under the corpus
// root. Links may point at non-guide assets (images, data files) that the
// scanner's include globs exclude from the guide set.
func (l *Linter) fileOnDisk(rel string) bool {
	if rel == "" || strings.HasPrefix(rel, "..") {
		return false
	}
	info, err := os.Stat(filepath.Join(l.scanner.Root(), filepath.FromSlash(rel)))
	return err == nil && !info.IsDir()
}
