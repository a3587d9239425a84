// Package cli renders command output for the guidepost binary.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fieldnotes/guidepost/internal/lint"
	"github.com/fieldnotes/guidepost/internal/models"
	"github.com/fieldnotes/guidepost/pkg/utils"
)

// OutputFormat selects how command results are rendered.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteSearchResults writes search results to w in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, response)
	}
	writeSearchResultsText(w, response)
	return nil
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse) {
	total := response.TotalNonSemantic + response.TotalSemantic
	fmt.Fprintf(w, "\nFound %d results in %dms (%d keyword, %d semantic-only)\n",
		total, response.QueryTime, response.TotalNonSemantic, response.TotalSemantic)
	if response.AutoFuzzy {
		fmt.Fprintln(w, "No exact matches; showing fuzzy results.")
	}
	fmt.Fprintln(w)
	if len(response.NonSemanticResults) > 0 {
		fmt.Fprintln(w, "--- Keyword results ---")
		for _, result := range response.NonSemanticResults {
			writeOneResult(w, result, "keyword")
		}
	}
	if len(response.SemanticResults) > 0 {
		fmt.Fprintln(w, "--- Semantic results ---")
		for _, result := range response.SemanticResults {
			writeOneResult(w, result, "semantic")
		}
	}
}

func writeOneResult(w io.Writer, result *models.SearchResult, source string) {
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "[%s] Rank: %d | Score: %.4f (Keyword: %.4f, Semantic: %.4f)\n",
		source, result.Rank, result.Score, result.KeywordScore, result.SemanticScore)
	fmt.Fprintf(w, "Path: %s\n", result.Document.Path)
	if result.Document.Title != "" {
		fmt.Fprintf(w, "Title: %s\n", result.Document.Title)
	}
	if result.BestHeading != "" {
		fmt.Fprintf(w, "Section: %s\n", result.BestHeading)
	}
	if result.Document.Description != "" {
		fmt.Fprintf(w, "%s\n", result.Document.Description)
	} else {
		fmt.Fprintf(w, "%s\n", utils.Truncate(result.Document.Content, 200))
	}
	fmt.Fprintln(w)
}

// WriteLintReport writes a lint report to w in the given format.
func WriteLintReport(w io.Writer, report *lint.Report, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, report)
	}
	for _, f := range report.Findings {
		fmt.Fprintf(w, "%s:%d: %s: %s (%s)\n", f.Path, f.Line, f.Severity, f.Message, f.Rule)
	}
	fmt.Fprintf(w, "\n%d files checked: %d errors, %d warnings\n",
		report.Files, report.Errors, report.Warnings)
	return nil
}

// WriteFixResults writes fix results to w in the given format. The dryRun
// flag adjusts the wording so a preview is not mistaken for applied changes.
func WriteFixResults(w io.Writer, results []*lint.FixResult, dryRun bool, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, map[string]interface{}{"dry_run": dryRun, "results": results})
	}
	verb := "fixed"
	if dryRun {
		verb = "would fix"
	}
	changed := 0
	for _, r := range results {
		if !r.Changed {
			continue
		}
		changed++
		fmt.Fprintf(w, "%s: %s (%d -> %d lines)\n", verb, r.Path, r.LinesIn, r.LinesOut)
	}
	fmt.Fprintf(w, "\n%d of %d files %s\n", changed, len(results), verb)
	return nil
}
