// Package lint runs documentation hygiene checks over the guide corpus:
// front matter, cross-reference links, and fenced code blocks.
package lint

import "sort"

// Severity classifies a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one hygiene violation in one file.
type Finding struct {
	Path     string   `json:"path"`
	Line     int      `json:"line"`
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Report is the outcome of a lint run.
type Report struct {
	Findings []Finding `json:"findings"`
	Files    int       `json:"files"`
	Errors   int       `json:"errors"`
	Warnings int       `json:"warnings"`
}

func (r *Report) add(f Finding) {
	r.Findings = append(r.Findings, f)
	switch f.Severity {
	case SeverityError:
		r.Errors++
	case SeverityWarning:
		r.Warnings++
	}
}

// HasErrors reports whether any error-severity finding was recorded.
func (r *Report) HasErrors() bool { return r.Errors > 0 }

// sortFindings orders findings by path then line for deterministic output.
func (r *Report) sortFindings() {
	sort.Slice(r.Findings, func(i, j int) bool {
		if r.Findings[i].Path != r.Findings[j].Path {
			return r.Findings[i].Path < r.Findings[j].Path
		}
		if r.Findings[i].Line != r.Findings[j].Line {
			return r.Findings[i].Line < r.Findings[j].Line
		}
		return r.Findings[i].Rule < r.Findings[j].Rule
	})
}
