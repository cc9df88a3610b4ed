// Package lint checks essay front matter and cross-document invariants
// before the corpus is handed to the site generator.
package lint

import (
	"fmt"
	"sort"
	"strings"
)

// Severity ranks lint findings.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single lint finding tied to a source file.
type Issue struct {
	Path     string   `json:"path"`
	Field    string   `json:"field,omitempty"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	if i.Field != "" {
		return fmt.Sprintf("%s: [%s] %s: %s", i.Path, i.Severity, i.Field, i.Message)
	}
	return fmt.Sprintf("%s: [%s] %s", i.Path, i.Severity, i.Message)
}

// Report aggregates findings across a lint run.
type Report struct {
	Issues []Issue `json:"issues"`
	// Checked is the number of documents examined.
	Checked int `json:"checked"`
}

// HasErrors reports whether any finding is severe enough to fail the run.
func (r *Report) HasErrors() bool {
	if r == nil {
		return false
	}
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns findings with error severity.
func (r *Report) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns findings with warning severity.
func (r *Report) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

func (r *Report) filter(severity Severity) []Issue {
	if r == nil {
		return nil
	}
	out := make([]Issue, 0, len(r.Issues))
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			out = append(out, issue)
		}
	}
	return out
}

func (r *Report) add(path, field string, severity Severity, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Path:     path,
		Field:    field,
		Severity: severity,
		Message:  fmt.Sprintf(format, args...),
	})
}

// sortIssues keeps reports deterministic regardless of map iteration order.
func (r *Report) sortIssues() {
	sort.Slice(r.Issues, func(i, j int) bool {
		a, b := r.Issues[i], r.Issues[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Field != b.Field {
			return a.Field < b.Field
		}
		return a.Message < b.Message
	})
}

// Summary renders a single-line digest suitable for CLI output.
func (r *Report) Summary() string {
	if r == nil {
		return "0 documents checked"
	}
	errs := len(r.Errors())
	warns := len(r.Warnings())
	parts := []string{fmt.Sprintf("%d documents checked", r.Checked)}
	if errs > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", errs))
	}
	if warns > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", warns))
	}
	if errs == 0 && warns == 0 {
		parts = append(parts, "clean")
	}
	return strings.Join(parts, ", ")
}
