package lint

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-essays/pkg/interfaces"
)

func newDoc(path string, fm interfaces.FrontMatter, links ...interfaces.Link) *interfaces.Document {
	return &interfaces.Document{
		FilePath:    path,
		FrontMatter: fm,
		Links:       links,
	}
}

func validFrontMatter(title, slug string) interfaces.FrontMatter {
	return interfaces.FrontMatter{
		Title: title,
		Slug:  slug,
		Date:  time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC),
	}
}

func mustLinter(t *testing.T, cfg Config) *Linter {
	t.Helper()
	l, err := New(cfg)
	if err != nil {
		t.Fatalf("new linter: %v", err)
	}
	return l
}

func runLint(t *testing.T, l *Linter, docs ...*interfaces.Document) *Report {
	t.Helper()
	report, err := l.Run(context.Background(), docs)
	if err != nil {
		t.Fatalf("lint run: %v", err)
	}
	return report
}

func hasIssue(report *Report, field, fragment string) bool {
	for _, issue := range report.Issues {
		if issue.Field == field && strings.Contains(issue.Message, fragment) {
			return true
		}
	}
	return false
}

func TestLintCleanCorpus(t *testing.T) {
	l := mustLinter(t, Config{})
	report := runLint(t, l,
		newDoc("errors-as-values.md", validFrontMatter("Errors As Values", "errors-as-values")),
		newDoc("pipelines.md", validFrontMatter("Pipelines", "pipelines")),
	)
	if report.HasErrors() || len(report.Issues) != 0 {
		t.Fatalf("expected clean report, got %v", report.Issues)
	}
	if report.Checked != 2 {
		t.Fatalf("expected 2 checked, got %d", report.Checked)
	}
}

func TestLintMissingTitle(t *testing.T) {
	l := mustLinter(t, Config{})
	fm := validFrontMatter("", "untitled")
	report := runLint(t, l, newDoc("untitled.md", fm))
	if !hasIssue(report, "title", "title is required") {
		t.Fatalf("expected title issue, got %v", report.Issues)
	}
}

func TestLintMissingDate(t *testing.T) {
	l := mustLinter(t, Config{})

	fm := interfaces.FrontMatter{Title: "No Date", Slug: "no-date"}
	report := runLint(t, l, newDoc("no-date.md", fm))
	if !hasIssue(report, "date", "date is required") {
		t.Fatalf("expected date issue, got %v", report.Issues)
	}

	// drafts may omit the date
	fm.Draft = true
	report = runLint(t, l, newDoc("no-date.md", fm))
	if report.HasErrors() {
		t.Fatalf("expected draft without date to pass, got %v", report.Issues)
	}
}

func TestLintDuplicateEntriesWithinPost(t *testing.T) {
	l := mustLinter(t, Config{})

	fm := validFrontMatter("Doubles", "doubles")
	fm.Categories = []string{"languages", "Languages"}
	fm.Aliases = []string{"/old/doubles.html", "/old/doubles.html"}

	report := runLint(t, l, newDoc("doubles.md", fm))
	if !hasIssue(report, "categories", "duplicate entry") {
		t.Fatalf("expected duplicate category warning, got %v", report.Issues)
	}
	if !hasIssue(report, "aliases", "duplicate entry") {
		t.Fatalf("expected duplicate alias warning, got %v", report.Issues)
	}
	if report.HasErrors() {
		t.Fatalf("duplicates should be warnings, got errors: %v", report.Issues)
	}
}

func TestLintSlugDerivedFromFilename(t *testing.T) {
	l := mustLinter(t, Config{})
	fm := validFrontMatter("From Filename", "")
	report := runLint(t, l, newDoc("essays/from-filename.md", fm))
	if report.HasErrors() {
		t.Fatalf("expected filename-derived slug to pass, got %v", report.Issues)
	}
}

func TestLintDuplicateSlugs(t *testing.T) {
	l := mustLinter(t, Config{})
	report := runLint(t, l,
		newDoc("a.md", validFrontMatter("A", "shared-slug")),
		newDoc("b.md", validFrontMatter("B", "shared-slug")),
	)
	if !hasIssue(report, "slug", "already used by a.md") {
		t.Fatalf("expected duplicate slug issue, got %v", report.Issues)
	}
}

func TestLintAliasRules(t *testing.T) {
	l := mustLinter(t, Config{})

	fmRelative := validFrontMatter("Relative", "relative")
	fmRelative.Aliases = []string{"old/path.html"}
	report := runLint(t, l, newDoc("relative.md", fmRelative))
	if !hasIssue(report, "aliases", "absolute path") {
		t.Fatalf("expected relative alias issue, got %v", report.Issues)
	}

	fmA := validFrontMatter("A", "a")
	fmA.Aliases = []string{"/2019/old.html"}
	fmB := validFrontMatter("B", "b")
	fmB.Aliases = []string{"/2019/old.html"}
	report = runLint(t, l, newDoc("a.md", fmA), newDoc("b.md", fmB))
	if !hasIssue(report, "aliases", "already claimed by a.md") {
		t.Fatalf("expected alias collision issue, got %v", report.Issues)
	}

	fmShadow := validFrontMatter("Shadow", "shadow")
	fmShadow.Aliases = []string{"/posts/a"}
	report = runLint(t, l, newDoc("a.md", validFrontMatter("A", "a")), newDoc("shadow.md", fmShadow))
	if !hasIssue(report, "aliases", "shadows post a.md") {
		t.Fatalf("expected alias shadow issue, got %v", report.Issues)
	}

	fmSelf := validFrontMatter("Self", "self")
	fmSelf.Aliases = []string{"/posts/self"}
	report = runLint(t, l, newDoc("self.md", fmSelf))
	if !hasIssue(report, "aliases", "canonical path") {
		t.Fatalf("expected self alias issue, got %v", report.Issues)
	}
}

func TestLintCategoryVocabulary(t *testing.T) {
	l := mustLinter(t, Config{Categories: []string{"languages", "tooling"}})

	fm := validFrontMatter("Known", "known")
	fm.Categories = []string{"Languages"}
	report := runLint(t, l, newDoc("known.md", fm))
	if report.HasErrors() {
		t.Fatalf("expected known category to pass, got %v", report.Issues)
	}

	fm = validFrontMatter("Unknown", "unknown")
	fm.Categories = []string{"gardening"}
	report = runLint(t, l, newDoc("unknown.md", fm))
	if !hasIssue(report, "categories", "unknown category") {
		t.Fatalf("expected unknown category issue, got %v", report.Issues)
	}
}

func TestLintInternalLinks(t *testing.T) {
	l := mustLinter(t, Config{})

	target := newDoc("pipelines.md", validFrontMatter("Pipelines", "pipelines"))
	source := newDoc("errors.md", validFrontMatter("Errors", "errors"),
		interfaces.Link{Destination: "/posts/pipelines"},
		interfaces.Link{Destination: "pipelines.md"},
		interfaces.Link{Destination: "https://example.com/elsewhere"},
		interfaces.Link{Destination: "#local-heading"},
	)
	report := runLint(t, l, target, source)
	if report.HasErrors() {
		t.Fatalf("expected resolvable links, got %v", report.Issues)
	}

	broken := newDoc("broken.md", validFrontMatter("Broken", "broken"),
		interfaces.Link{Destination: "/posts/missing"},
	)
	report = runLint(t, l, broken)
	if !hasIssue(report, "links", "does not resolve") {
		t.Fatalf("expected broken link issue, got %v", report.Issues)
	}
}

func TestLintAliasLinksResolve(t *testing.T) {
	l := mustLinter(t, Config{})

	fm := validFrontMatter("Target", "target")
	fm.Aliases = []string{"/2019/target.html"}
	target := newDoc("target.md", fm)
	source := newDoc("source.md", validFrontMatter("Source", "source"),
		interfaces.Link{Destination: "/2019/target.html"},
	)
	report := runLint(t, l, target, source)
	if report.HasErrors() {
		t.Fatalf("expected alias link to resolve, got %v", report.Issues)
	}
}

func TestLintExternalLinksWarning(t *testing.T) {
	l := mustLinter(t, Config{ExternalLinks: true})
	doc := newDoc("a.md", validFrontMatter("A", "a"),
		interfaces.Link{Destination: "https://example.com"},
	)
	report := runLint(t, l, doc)
	if report.HasErrors() {
		t.Fatalf("external links must not fail the run, got %v", report.Errors())
	}
	if len(report.Warnings()) != 1 {
		t.Fatalf("expected one warning, got %v", report.Issues)
	}
}

func TestLintMetadataSchema(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"series": map[string]any{"type": "string"},
		},
		"additionalProperties": false,
	}
	l := mustLinter(t, Config{MetadataSchema: schema})

	fm := validFrontMatter("With Series", "with-series")
	fm.Custom = map[string]any{"series": "error-handling"}
	report := runLint(t, l, newDoc("a.md", fm))
	if report.HasErrors() {
		t.Fatalf("expected valid metadata, got %v", report.Issues)
	}

	fm = validFrontMatter("Bad Series", "bad-series")
	fm.Custom = map[string]any{"series": 42}
	report = runLint(t, l, newDoc("b.md", fm))
	if !report.HasErrors() {
		t.Fatalf("expected metadata type issue, got %v", report.Issues)
	}

	fm = validFrontMatter("Extra Key", "extra-key")
	fm.Custom = map[string]any{"unexpected": true}
	report = runLint(t, l, newDoc("c.md", fm))
	if !report.HasErrors() {
		t.Fatalf("expected additionalProperties issue, got %v", report.Issues)
	}
}

func TestLintInvalidSchemaRejected(t *testing.T) {
	_, err := New(Config{MetadataSchema: map[string]any{"type": "not-a-type"}})
	if err == nil {
		t.Fatalf("expected schema compile error")
	}
}

func TestLintReportSummary(t *testing.T) {
	l := mustLinter(t, Config{})
	report := runLint(t, l, newDoc("a.md", validFrontMatter("A", "a")))
	if got := report.Summary(); got != "1 documents checked, clean" {
		t.Fatalf("unexpected summary %q", got)
	}
}
