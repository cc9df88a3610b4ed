package markdown

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestParseFrontMatter(t *testing.T) {
	data := readFixture(t, "testdata/basic.md")

	fm, body, err := ParseFrontMatter(data)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}

	if fm.Title != "Errors As Values" {
		t.Fatalf("FrontMatter Title mismatch, got %q", fm.Title)
	}
	if fm.Slug != "errors-as-values" {
		t.Fatalf("FrontMatter Slug mismatch, got %q", fm.Slug)
	}
	if fm.Date.IsZero() || fm.Date.Year() != 2024 {
		t.Fatalf("FrontMatter Date mismatch: %v", fm.Date)
	}
	if len(fm.Categories) != 2 || fm.Categories[0] != "languages" {
		t.Fatalf("FrontMatter Categories mismatch: %#v", fm.Categories)
	}
	if len(fm.Aliases) != 1 || fm.Aliases[0] != "/2019/05/errors-as-values.html" {
		t.Fatalf("FrontMatter Aliases mismatch: %#v", fm.Aliases)
	}
	if fm.Custom["series"] != "error-handling" {
		t.Fatalf("FrontMatter Custom series missing: %#v", fm.Custom)
	}
	if fm.Raw["summary"] == nil {
		t.Fatalf("FrontMatter Raw summary missing: %#v", fm.Raw)
	}
	if fm.Draft {
		t.Fatalf("expected Draft to default to false")
	}
	if len(body) == 0 || !strings.Contains(string(body), "# Errors As Values") {
		t.Fatalf("Markdown body not returned correctly: %q", string(body))
	}
}

func TestBuildDocument(t *testing.T) {
	data := readFixture(t, "testdata/basic.md")
	modified := time.Now().UTC()

	doc, err := BuildDocument("testdata/basic.md", data, modified)
	if err != nil {
		t.Fatalf("BuildDocument: %v", err)
	}

	if doc.FilePath != "testdata/basic.md" {
		t.Fatalf("expected FilePath to be set, got %q", doc.FilePath)
	}
	if doc.LastModified != modified {
		t.Fatalf("expected LastModified to equal the provided timestamp")
	}
	if len(doc.Body) == 0 {
		t.Fatalf("expected Body to contain markdown content")
	}
	if len(doc.Links) == 0 {
		t.Fatalf("expected Links to be populated from the body")
	}
}

func readFixture(tb testing.TB, path string) []byte {
	tb.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("read fixture %s: %v", path, err)
	}
	return data
}
