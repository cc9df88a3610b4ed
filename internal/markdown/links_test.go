package markdown

import (
	"strings"
	"testing"
)

func TestExtractLinks(t *testing.T) {
	data := readFixture(t, "testdata/basic.md")
	_, body, err := ParseFrontMatter(data)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}

	links, err := ExtractLinks(body)
	if err != nil {
		t.Fatalf("ExtractLinks: %v", err)
	}

	var destinations []string
	imageCount := 0
	for _, link := range links {
		destinations = append(destinations, link.Destination)
		if link.Image {
			imageCount++
		}
	}

	for _, want := range []string{
		"/posts/types-as-contracts",
		"checked-exceptions.md",
		"https://doc.rust-lang.org/book/ch09-00-error-handling.html",
		"/images/errors-call-graph.png",
	} {
		found := false
		for _, dest := range destinations {
			if dest == want {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected destination %q in %v", want, destinations)
		}
	}

	if imageCount != 1 {
		t.Fatalf("expected exactly one image link, got %d", imageCount)
	}
}

func TestExcerptSkipsCodeBlocks(t *testing.T) {
	data := readFixture(t, "testdata/basic.md")
	_, body, err := ParseFrontMatter(data)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}

	excerpt, err := Excerpt(body, 80)
	if err != nil {
		t.Fatalf("Excerpt: %v", err)
	}

	if excerpt == "" {
		t.Fatalf("expected a non-empty excerpt")
	}
	if strings.Contains(excerpt, "fizzbuzz") {
		t.Fatalf("excerpt should not include code block content: %q", excerpt)
	}
	if strings.Contains(excerpt, "\n") {
		t.Fatalf("excerpt should be single-line: %q", excerpt)
	}
}

func TestExcerptTruncates(t *testing.T) {
	excerpt, err := Excerpt([]byte("one two three four five six seven eight"), 10)
	if err != nil {
		t.Fatalf("Excerpt: %v", err)
	}
	if len([]rune(excerpt)) > 11 {
		t.Fatalf("excerpt exceeds limit: %q", excerpt)
	}
	if !strings.HasSuffix(excerpt, "…") {
		t.Fatalf("truncated excerpt should end with ellipsis: %q", excerpt)
	}
}
