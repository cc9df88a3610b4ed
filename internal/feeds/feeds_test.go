package feeds

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-essays/domain"
	internalposts "github.com/goliatone/go-essays/internal/posts"
	"github.com/goliatone/go-essays/posts"
)

func newTestBuilder(t *testing.T, cfg Config) (*Builder, posts.Service) {
	t.Helper()
	svc := internalposts.NewService(internalposts.NewMemoryRepository())
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://essays.example.com"
	}
	if cfg.Title == "" {
		cfg.Title = "Essays"
	}
	builder, err := NewBuilder(cfg, svc)
	if err != nil {
		t.Fatalf("new builder: %v", err)
	}
	return builder, svc
}

func publish(t *testing.T, svc posts.Service, slug string, published time.Time, input posts.CreatePostInput) {
	t.Helper()
	input.Slug = slug
	if input.Title == "" {
		input.Title = "Post " + slug
	}
	if input.Body == "" {
		input.Body = "Body for " + slug
	}
	input.Status = domain.StatusPublished
	input.PublishedAt = &published
	if _, err := svc.CreatePost(context.Background(), input); err != nil {
		t.Fatalf("create %s: %v", slug, err)
	}
}

func TestBuilderRequiresConfig(t *testing.T) {
	svc := internalposts.NewService(internalposts.NewMemoryRepository())
	if _, err := NewBuilder(Config{BaseURL: "https://x.test"}, nil); err != ErrPostServiceRequired {
		t.Fatalf("expected post service error, got %v", err)
	}
	if _, err := NewBuilder(Config{}, svc); err != ErrBaseURLRequired {
		t.Fatalf("expected base URL error, got %v", err)
	}
}

func TestBuildOrdersNewestFirst(t *testing.T) {
	builder, svc := newTestBuilder(t, Config{})
	publish(t, svc, "older", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), posts.CreatePostInput{})
	publish(t, svc, "newer", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), posts.CreatePostInput{})

	feed, err := builder.Build(context.Background(), "")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(feed.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(feed.Items))
	}
	if !strings.HasSuffix(feed.Items[0].Link.Href, "/posts/newer") {
		t.Fatalf("expected newest first, got %s", feed.Items[0].Link.Href)
	}
	if feed.Items[0].Id != "https://essays.example.com/posts/newer" {
		t.Fatalf("unexpected item id %s", feed.Items[0].Id)
	}
}

func TestBuildExcludesDrafts(t *testing.T) {
	builder, svc := newTestBuilder(t, Config{})
	publish(t, svc, "live", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), posts.CreatePostInput{})
	if _, err := svc.CreatePost(context.Background(), posts.CreatePostInput{
		Slug: "wip", Title: "WIP", Body: "Soon.",
	}); err != nil {
		t.Fatalf("create draft: %v", err)
	}

	feed, err := builder.Build(context.Background(), "")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(feed.Items) != 1 {
		t.Fatalf("expected drafts excluded, got %d items", len(feed.Items))
	}
}

func TestBuildAppliesItemLimit(t *testing.T) {
	builder, svc := newTestBuilder(t, Config{ItemLimit: 2})
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, slug := range []string{"a", "b", "c"} {
		publish(t, svc, slug, base.AddDate(0, 0, i), posts.CreatePostInput{})
	}

	feed, err := builder.Build(context.Background(), "")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(feed.Items) != 2 {
		t.Fatalf("expected capped feed, got %d items", len(feed.Items))
	}
	if !strings.HasSuffix(feed.Items[0].Link.Href, "/posts/c") {
		t.Fatalf("expected newest kept, got %s", feed.Items[0].Link.Href)
	}
}

func TestBuildCategoryFeed(t *testing.T) {
	builder, svc := newTestBuilder(t, Config{})
	publish(t, svc, "langs", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), posts.CreatePostInput{
		Categories: []string{"languages"},
	})
	publish(t, svc, "tools", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), posts.CreatePostInput{
		Categories: []string{"tooling"},
	})

	feed, err := builder.Build(context.Background(), "Languages")
	if err != nil {
		t.Fatalf("build category feed: %v", err)
	}
	if len(feed.Items) != 1 || !strings.HasSuffix(feed.Items[0].Link.Href, "/posts/langs") {
		t.Fatalf("expected only language posts, got %+v", feed.Items)
	}
	if feed.Title != "Essays: languages" {
		t.Fatalf("unexpected category feed title %q", feed.Title)
	}

	if _, err := builder.Build(context.Background(), "gardening"); err != ErrCategoryUnknown {
		t.Fatalf("expected unknown category error, got %v", err)
	}
}

func TestItemSummaryFallsBackToExcerpt(t *testing.T) {
	builder, svc := newTestBuilder(t, Config{})
	publish(t, svc, "excerpted", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), posts.CreatePostInput{
		Body: "First paragraph of prose.\n\n```go\nfmt.Println(\"skipped\")\n```\n",
	})

	feed, err := builder.Build(context.Background(), "")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	desc := feed.Items[0].Description
	if !strings.Contains(desc, "First paragraph of prose.") {
		t.Fatalf("expected excerpt, got %q", desc)
	}
	if strings.Contains(desc, "Println") {
		t.Fatalf("expected code fences skipped, got %q", desc)
	}
}

func TestRSSAndAtomRender(t *testing.T) {
	builder, svc := newTestBuilder(t, Config{Description: "Occasional essays", Author: "J. Doe"})
	publish(t, svc, "only", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), posts.CreatePostInput{
		Summary: func() *string { s := "A short summary."; return &s }(),
	})

	rss, err := builder.RSS(context.Background())
	if err != nil {
		t.Fatalf("rss: %v", err)
	}
	if !strings.Contains(rss, "<rss") || !strings.Contains(rss, "A short summary.") {
		t.Fatalf("unexpected rss output: %s", rss)
	}

	atom, err := builder.Atom(context.Background())
	if err != nil {
		t.Fatalf("atom: %v", err)
	}
	if !strings.Contains(atom, "<feed") || !strings.Contains(atom, "/posts/only") {
		t.Fatalf("unexpected atom output: %s", atom)
	}
}
