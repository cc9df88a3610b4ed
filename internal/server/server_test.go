package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-essays/domain"
	"github.com/goliatone/go-essays/internal/feeds"
	internalposts "github.com/goliatone/go-essays/internal/posts"
	"github.com/goliatone/go-essays/posts"
)

func newTestServer(t *testing.T) (*Server, posts.Service) {
	t.Helper()
	svc := internalposts.NewService(internalposts.NewMemoryRepository())
	builder, err := feeds.NewBuilder(feeds.Config{
		Title:   "Essays",
		BaseURL: "https://essays.example.com",
	}, svc)
	if err != nil {
		t.Fatalf("new feed builder: %v", err)
	}
	srv, err := New(Config{Addr: ":0"}, svc, WithFeeds(builder))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv, svc
}

func seedPost(t *testing.T, svc posts.Service, slug string, published time.Time, input posts.CreatePostInput) *posts.Post {
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
	post, err := svc.CreatePost(context.Background(), input)
	if err != nil {
		t.Fatalf("create %s: %v", slug, err)
	}
	return post
}

func doRequest(t *testing.T, srv *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestListPosts(t *testing.T) {
	srv, svc := newTestServer(t)
	seedPost(t, svc, "older", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), posts.CreatePostInput{})
	seedPost(t, svc, "newer", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), posts.CreatePostInput{})

	rec := doRequest(t, srv, http.MethodGet, "/posts")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var listed []*posts.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(listed) != 2 || listed[0].Slug != "newer" {
		t.Fatalf("expected newest first, got %+v", listed)
	}
}

func TestListPostsFilters(t *testing.T) {
	srv, svc := newTestServer(t)
	seedPost(t, svc, "langs", time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC), posts.CreatePostInput{
		Categories: []string{"languages"},
	})
	seedPost(t, svc, "tools", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), posts.CreatePostInput{
		Categories: []string{"tooling"},
	})

	rec := doRequest(t, srv, http.MethodGet, "/posts?category=languages")
	var listed []*posts.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(listed) != 1 || listed[0].Slug != "langs" {
		t.Fatalf("expected category filter, got %+v", listed)
	}

	rec = doRequest(t, srv, http.MethodGet, "/posts?year=2024")
	listed = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(listed) != 1 || listed[0].Slug != "tools" {
		t.Fatalf("expected year filter, got %+v", listed)
	}

	rec = doRequest(t, srv, http.MethodGet, "/posts?year=abc")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad year, got %d", rec.Code)
	}
}

func TestGetPostBySlug(t *testing.T) {
	srv, svc := newTestServer(t)
	seedPost(t, svc, "errors-as-values", time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC), posts.CreatePostInput{})

	rec := doRequest(t, srv, http.MethodGet, "/posts/errors-as-values")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/posts/missing")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetDraftReturnsNotFound(t *testing.T) {
	srv, svc := newTestServer(t)
	if _, err := svc.CreatePost(context.Background(), posts.CreatePostInput{
		Slug: "wip", Title: "WIP", Body: "Soon.",
	}); err != nil {
		t.Fatalf("create draft: %v", err)
	}

	rec := doRequest(t, srv, http.MethodGet, "/posts/wip")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for draft, got %d", rec.Code)
	}
}

func TestCategoriesEndpoints(t *testing.T) {
	srv, svc := newTestServer(t)
	seedPost(t, svc, "a", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), posts.CreatePostInput{
		Categories: []string{"languages"},
	})

	rec := doRequest(t, srv, http.MethodGet, "/categories")
	var categories []posts.Category
	if err := json.Unmarshal(rec.Body.Bytes(), &categories); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(categories) != 1 || categories[0].Slug != "languages" {
		t.Fatalf("expected languages category, got %+v", categories)
	}

	rec = doRequest(t, srv, http.MethodGet, "/categories/languages")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec = doRequest(t, srv, http.MethodGet, "/categories/gardening")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown category, got %d", rec.Code)
	}
}

func TestArchiveEndpoint(t *testing.T) {
	srv, svc := newTestServer(t)
	seedPost(t, svc, "a", time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), posts.CreatePostInput{})
	seedPost(t, svc, "b", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), posts.CreatePostInput{})

	rec := doRequest(t, srv, http.MethodGet, "/archive")
	var archive []posts.ArchiveYear
	if err := json.Unmarshal(rec.Body.Bytes(), &archive); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(archive) != 2 || archive[0].Year != 2024 {
		t.Fatalf("expected newest year first, got %+v", archive)
	}
}

func TestAliasRedirect(t *testing.T) {
	srv, svc := newTestServer(t)
	seedPost(t, svc, "errors-as-values", time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC), posts.CreatePostInput{
		Aliases: []string{"/2019/05/errors-as-values.html"},
	})

	rec := doRequest(t, srv, http.MethodGet, "/2019/05/errors-as-values.html")
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("expected 301, got %d", rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/posts/errors-as-values" {
		t.Fatalf("unexpected redirect target %q", location)
	}

	rec = doRequest(t, srv, http.MethodGet, "/nowhere")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestFeedEndpoints(t *testing.T) {
	srv, svc := newTestServer(t)
	seedPost(t, svc, "only", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), posts.CreatePostInput{
		Categories: []string{"languages"},
	})

	rec := doRequest(t, srv, http.MethodGet, "/feed.xml")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "<rss") {
		t.Fatalf("unexpected rss response %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "application/xml") {
		t.Fatalf("unexpected content type %q", got)
	}

	rec = doRequest(t, srv, http.MethodGet, "/atom.xml")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "<feed") {
		t.Fatalf("unexpected atom response %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/categories/languages/feed.xml")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected category feed, got %d", rec.Code)
	}
	rec = doRequest(t, srv, http.MethodGet, "/categories/gardening/feed.xml")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown category feed, got %d", rec.Code)
	}
}

func TestGracefulShutdown(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- srv.Start(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not shut down")
	}
}
