package di

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-essays/domain"
	internalposts "github.com/goliatone/go-essays/internal/posts"
	"github.com/goliatone/go-essays/internal/runtimeconfig"
	"github.com/goliatone/go-essays/posts"
)

func testConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Site.BaseURL = "https://essays.example.com"
	cfg.Features.Feeds = true
	return cfg
}

func TestNewContainerDefaults(t *testing.T) {
	c, err := NewContainer(testConfig())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	if c.PostService() == nil {
		t.Fatal("expected a post service")
	}
	if c.Linter() == nil {
		t.Fatal("expected a linter")
	}
	if c.DB() != nil {
		t.Fatal("expected no database handle by default")
	}
	if c.LoggerProvider() == nil {
		t.Fatal("expected a logger provider")
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Content.Dir = ""

	if _, err := NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrContentDirRequired) {
		t.Fatalf("expected content dir error, got %v", err)
	}
}

func TestContainerMemoryRepositoryRoundTrip(t *testing.T) {
	c, err := NewContainer(testConfig())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	published := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	created, err := c.PostService().CreatePost(context.Background(), posts.CreatePostInput{
		Slug:        "hello",
		Title:       "Hello",
		Body:        "Body.",
		Status:      domain.StatusPublished,
		PublishedAt: &published,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	got, err := c.PostService().GetPost(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get post: %v", err)
	}
	if got.Slug != "hello" {
		t.Fatalf("unexpected slug %q", got.Slug)
	}
}

func TestContainerFeedBuilderRequiresBaseURL(t *testing.T) {
	cfg := testConfig()
	cfg.Site.BaseURL = ""
	cfg.Features.Feeds = false

	c, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	if _, err := c.FeedBuilder(); err == nil {
		t.Fatal("expected feed builder to demand a base URL")
	}
}

func TestContainerServer(t *testing.T) {
	c, err := NewContainer(testConfig())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	srv, err := c.Server()
	if err != nil {
		t.Fatalf("server: %v", err)
	}
	if srv == nil {
		t.Fatal("expected a server")
	}

	again, err := c.Server()
	if err != nil {
		t.Fatalf("server second call: %v", err)
	}
	if again != srv {
		t.Fatal("expected the server to be memoised")
	}
}

func TestContainerOverrides(t *testing.T) {
	repo := internalposts.NewMemoryRepository()
	svc := internalposts.NewService(repo)

	c, err := NewContainer(testConfig(), WithPostRepository(repo), WithPostService(svc))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	if c.PostService() != svc {
		t.Fatal("expected the injected post service")
	}
	if c.PostRepository() != repo {
		t.Fatal("expected the injected repository")
	}
}
