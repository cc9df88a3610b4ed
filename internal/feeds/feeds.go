// Package feeds renders RSS and Atom documents for the published corpus so
// readers can subscribe without waiting on a site build.
package feeds

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/gorilla/feeds"

	"github.com/goliatone/go-essays/internal/logging"
	"github.com/goliatone/go-essays/internal/markdown"
	"github.com/goliatone/go-essays/pkg/interfaces"
	"github.com/goliatone/go-essays/posts"
)

const defaultItemLimit = 50
const excerptRunes = 280

var (
	ErrPostServiceRequired = errors.New("feeds: post service is required")
	ErrBaseURLRequired     = errors.New("feeds: base URL is required")
	ErrCategoryUnknown     = errors.New("feeds: category has no published posts")
)

// Config describes the site the feed represents.
type Config struct {
	Title       string
	Description string
	Author      string
	BaseURL     string
	// ItemLimit caps feed length; zero applies the default cap.
	ItemLimit int
}

// Builder assembles syndication feeds from the post store.
type Builder struct {
	cfg    Config
	posts  posts.Service
	logger interfaces.Logger
}

// Option configures builder construction.
type Option func(*Builder)

// WithLogger sets the builder logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder constructs a feed builder.
func NewBuilder(cfg Config, postService posts.Service, opts ...Option) (*Builder, error) {
	if postService == nil {
		return nil, ErrPostServiceRequired
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrBaseURLRequired
	}
	if cfg.ItemLimit <= 0 {
		cfg.ItemLimit = defaultItemLimit
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	b := &Builder{
		cfg:    cfg,
		posts:  postService,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// RSS renders the site feed as RSS 2.0.
func (b *Builder) RSS(ctx context.Context) (string, error) {
	feed, err := b.Build(ctx, "")
	if err != nil {
		return "", err
	}
	return feed.ToRss()
}

// Atom renders the site feed as Atom.
func (b *Builder) Atom(ctx context.Context) (string, error) {
	feed, err := b.Build(ctx, "")
	if err != nil {
		return "", err
	}
	return feed.ToAtom()
}

// CategoryRSS renders a feed restricted to one category.
func (b *Builder) CategoryRSS(ctx context.Context, category string) (string, error) {
	feed, err := b.Build(ctx, category)
	if err != nil {
		return "", err
	}
	return feed.ToRss()
}

// CategoryAtom renders an Atom feed restricted to one category.
func (b *Builder) CategoryAtom(ctx context.Context, category string) (string, error) {
	feed, err := b.Build(ctx, category)
	if err != nil {
		return "", err
	}
	return feed.ToAtom()
}

// Build assembles the feed document. An empty category means the whole site.
func (b *Builder) Build(ctx context.Context, category string) (*feeds.Feed, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	records, err := b.posts.ListPosts(ctx, posts.ListFilter{Category: category})
	if err != nil {
		return nil, err
	}
	if category != "" && len(records) == 0 {
		return nil, ErrCategoryUnknown
	}

	records = dedupeBySlug(records)
	sortByPublication(records)
	if len(records) > b.cfg.ItemLimit {
		records = records[:b.cfg.ItemLimit]
	}

	feed := &feeds.Feed{
		Title:       b.feedTitle(category),
		Description: b.cfg.Description,
		Link:        &feeds.Link{Href: b.feedLink(category)},
		Id:          b.feedLink(category),
	}
	if author := strings.TrimSpace(b.cfg.Author); author != "" {
		feed.Author = &feeds.Author{Name: author}
	}

	for _, record := range records {
		item := &feeds.Item{
			Title:       record.Title,
			Link:        &feeds.Link{Href: b.absoluteURL("/posts/" + record.Slug)},
			Id:          b.absoluteURL("/posts/" + record.Slug),
			Description: b.itemSummary(record),
		}
		if record.PublishedAt != nil {
			item.Created = record.PublishedAt.UTC()
		}
		if !record.UpdatedAt.IsZero() && record.PublishedAt != nil && record.UpdatedAt.After(*record.PublishedAt) {
			item.Updated = record.UpdatedAt.UTC()
		}
		feed.Items = append(feed.Items, item)
		if feed.Created.IsZero() || item.Created.After(feed.Created) {
			feed.Created = item.Created
		}
	}

	b.logger.Debug("feed built", "category", category, "items", len(feed.Items))
	return feed, nil
}

// itemSummary prefers the front matter summary and falls back to a plain-text
// excerpt of the body. Bodies stay Markdown; rendering is the site's job.
func (b *Builder) itemSummary(record *posts.Post) string {
	if record.Summary != nil {
		if summary := strings.TrimSpace(*record.Summary); summary != "" {
			return summary
		}
	}
	excerpt, err := markdown.Excerpt([]byte(record.Body), excerptRunes)
	if err != nil {
		return ""
	}
	return excerpt
}

func (b *Builder) feedTitle(category string) string {
	title := strings.TrimSpace(b.cfg.Title)
	if title == "" {
		title = b.cfg.BaseURL
	}
	if category == "" {
		return title
	}
	return title + ": " + category
}

func (b *Builder) feedLink(category string) string {
	if category == "" {
		return b.cfg.BaseURL + "/"
	}
	return b.absoluteURL("/categories/" + category)
}

func (b *Builder) absoluteURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return b.cfg.BaseURL + path
}

func dedupeBySlug(records []*posts.Post) []*posts.Post {
	seen := make(map[string]struct{}, len(records))
	out := records[:0:0]
	for _, record := range records {
		if record == nil {
			continue
		}
		if _, ok := seen[record.Slug]; ok {
			continue
		}
		seen[record.Slug] = struct{}{}
		out = append(out, record)
	}
	return out
}

func sortByPublication(records []*posts.Post) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		switch {
		case a.PublishedAt == nil:
			return false
		case b.PublishedAt == nil:
			return true
		case a.PublishedAt.Equal(*b.PublishedAt):
			return a.Slug < b.Slug
		default:
			return a.PublishedAt.After(*b.PublishedAt)
		}
	})
}
