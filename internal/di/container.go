package di

import (
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-essays/internal/feeds"
	"github.com/goliatone/go-essays/internal/lint"
	"github.com/goliatone/go-essays/internal/logging"
	"github.com/goliatone/go-essays/internal/logging/console"
	"github.com/goliatone/go-essays/internal/logging/gologger"
	"github.com/goliatone/go-essays/internal/markdown"
	internalposts "github.com/goliatone/go-essays/internal/posts"
	"github.com/goliatone/go-essays/internal/runtimeconfig"
	"github.com/goliatone/go-essays/internal/server"
	"github.com/goliatone/go-essays/pkg/interfaces"
	"github.com/goliatone/go-essays/posts"
)

// Container wires module dependencies. Repositories default to in-memory
// implementations; supply a bun.DB to persist the post index.
type Container struct {
	Config runtimeconfig.Config

	bunDB         *bun.DB
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	loggerProvider interfaces.LoggerProvider

	postRepo internalposts.PostRepository
	postSvc  posts.Service

	linter      *lint.Linter
	markdownSvc interfaces.MarkdownService
	feedBuilder *feeds.Builder
	httpServer  *server.Server
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB binds the container to a database handle. The caller stays
// responsible for running migrations and closing the handle.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default repository cache pairing.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the logger provider derived from config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithPostRepository overrides the default post repository binding.
func WithPostRepository(repo internalposts.PostRepository) Option {
	return func(c *Container) {
		c.postRepo = repo
	}
}

// WithPostService overrides the default post service binding.
func WithPostService(svc posts.Service) Option {
	return func(c *Container) {
		c.postSvc = svc
	}
}

// WithMarkdownService overrides the default markdown service binding.
func WithMarkdownService(svc interfaces.MarkdownService) Option {
	return func(c *Container) {
		c.markdownSvc = svc
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cacheTTL,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()

	if c.postSvc == nil {
		c.postSvc = internalposts.NewService(
			c.postRepo,
			internalposts.WithLogger(logging.PostsLogger(c.loggerProvider)),
		)
	}

	if c.linter == nil {
		linter, err := lint.New(lint.Config{
			Categories:     cfg.Lint.Categories,
			MetadataSchema: cfg.Lint.MetadataSchema,
			ExternalLinks:  cfg.Lint.ExternalLinks,
		}, lint.WithLogger(logging.LintLogger(c.loggerProvider)))
		if err != nil {
			return nil, err
		}
		c.linter = linter
	}

	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil {
		return nil
	}

	logCfg := c.Config.Logging
	if c.Config.Features.Logger && logCfg.Provider == "gologger" {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
		return nil
	}

	opts := console.Options{}
	if level, ok := console.ParseLevel(logCfg.Level); ok {
		opts.MinLevel = &level
	}
	c.loggerProvider = console.NewProvider(opts)
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.postRepo != nil {
		return
	}
	if c.bunDB != nil {
		c.postRepo = internalposts.NewBunPostRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		return
	}
	c.postRepo = internalposts.NewMemoryRepository()
}

// DB exposes the bound database handle, nil when running in memory.
func (c *Container) DB() *bun.DB {
	return c.bunDB
}

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// PostRepository exposes the configured post repository.
func (c *Container) PostRepository() internalposts.PostRepository {
	return c.postRepo
}

// PostService returns the configured post service.
func (c *Container) PostService() posts.Service {
	return c.postSvc
}

// Linter returns the configured corpus linter.
func (c *Container) Linter() *lint.Linter {
	return c.linter
}

// MarkdownService returns the markdown pipeline bound to the configured
// content directory (lazy; the directory must exist).
func (c *Container) MarkdownService() (interfaces.MarkdownService, error) {
	if c.markdownSvc != nil {
		return c.markdownSvc, nil
	}

	svc, err := markdown.NewService(markdown.Config{
		BasePath:  c.Config.Content.Dir,
		Pattern:   c.Config.Content.Pattern,
		Recursive: c.Config.Content.Recursive,
	}, c.postSvc, markdown.WithLogger(logging.MarkdownLogger(c.loggerProvider)))
	if err != nil {
		return nil, err
	}

	c.markdownSvc = svc
	return c.markdownSvc, nil
}

// FeedBuilder returns the syndication builder (lazy; requires a base URL).
func (c *Container) FeedBuilder() (*feeds.Builder, error) {
	if c.feedBuilder != nil {
		return c.feedBuilder, nil
	}

	builder, err := feeds.NewBuilder(feeds.Config{
		Title:       c.Config.Site.Title,
		Description: c.Config.Site.Description,
		Author:      c.Config.Site.Author,
		BaseURL:     c.Config.Site.BaseURL,
		ItemLimit:   c.Config.Feeds.ItemLimit,
	}, c.postSvc, feeds.WithLogger(logging.FeedsLogger(c.loggerProvider)))
	if err != nil {
		return nil, err
	}

	c.feedBuilder = builder
	return c.feedBuilder, nil
}

// Server returns the read-only HTTP API (lazy). Feed routes are mounted
// when the feeds feature is enabled.
func (c *Container) Server() (*server.Server, error) {
	if c.httpServer != nil {
		return c.httpServer, nil
	}

	opts := []server.Option{
		server.WithLogger(logging.ServerLogger(c.loggerProvider)),
	}
	if c.Config.Features.Feeds {
		builder, err := c.FeedBuilder()
		if err != nil {
			return nil, err
		}
		opts = append(opts, server.WithFeeds(builder))
	}

	srv, err := server.New(server.Config{
		Addr:            c.Config.Server.Addr,
		RequestTimeout:  c.Config.Server.RequestTimeout,
		ShutdownTimeout: c.Config.Server.ShutdownTimeout,
	}, c.postSvc, opts...)
	if err != nil {
		return nil, err
	}

	c.httpServer = srv
	return c.httpServer, nil
}
