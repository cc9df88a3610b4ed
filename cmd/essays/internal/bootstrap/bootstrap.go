package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	essays "github.com/goliatone/go-essays"
	"github.com/goliatone/go-essays/internal/di"
	"github.com/goliatone/go-essays/internal/logging"
	"github.com/goliatone/go-essays/pkg/interfaces"
	"github.com/goliatone/go-essays/pkg/storage"
)

// Options captures configuration for the essays CLI bootstraps.
type Options struct {
	ContentDir     string
	Pattern        string
	Recursive      bool
	Driver         string
	DSN            string
	BaseURL        string
	ServerAddr     string
	Categories     []string
	ExternalLinks  bool
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the essays module plus the handles CLI commands need.
type Module struct {
	Module  *essays.Module
	Service interfaces.MarkdownService
	Logger  interfaces.Logger
	DB      *bun.DB
}

// Close releases the database handle when one was opened.
func (m *Module) Close() error {
	if m == nil || m.DB == nil {
		return nil
	}
	return m.DB.Close()
}

// BuildModule constructs an essays module configured for CLI operations.
// When a DSN is supplied the post index is opened and migrated; otherwise
// the module runs against the in-memory repository.
func BuildModule(ctx context.Context, opts Options) (*Module, error) {
	cfg := essays.DefaultConfig()

	cfg.Content.Dir = strings.TrimSpace(opts.ContentDir)
	if cfg.Content.Dir == "" {
		cfg.Content.Dir = "content"
	}
	if trimmed := strings.TrimSpace(opts.Pattern); trimmed != "" {
		cfg.Content.Pattern = trimmed
	}
	cfg.Content.Recursive = opts.Recursive

	if baseURL := strings.TrimSpace(opts.BaseURL); baseURL != "" {
		cfg.Site.BaseURL = baseURL
		cfg.Features.Feeds = true
	}

	if addr := strings.TrimSpace(opts.ServerAddr); addr != "" {
		cfg.Server.Addr = addr
		cfg.Features.Server = true
	}

	cfg.Lint.Categories = cloneStrings(opts.Categories)
	cfg.Lint.ExternalLinks = opts.ExternalLinks

	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	var db *bun.DB
	if dsn := strings.TrimSpace(opts.DSN); dsn != "" {
		cfg.Storage.Driver = strings.TrimSpace(opts.Driver)
		cfg.Storage.DSN = dsn

		handle, err := storage.Open(storage.Config{
			Driver: cfg.Storage.Driver,
			DSN:    cfg.Storage.DSN,
		})
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		if err := storage.RunMigrations(ctx, handle, essays.GetMigrationsFS()); err != nil {
			_ = handle.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		db = handle
		diOpts = append(diOpts, di.WithBunDB(db))
	}

	module, err := essays.New(cfg, diOpts...)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("initialise essays module: %w", err)
	}

	service, err := module.Markdown()
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("configure markdown service: %w", err)
	}

	logger := logging.MarkdownLogger(module.Container().LoggerProvider())

	return &Module{
		Module:  module,
		Service: service,
		Logger:  logger,
		DB:      db,
	}, nil
}

// SplitList parses a comma separated list into a trimmed slice.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// ParseUUID converts the supplied string into a UUID, returning uuid.Nil when the input is empty.
func ParseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(trimmed)
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
