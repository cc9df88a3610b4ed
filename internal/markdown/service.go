package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-essays/pkg/interfaces"
	"github.com/goliatone/go-essays/posts"
)

// Config controls how the markdown service discovers and parses files.
type Config struct {
	BasePath  string
	Pattern   string
	Recursive bool
}

// Service implements interfaces.MarkdownService for filesystem-backed essays.
type Service struct {
	cfg      Config
	loader   *Loader
	importer *Importer
}

// NewService constructs a markdown service over the configured base path.
// The post service may be nil when only Load operations are needed.
func NewService(cfg Config, postService posts.Service, opts ...ServiceOption) (*Service, error) {
	filesystem, err := prepareFilesystem(cfg.BasePath)
	if err != nil {
		return nil, err
	}
	return newServiceWithFS(cfg, filesystem, postService, opts...), nil
}

// NewServiceWithFS constructs a markdown service over an explicit filesystem,
// primarily for tests using fstest.MapFS.
func NewServiceWithFS(cfg Config, filesystem fs.FS, postService posts.Service, opts ...ServiceOption) *Service {
	return newServiceWithFS(cfg, filesystem, postService, opts...)
}

// ServiceOption configures service construction.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	logger interfaces.Logger
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newServiceWithFS(cfg Config, filesystem fs.FS, postService posts.Service, opts ...ServiceOption) *Service {
	options := serviceOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	loader := NewLoader(filesystem, LoaderConfig{
		BasePath:  cfg.BasePath,
		Pattern:   cfg.Pattern,
		Recursive: cfg.Recursive,
	})

	var importer *Importer
	if postService != nil {
		importer = NewImporter(ImporterConfig{
			Posts:  postService,
			Logger: options.logger,
		})
	}

	return &Service{
		cfg:      cfg,
		loader:   loader,
		importer: importer,
	}
}

// Load reads a single document relative to the configured base path.
func (s *Service) Load(ctx context.Context, path string, opts interfaces.LoadOptions) (*interfaces.Document, error) {
	result, err := s.loader.LoadFile(ctx, s.normalisePath(path), toLoaderParams(opts))
	if err != nil {
		return nil, err
	}
	return result.Document, nil
}

// LoadDirectory reads every document within the supplied directory.
func (s *Service) LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.Document, error) {
	results, err := s.loader.LoadDirectory(ctx, s.normalisePath(dir), toLoaderParams(opts))
	if err != nil {
		return nil, err
	}
	docs := make([]*interfaces.Document, 0, len(results))
	for _, result := range results {
		docs = append(docs, result.Document)
	}
	return docs, nil
}

// Import persists a single document into the post store.
func (s *Service) Import(ctx context.Context, doc *interfaces.Document, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	if s.importer == nil {
		return nil, ErrPostServiceRequired
	}
	return s.importer.ImportDocument(ctx, doc, opts)
}

// ImportDirectory loads and persists every document under dir.
func (s *Service) ImportDirectory(ctx context.Context, dir string, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	if s.importer == nil {
		return nil, ErrPostServiceRequired
	}
	docs, err := s.LoadDirectory(ctx, dir, interfaces.LoadOptions{})
	if err != nil {
		return nil, err
	}
	return s.importer.ImportDocuments(ctx, docs, opts)
}

// Sync reconciles the post store with the directory contents.
func (s *Service) Sync(ctx context.Context, dir string, opts interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	if s.importer == nil {
		return nil, ErrPostServiceRequired
	}
	docs, err := s.LoadDirectory(ctx, dir, interfaces.LoadOptions{})
	if err != nil {
		return nil, err
	}
	return s.importer.SyncDocuments(ctx, docs, opts)
}

func (s *Service) normalisePath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "."
	}
	clean := filepath.Clean(path)
	if filepath.IsAbs(clean) && strings.TrimSpace(s.cfg.BasePath) != "" {
		if rel, err := filepath.Rel(s.cfg.BasePath, clean); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(clean)
}

func toLoaderParams(opts interfaces.LoadOptions) LoadParams {
	return LoadParams{
		Pattern:   opts.Pattern,
		Recursive: opts.Recursive,
	}
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("essay service: stat base path %s: %w", basePath, err)
	}
	return os.DirFS(basePath), nil
}
