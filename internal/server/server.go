// Package server exposes the corpus over a read-only JSON API, plus the
// syndication feeds and permanent redirects for legacy URLs.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-essays/internal/feeds"
	"github.com/goliatone/go-essays/internal/logging"
	"github.com/goliatone/go-essays/pkg/interfaces"
	"github.com/goliatone/go-essays/posts"
)

const defaultShutdownTimeout = 10 * time.Second

var ErrPostServiceRequired = errors.New("server: post service is required")

// Config controls server listening behaviour.
type Config struct {
	Addr            string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// Server serves the read-only corpus API.
type Server struct {
	cfg    Config
	posts  posts.Service
	feeds  *feeds.Builder
	logger interfaces.Logger
	http   *http.Server
}

// Option configures server construction.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFeeds attaches a feed builder; without one the feed routes return 404.
func WithFeeds(builder *feeds.Builder) Option {
	return func(s *Server) {
		s.feeds = builder
	}
}

// New constructs a Server around the supplied post service.
func New(cfg Config, postService posts.Service, opts ...Option) (*Server, error) {
	if postService == nil {
		return nil, ErrPostServiceRequired
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	s := &Server{
		cfg:    cfg,
		posts:  postService,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.http = &http.Server{
		Addr:    cfg.Addr,
		Handler: s.Routes(),
	}
	return s, nil
}

// Routes assembles the router; exposed separately so tests can drive the
// handler without a listener.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)
	if s.cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(s.cfg.RequestTimeout))
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/posts", s.handleListPosts)
	r.Get("/posts/{slug}", s.handleGetPost)
	r.Get("/categories", s.handleCategories)
	r.Get("/categories/{category}", s.handleCategoryPosts)
	r.Get("/archive", s.handleArchive)

	if s.feeds != nil {
		r.Get("/feed.xml", s.handleRSS)
		r.Get("/atom.xml", s.handleAtom)
		r.Get("/categories/{category}/feed.xml", s.handleCategoryRSS)
	}

	// everything else may be a legacy alias
	r.NotFound(s.handleResolve)

	return r
}

// Start runs the server until ctx is cancelled, then drains connections.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.cfg.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	s.logger.Info("server shutting down")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(started).Milliseconds(),
		)
	})
}
