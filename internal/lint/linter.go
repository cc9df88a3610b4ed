package lint

import (
	"context"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-essays/internal/logging"
	"github.com/goliatone/go-essays/pkg/interfaces"
)

// Config controls which checks a Linter applies.
type Config struct {
	// Categories is the allowed category vocabulary; empty means any.
	Categories []string
	// MetadataSchema constrains custom front matter keys when set.
	MetadataSchema map[string]any
	// ExternalLinks reports unverified external URLs as warnings.
	ExternalLinks bool
}

// Linter checks essay documents against metadata and corpus invariants.
type Linter struct {
	allowedCategories map[string]struct{}
	metadataSchema    *jsonschema.Schema
	externalLinks     bool
	logger            interfaces.Logger
}

// Option configures linter behaviour.
type Option func(*Linter)

// WithLogger sets the linter logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(l *Linter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New constructs a Linter; metadata schemas are compiled once up front.
func New(cfg Config, opts ...Option) (*Linter, error) {
	compiled, err := compileMetadataSchema(cfg.MetadataSchema)
	if err != nil {
		return nil, err
	}
	l := &Linter{
		metadataSchema: compiled,
		externalLinks:  cfg.ExternalLinks,
		logger:         logging.NoOp(),
	}
	if len(cfg.Categories) > 0 {
		l.allowedCategories = make(map[string]struct{}, len(cfg.Categories))
		for _, category := range cfg.Categories {
			normalized := strings.ToLower(strings.TrimSpace(category))
			if normalized == "" {
				continue
			}
			l.allowedCategories[normalized] = struct{}{}
		}
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Run checks every document and the corpus-level invariants, returning a
// deterministic report.
func (l *Linter) Run(ctx context.Context, docs []*interfaces.Document) (*Report, error) {
	report := &Report{Checked: len(docs)}
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if doc == nil {
			continue
		}
		l.checkFrontMatter(report, doc)
		l.checkMetadata(report, doc)
	}
	l.checkCorpus(report, docs)
	report.sortIssues()

	l.logger.Info("lint run complete",
		"documents", report.Checked,
		"errors", len(report.Errors()),
		"warnings", len(report.Warnings()),
	)
	return report, nil
}
