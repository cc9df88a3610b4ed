package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MarkdownService exposes the file workflows the corpus tooling is built on:
// loading essay documents from disk and reconciling them with the post store.
type MarkdownService interface {
	Load(ctx context.Context, path string, opts LoadOptions) (*Document, error)
	LoadDirectory(ctx context.Context, dir string, opts LoadOptions) ([]*Document, error)
	Import(ctx context.Context, doc *Document, opts ImportOptions) (*ImportResult, error)
	ImportDirectory(ctx context.Context, dir string, opts ImportOptions) (*ImportResult, error)
	Sync(ctx context.Context, dir string, opts SyncOptions) (*SyncResult, error)
}

// Document represents a single essay file with parsed metadata and content.
// The struct is shared between the interfaces package and internal
// implementations so consumers can depend on a stable contract.
type Document struct {
	FilePath     string
	FrontMatter  FrontMatter
	Body         []byte
	LastModified time.Time
	// Checksum stores a SHA-256 digest of the original file content so sync
	// workflows can detect changes without re-importing unchanged files.
	Checksum []byte
	// Links carries every link and image destination found in the body,
	// collected during loading so lint passes need not re-parse.
	Links []Link
}

// Link is a single outbound reference extracted from an essay body.
type Link struct {
	// Destination is the raw target as written (URL, absolute path, or
	// relative document reference).
	Destination string
	// Title is the optional link title.
	Title string
	// Image marks image references, which resolve against assets rather than
	// posts.
	Image bool
}

// FrontMatter models the metadata block preceding each essay: title and date
// are required for publication, aliases record prior URLs that should
// redirect, and categories/tags drive the curated listings. Custom keeps
// domain-specific values without schema changes.
type FrontMatter struct {
	Title      string         `yaml:"title" json:"title"`
	Slug       string         `yaml:"slug" json:"slug"`
	Summary    string         `yaml:"summary" json:"summary"`
	Date       time.Time      `yaml:"date" json:"date"`
	Draft      bool           `yaml:"draft" json:"draft"`
	Aliases    []string       `yaml:"aliases" json:"aliases"`
	Categories []string       `yaml:"categories" json:"categories"`
	Tags       []string       `yaml:"tags" json:"tags"`
	Custom     map[string]any `yaml:",inline" json:"custom"`
	Raw        map[string]any `yaml:"-" json:"raw"`
}

// LoadOptions fine-tunes how documents are discovered and parsed from disk.
type LoadOptions struct {
	Recursive *bool
	Pattern   string
}

// ImportOptions controls how documents are written into the post store.
type ImportOptions struct {
	// AuthorID is recorded on created post records.
	AuthorID uuid.UUID
	// DryRun collects the import diff without persisting changes.
	DryRun bool
}

// SyncOptions extends ImportOptions with delete semantics for repeated
// reconciliation runs.
type SyncOptions struct {
	ImportOptions
	DeleteOrphaned bool
}

// ImportResult reports the outcome of an import, exposing IDs so callers can
// audit behaviour or trigger follow-up actions.
type ImportResult struct {
	CreatedPostIDs []uuid.UUID
	UpdatedPostIDs []uuid.UUID
	SkippedPostIDs []uuid.UUID
	Errors         []error
}

// SyncResult summarises a bulk sync run across many files.
type SyncResult struct {
	Created int
	Updated int
	Deleted int
	Skipped int
	Errors  []error
}
