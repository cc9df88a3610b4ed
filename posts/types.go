package posts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-essays/domain"
)

// Post is the canonical record for a published essay. The body is stored as
// Markdown with front matter stripped; rendering belongs to the external site
// generator.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:p"`

	ID          uuid.UUID      `bun:",pk,type:uuid"                  json:"id"`
	Slug        string         `bun:"slug,notnull"                   json:"slug"`
	Title       string         `bun:"title,notnull"                  json:"title"`
	Summary     *string        `bun:"summary"                        json:"summary,omitempty"`
	Status      domain.Status  `bun:"status,notnull,default:'draft'" json:"status"`
	PublishedAt *time.Time     `bun:"published_at,nullzero"          json:"published_at,omitempty"`
	Categories  []string       `bun:"categories,type:jsonb"          json:"categories,omitempty"`
	Tags        []string       `bun:"tags,type:jsonb"                json:"tags,omitempty"`
	Aliases     []string       `bun:"aliases,type:jsonb"             json:"aliases,omitempty"`
	SourcePath  string         `bun:"source_path"                    json:"source_path,omitempty"`
	Checksum    string         `bun:"checksum"                       json:"checksum,omitempty"`
	Body        string         `bun:"body,notnull"                   json:"body"`
	Metadata    map[string]any `bun:"metadata,type:jsonb"            json:"metadata,omitempty"`
	CreatedBy   uuid.UUID      `bun:"created_by,type:uuid"           json:"created_by,omitempty"`
	DeletedAt   *time.Time     `bun:"deleted_at,nullzero"            json:"deleted_at,omitempty"`
	CreatedAt   time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Visible reports whether the post belongs in public listings and feeds.
func (p *Post) Visible() bool {
	return p != nil && p.Status.Visible() && p.DeletedAt == nil
}

// Category is a derived taxonomy entry: categories exist only through the
// posts that reference them.
type Category struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ArchiveYear groups published posts by publication year, newest year first.
type ArchiveYear struct {
	Year  int     `json:"year"`
	Posts []*Post `json:"posts"`
}

// Resolution describes the outcome of resolving a request path against the
// corpus: either a direct slug hit or an alias that should redirect.
type Resolution struct {
	Post *Post `json:"post"`
	// CanonicalPath is the path readers should use ("/posts/{slug}").
	CanonicalPath string `json:"canonical_path"`
	// Redirect is true when the request path was a legacy alias.
	Redirect bool `json:"redirect"`
}

// CreatePostInput captures the information required to register a post.
type CreatePostInput struct {
	Slug        string
	Title       string
	Summary     *string
	Status      domain.Status
	PublishedAt *time.Time
	Categories  []string
	Tags        []string
	Aliases     []string
	SourcePath  string
	Checksum    string
	Body        string
	Metadata    map[string]any
	CreatedBy   uuid.UUID
}

// UpdatePostInput captures mutable post fields. Nil pointers leave the
// corresponding field untouched.
type UpdatePostInput struct {
	ID          uuid.UUID
	Title       *string
	Summary     *string
	Status      *domain.Status
	PublishedAt *time.Time
	Categories  []string
	Tags        []string
	Aliases     []string
	SourcePath  *string
	Checksum    *string
	Body        *string
	Metadata    map[string]any
}

// ListFilter narrows post listings. The zero value lists every visible post,
// newest first.
type ListFilter struct {
	Status        *domain.Status
	Category      string
	Tag           string
	Year          int
	IncludeDrafts bool
	Limit         int
	Offset        int
}

// Service describes the corpus management capabilities.
type Service interface {
	CreatePost(ctx context.Context, input CreatePostInput) (*Post, error)
	UpdatePost(ctx context.Context, input UpdatePostInput) (*Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
	GetPost(ctx context.Context, id uuid.UUID) (*Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*Post, error)
	ListPosts(ctx context.Context, filter ListFilter) ([]*Post, error)
	Archive(ctx context.Context) ([]ArchiveYear, error)
	Categories(ctx context.Context) ([]Category, error)
	ResolvePath(ctx context.Context, path string) (*Resolution, error)
}
