package posts

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-essays/posts"
)

// PostRepository exposes persistence operations for the post index.
type PostRepository interface {
	Create(ctx context.Context, post *posts.Post) (*posts.Post, error)
	Update(ctx context.Context, post *posts.Post) (*posts.Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*posts.Post, error)
	GetBySlug(ctx context.Context, slug string) (*posts.Post, error)
	List(ctx context.Context) ([]*posts.Post, error)
	ListPublished(ctx context.Context) ([]*posts.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NotFoundError is returned when a post cannot be located.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}
