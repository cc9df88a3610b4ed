package posts

import (
	"context"
	"fmt"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-essays/posts"
)

// BunPostRepository implements PostRepository with optional caching.
type BunPostRepository struct {
	repo repository.Repository[*posts.Post]
}

// NewBunPostRepository creates a post repository without caching.
func NewBunPostRepository(db *bun.DB) *BunPostRepository {
	return NewBunPostRepositoryWithCache(db, nil, nil)
}

// NewBunPostRepositoryWithCache creates a post repository with read-through
// caching when both a cache service and key serializer are supplied.
func NewBunPostRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunPostRepository {
	base := NewRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunPostRepository{repo: base}
}

func (r *BunPostRepository) Create(ctx context.Context, post *posts.Post) (*posts.Post, error) {
	record, err := r.repo.Create(ctx, post)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunPostRepository) Update(ctx context.Context, post *posts.Post) (*posts.Post, error) {
	updated, err := r.repo.Update(ctx, post,
		repository.UpdateByID(post.ID.String()),
		repository.UpdateColumns(
			"slug",
			"title",
			"summary",
			"status",
			"published_at",
			"categories",
			"tags",
			"aliases",
			"source_path",
			"checksum",
			"body",
			"metadata",
			"updated_at",
			"deleted_at",
		),
	)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *BunPostRepository) GetByID(ctx context.Context, id uuid.UUID) (*posts.Post, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "post", id.String())
	}
	return record, nil
}

func (r *BunPostRepository) GetBySlug(ctx context.Context, slug string) (*posts.Post, error) {
	record, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, "post", slug)
	}
	return record, nil
}

func (r *BunPostRepository) List(ctx context.Context) ([]*posts.Post, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.deleted_at IS NULL").
			OrderExpr("?TableAlias.published_at DESC NULLS LAST, ?TableAlias.slug ASC")
	}))
	return records, err
}

func (r *BunPostRepository) ListPublished(ctx context.Context) ([]*posts.Post, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.deleted_at IS NULL").
			Where("?TableAlias.status = ?", "published").
			OrderExpr("?TableAlias.published_at DESC, ?TableAlias.slug ASC")
	}))
	return records, err
}

func (r *BunPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &posts.Post{ID: id})
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if errors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
