package posts

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-essays/posts"
)

// NewRepository creates a go-repository-bun repository for post records.
func NewRepository(db *bun.DB) repository.Repository[*posts.Post] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*posts.Post]{
		NewRecord: func() *posts.Post { return &posts.Post{} },
		GetID: func(post *posts.Post) uuid.UUID {
			return post.ID
		},
		SetID: func(post *posts.Post, id uuid.UUID) {
			post.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(post *posts.Post) string {
			return post.Slug
		},
	})
}
