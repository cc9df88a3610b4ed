package posts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrSlugRequired       = errors.New("posts: slug is required")
	ErrSlugInvalid        = errors.New("posts: slug contains invalid characters")
	ErrSlugExists         = errors.New("posts: slug already exists")
	ErrTitleRequired      = errors.New("posts: title is required")
	ErrBodyRequired       = errors.New("posts: body is required")
	ErrPostIDRequired     = errors.New("posts: post id required")
	ErrPostNotFound       = errors.New("posts: post not found")
	ErrPublishedAtMissing = errors.New("posts: published post requires a publication date")
	ErrStatusInvalid      = errors.New("posts: status invalid")
	ErrAliasInvalid       = errors.New("posts: alias must be an absolute path")
	ErrAliasConflict      = errors.New("posts: alias conflict")
	ErrPathUnresolved     = errors.New("posts: path does not resolve to a post")
)

// AliasConflictError captures an alias colliding with an existing slug or
// another post's alias.
type AliasConflictError struct {
	PostID   uuid.UUID
	Alias    string
	Existing uuid.UUID
}

func (e *AliasConflictError) Error() string {
	if e == nil {
		return ErrAliasConflict.Error()
	}
	alias := strings.TrimSpace(e.Alias)
	if alias != "" {
		return fmt.Sprintf("%s: alias=%s", ErrAliasConflict.Error(), alias)
	}
	return ErrAliasConflict.Error()
}

func (e *AliasConflictError) Unwrap() error {
	return ErrAliasConflict
}
