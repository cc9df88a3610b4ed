package posts

import (
	"time"

	"github.com/goliatone/go-essays/posts"
)

func clonePost(post *posts.Post) *posts.Post {
	if post == nil {
		return nil
	}
	cloned := *post
	cloned.Summary = cloneString(post.Summary)
	cloned.PublishedAt = cloneTime(post.PublishedAt)
	cloned.DeletedAt = cloneTime(post.DeletedAt)
	cloned.Categories = cloneStrings(post.Categories)
	cloned.Tags = cloneStrings(post.Tags)
	cloned.Aliases = cloneStrings(post.Aliases)
	cloned.Metadata = cloneMetadata(post.Metadata)
	return &cloned
}

func clonePostSlice(src []*posts.Post) []*posts.Post {
	if len(src) == 0 {
		return nil
	}
	out := make([]*posts.Post, len(src))
	for i, post := range src {
		out[i] = clonePost(post)
	}
	return out
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}

func cloneStrings(src []string) []string {
	if len(src) == 0 {
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

func cloneMetadata(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
