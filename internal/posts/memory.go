package posts

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-essays/posts"
)

type memoryRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*posts.Post
	bySlug map[string]uuid.UUID
}

// NewMemoryRepository constructs an in-memory post repository.
func NewMemoryRepository() PostRepository {
	return &memoryRepository{
		byID:   make(map[uuid.UUID]*posts.Post),
		bySlug: make(map[string]uuid.UUID),
	}
}

func (m *memoryRepository) Create(_ context.Context, post *posts.Post) (*posts.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := clonePost(post)
	slug := normalizePostSlug(cloned.Slug)
	cloned.Slug = slug
	m.byID[cloned.ID] = cloned
	if slug != "" {
		m.bySlug[slug] = cloned.ID
	}
	return clonePost(cloned), nil
}

func (m *memoryRepository) Update(_ context.Context, post *posts.Post) (*posts.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[post.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "post", Key: post.ID.String()}
	}
	oldSlug := normalizePostSlug(existing.Slug)
	cloned := clonePost(post)
	newSlug := normalizePostSlug(cloned.Slug)
	cloned.Slug = newSlug
	m.byID[cloned.ID] = cloned

	if oldSlug != "" && oldSlug != newSlug {
		delete(m.bySlug, oldSlug)
	}
	if newSlug != "" {
		m.bySlug[newSlug] = cloned.ID
	}
	return clonePost(cloned), nil
}

func (m *memoryRepository) GetByID(_ context.Context, id uuid.UUID) (*posts.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "post", Key: id.String()}
	}
	return clonePost(record), nil
}

func (m *memoryRepository) GetBySlug(_ context.Context, slug string) (*posts.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	normalized := normalizePostSlug(slug)
	id, ok := m.bySlug[normalized]
	if !ok {
		return nil, &NotFoundError{Resource: "post", Key: normalized}
	}
	return clonePost(m.byID[id]), nil
}

func (m *memoryRepository) List(_ context.Context) ([]*posts.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*posts.Post, 0, len(m.byID))
	for _, record := range m.byID {
		if record == nil || record.DeletedAt != nil {
			continue
		}
		records = append(records, clonePost(record))
	}
	sortNewestFirst(records)
	return records, nil
}

func (m *memoryRepository) ListPublished(_ context.Context) ([]*posts.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*posts.Post, 0, len(m.byID))
	for _, record := range m.byID {
		if record == nil || record.DeletedAt != nil || !record.Visible() {
			continue
		}
		records = append(records, clonePost(record))
	}
	sortNewestFirst(records)
	return records, nil
}

func (m *memoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: "post", Key: id.String()}
	}
	delete(m.byID, id)
	if record != nil {
		slug := normalizePostSlug(record.Slug)
		if slug != "" {
			delete(m.bySlug, slug)
		}
	}
	return nil
}

// sortNewestFirst orders posts by publication date descending; posts without
// a publication date sort after dated ones, ties break on slug.
func sortNewestFirst(records []*posts.Post) {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		switch {
		case a.PublishedAt == nil && b.PublishedAt == nil:
			return a.Slug < b.Slug
		case a.PublishedAt == nil:
			return false
		case b.PublishedAt == nil:
			return true
		case a.PublishedAt.Equal(*b.PublishedAt):
			return a.Slug < b.Slug
		default:
			return a.PublishedAt.After(*b.PublishedAt)
		}
	})
}

func normalizePostSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}
