package posts

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-essays/domain"
	"github.com/goliatone/go-essays/internal/identity"
	"github.com/goliatone/go-essays/internal/logging"
	"github.com/goliatone/go-essays/pkg/interfaces"
	"github.com/goliatone/go-essays/posts"
)

// IDDeriver produces deterministic post IDs from slugs.
type IDDeriver func(slug string) uuid.UUID

// ServiceOption configures service behaviour.
type ServiceOption func(*service)

// WithIDDeriver overrides post ID derivation.
func WithIDDeriver(deriver IDDeriver) ServiceOption {
	return func(s *service) {
		if deriver != nil {
			s.id = deriver
		}
	}
}

// WithNow overrides the time source (primarily for tests).
func WithNow(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	repo   PostRepository
	id     IDDeriver
	now    func() time.Time
	logger interfaces.Logger
}

var errRepositoryRequired = errors.New("posts: repository required")

// NewService constructs a post service instance.
func NewService(repo PostRepository, opts ...ServiceOption) posts.Service {
	if repo == nil {
		panic(errRepositoryRequired)
	}

	s := &service{
		repo:   repo,
		id:     identity.PostUUID,
		now:    time.Now,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) CreatePost(ctx context.Context, input posts.CreatePostInput) (*posts.Post, error) {
	slug := normalizePostSlug(input.Slug)
	if slug == "" {
		return nil, posts.ErrSlugRequired
	}
	if !posts.IsValidSlug(slug) {
		return nil, posts.ErrSlugInvalid
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, posts.ErrTitleRequired
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, posts.ErrBodyRequired
	}
	status := input.Status
	if status == "" {
		status = domain.StatusDraft
	}
	if !status.Valid() {
		return nil, posts.ErrStatusInvalid
	}
	if status == domain.StatusPublished && input.PublishedAt == nil {
		return nil, posts.ErrPublishedAtMissing
	}

	if existing, err := s.repo.GetBySlug(ctx, slug); err == nil && existing != nil {
		return nil, posts.ErrSlugExists
	} else if err != nil {
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
	}

	aliases, err := normalizeAliases(input.Aliases)
	if err != nil {
		return nil, err
	}

	id := s.id(slug)
	if err := s.checkAliasConflicts(ctx, id, slug, aliases); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	record := &posts.Post{
		ID:          id,
		Slug:        slug,
		Title:       title,
		Summary:     cloneString(input.Summary),
		Status:      status,
		PublishedAt: normalizeDate(input.PublishedAt),
		Categories:  normalizeTerms(input.Categories),
		Tags:        normalizeTerms(input.Tags),
		Aliases:     aliases,
		SourcePath:  strings.TrimSpace(input.SourcePath),
		Checksum:    input.Checksum,
		Body:        input.Body,
		Metadata:    cloneMetadata(input.Metadata),
		CreatedBy:   input.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("post created", "slug", created.Slug, "status", string(created.Status))
	return clonePost(created), nil
}

func (s *service) UpdatePost(ctx context.Context, input posts.UpdatePostInput) (*posts.Post, error) {
	if input.ID == uuid.Nil {
		return nil, posts.ErrPostIDRequired
	}
	post, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, translateRepoError(err)
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, posts.ErrTitleRequired
		}
		post.Title = title
	}
	if input.Summary != nil {
		summary := strings.TrimSpace(*input.Summary)
		if summary == "" {
			post.Summary = nil
		} else {
			post.Summary = &summary
		}
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, posts.ErrStatusInvalid
		}
		post.Status = *input.Status
	}
	if input.PublishedAt != nil {
		post.PublishedAt = normalizeDate(input.PublishedAt)
	}
	if post.Status == domain.StatusPublished && post.PublishedAt == nil {
		return nil, posts.ErrPublishedAtMissing
	}
	if input.Categories != nil {
		post.Categories = normalizeTerms(input.Categories)
	}
	if input.Tags != nil {
		post.Tags = normalizeTerms(input.Tags)
	}
	if input.Aliases != nil {
		aliases, err := normalizeAliases(input.Aliases)
		if err != nil {
			return nil, err
		}
		if err := s.checkAliasConflicts(ctx, post.ID, post.Slug, aliases); err != nil {
			return nil, err
		}
		post.Aliases = aliases
	}
	if input.SourcePath != nil {
		post.SourcePath = strings.TrimSpace(*input.SourcePath)
	}
	if input.Checksum != nil {
		post.Checksum = *input.Checksum
	}
	if input.Body != nil {
		if strings.TrimSpace(*input.Body) == "" {
			return nil, posts.ErrBodyRequired
		}
		post.Body = *input.Body
	}
	if input.Metadata != nil {
		post.Metadata = cloneMetadata(input.Metadata)
	}

	post.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, post)
	if err != nil {
		return nil, err
	}
	return clonePost(updated), nil
}

func (s *service) DeletePost(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return posts.ErrPostIDRequired
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return translateRepoError(err)
	}
	s.logger.Debug("post deleted", "id", id.String())
	return nil
}

func (s *service) GetPost(ctx context.Context, id uuid.UUID) (*posts.Post, error) {
	if id == uuid.Nil {
		return nil, posts.ErrPostIDRequired
	}
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return clonePost(post), nil
}

func (s *service) GetPostBySlug(ctx context.Context, slug string) (*posts.Post, error) {
	slug = normalizePostSlug(slug)
	if slug == "" {
		return nil, posts.ErrPostNotFound
	}
	post, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return clonePost(post), nil
}

func (s *service) ListPosts(ctx context.Context, filter posts.ListFilter) ([]*posts.Post, error) {
	var (
		records []*posts.Post
		err     error
	)
	if filter.IncludeDrafts || filter.Status != nil {
		records, err = s.repo.List(ctx)
	} else {
		records, err = s.repo.ListPublished(ctx)
	}
	if err != nil {
		return nil, err
	}

	filtered := records[:0:0]
	for _, record := range records {
		if !matchesFilter(record, filter) {
			continue
		}
		filtered = append(filtered, record)
	}
	filtered = paginate(filtered, filter.Limit, filter.Offset)
	return clonePostSlice(filtered), nil
}

func (s *service) Archive(ctx context.Context) ([]posts.ArchiveYear, error) {
	records, err := s.repo.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	byYear := map[int][]*posts.Post{}
	for _, record := range records {
		if record.PublishedAt == nil {
			continue
		}
		year := record.PublishedAt.UTC().Year()
		byYear[year] = append(byYear[year], clonePost(record))
	}

	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	archive := make([]posts.ArchiveYear, 0, len(years))
	for _, year := range years {
		group := byYear[year]
		sortNewestFirst(group)
		archive = append(archive, posts.ArchiveYear{Year: year, Posts: group})
	}
	return archive, nil
}

func (s *service) Categories(ctx context.Context) ([]posts.Category, error) {
	records, err := s.repo.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	names := map[string]string{}
	for _, record := range records {
		for _, category := range record.Categories {
			key := normalizeTerm(category)
			if key == "" {
				continue
			}
			counts[key]++
			if _, ok := names[key]; !ok {
				names[key] = deriveCategoryName(category)
			}
		}
	}

	result := make([]posts.Category, 0, len(counts))
	for key, count := range counts {
		result = append(result, posts.Category{Slug: key, Name: names[key], Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Slug < result[j].Slug
	})
	return result, nil
}

func (s *service) ResolvePath(ctx context.Context, path string) (*posts.Resolution, error) {
	normalized := normalizeRequestPath(path)
	if normalized == "" {
		return nil, posts.ErrPathUnresolved
	}

	if slug, ok := strings.CutPrefix(normalized, "/posts/"); ok {
		post, err := s.repo.GetBySlug(ctx, normalizePostSlug(slug))
		if err == nil && post.Visible() {
			return &posts.Resolution{
				Post:          clonePost(post),
				CanonicalPath: canonicalPath(post.Slug),
			}, nil
		}
		if err != nil {
			var nf *NotFoundError
			if !errors.As(err, &nf) {
				return nil, err
			}
		}
	}

	records, err := s.repo.ListPublished(ctx)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		for _, alias := range record.Aliases {
			if normalizeRequestPath(alias) == normalized {
				return &posts.Resolution{
					Post:          clonePost(record),
					CanonicalPath: canonicalPath(record.Slug),
					Redirect:      true,
				}, nil
			}
		}
	}
	return nil, posts.ErrPathUnresolved
}

// checkAliasConflicts rejects aliases that shadow another post's canonical
// path or collide with an alias already claimed by a different post.
func (s *service) checkAliasConflicts(ctx context.Context, id uuid.UUID, slug string, aliases []string) error {
	if len(aliases) == 0 {
		return nil
	}
	records, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	claimed := map[string]uuid.UUID{}
	for _, record := range records {
		if record.ID == id {
			continue
		}
		claimed[canonicalPath(record.Slug)] = record.ID
		for _, alias := range record.Aliases {
			claimed[normalizeRequestPath(alias)] = record.ID
		}
	}
	own := canonicalPath(slug)
	for _, alias := range aliases {
		if alias == own {
			return &AliasSelfError{Alias: alias}
		}
		if existing, ok := claimed[alias]; ok {
			return &posts.AliasConflictError{PostID: id, Alias: alias, Existing: existing}
		}
	}
	return nil
}

// AliasSelfError marks an alias that points at the post's own canonical path.
type AliasSelfError struct {
	Alias string
}

func (e *AliasSelfError) Error() string {
	return "posts: alias duplicates canonical path: " + e.Alias
}

func (e *AliasSelfError) Unwrap() error {
	return posts.ErrAliasInvalid
}

func matchesFilter(post *posts.Post, filter posts.ListFilter) bool {
	if post == nil {
		return false
	}
	if filter.Status != nil && post.Status != *filter.Status {
		return false
	}
	if !filter.IncludeDrafts && filter.Status == nil && !post.Visible() {
		return false
	}
	if filter.Category != "" && !containsTerm(post.Categories, filter.Category) {
		return false
	}
	if filter.Tag != "" && !containsTerm(post.Tags, filter.Tag) {
		return false
	}
	if filter.Year != 0 {
		if post.PublishedAt == nil || post.PublishedAt.UTC().Year() != filter.Year {
			return false
		}
	}
	return true
}

func paginate(records []*posts.Post, limit, offset int) []*posts.Post {
	if offset > 0 {
		if offset >= len(records) {
			return nil
		}
		records = records[offset:]
	}
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records
}

func containsTerm(terms []string, want string) bool {
	want = normalizeTerm(want)
	for _, term := range terms {
		if normalizeTerm(term) == want {
			return true
		}
	}
	return false
}

func normalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

func normalizeTerms(terms []string) []string {
	if len(terms) == 0 {
		return nil
	}
	seen := map[string]struct{}{}
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		normalized := normalizeTerm(term)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func normalizeAliases(aliases []string) ([]string, error) {
	if len(aliases) == 0 {
		return nil, nil
	}
	seen := map[string]struct{}{}
	out := make([]string, 0, len(aliases))
	for _, alias := range aliases {
		trimmed := strings.TrimSpace(alias)
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, "/") {
			return nil, posts.ErrAliasInvalid
		}
		normalized := normalizeRequestPath(trimmed)
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func normalizeRequestPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

func canonicalPath(slug string) string {
	return "/posts/" + normalizePostSlug(slug)
}

func deriveCategoryName(category string) string {
	category = normalizeTerm(category)
	if category == "" {
		return ""
	}
	words := strings.FieldsFunc(category, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func normalizeDate(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	utc := value.UTC()
	return &utc
}

func translateRepoError(err error) error {
	if err == nil {
		return nil
	}
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return posts.ErrPostNotFound
	}
	return err
}
