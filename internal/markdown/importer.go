package markdown

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-essays/domain"
	"github.com/goliatone/go-essays/internal/logging"
	"github.com/goliatone/go-essays/pkg/interfaces"
	"github.com/goliatone/go-essays/posts"
)

var (
	ErrPostServiceRequired = errors.New("markdown importer: post service is required")
	ErrSlugMissing         = errors.New("markdown importer: slug could not be derived")
)

// ImporterConfig encapsulates dependencies required to persist documents.
type ImporterConfig struct {
	Posts  posts.Service
	Logger interfaces.Logger
}

// Importer reconciles markdown documents with the post store. Updates are
// checksum-gated so unchanged files short-circuit to a skip.
type Importer struct {
	posts  posts.Service
	logger interfaces.Logger
}

// NewImporter builds an Importer from the supplied configuration.
func NewImporter(cfg ImporterConfig) *Importer {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Importer{
		posts:  cfg.Posts,
		logger: logger,
	}
}

// ImportDocument imports a single markdown document.
func (i *Importer) ImportDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	if i.posts == nil {
		return nil, ErrPostServiceRequired
	}
	acc := newImportAccumulator()
	if err := i.applyDocument(ctx, doc, opts, acc); err != nil {
		acc.addError(err)
	}
	return acc.result(), firstError(acc.errors)
}

// ImportDocuments imports an arbitrary slice of documents in a stable order.
func (i *Importer) ImportDocuments(ctx context.Context, docs []*interfaces.Document, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	if i.posts == nil {
		return nil, ErrPostServiceRequired
	}

	acc := newImportAccumulator()
	for _, doc := range sortDocuments(docs) {
		if err := i.applyDocument(ctx, doc, opts, acc); err != nil {
			acc.addError(err)
		}
	}
	return acc.result(), firstError(acc.errors)
}

// SyncDocuments imports all provided documents and optionally deletes posts
// whose source files disappeared.
func (i *Importer) SyncDocuments(ctx context.Context, docs []*interfaces.Document, opts interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	if i.posts == nil {
		return nil, ErrPostServiceRequired
	}

	acc := newSyncAccumulator()
	seen := make(map[string]struct{}, len(docs))

	for _, doc := range sortDocuments(docs) {
		res := newImportAccumulator()
		if err := i.applyDocument(ctx, doc, opts.ImportOptions, res); err != nil {
			res.addError(err)
		}
		if slug := DeriveSlug(doc); slug != "" {
			seen[slug] = struct{}{}
		}
		acc.merge(res.result())
	}

	if opts.DeleteOrphaned {
		if err := i.deleteOrphaned(ctx, seen, opts, acc); err != nil {
			acc.addError(err)
		}
	}

	return acc.result(), firstError(acc.errors)
}

func (i *Importer) applyDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ImportOptions, acc *importAccumulator) error {
	if doc == nil {
		return errors.New("markdown importer: nil document")
	}
	slug := DeriveSlug(doc)
	if slug == "" {
		return fmt.Errorf("%w: %s", ErrSlugMissing, doc.FilePath)
	}

	checksum := hex.EncodeToString(doc.Checksum)
	existing, err := i.posts.GetPostBySlug(ctx, slug)
	if err != nil && !errors.Is(err, posts.ErrPostNotFound) {
		return fmt.Errorf("markdown importer: post lookup %s: %w", slug, err)
	}

	if existing == nil {
		if opts.DryRun {
			acc.skip(uuid.Nil)
			return nil
		}
		created, createErr := i.posts.CreatePost(ctx, buildCreateInput(doc, slug, checksum, opts))
		if createErr != nil {
			return fmt.Errorf("markdown importer: create post %s: %w", slug, createErr)
		}
		i.logger.Debug("imported post", "slug", slug, "path", doc.FilePath)
		acc.created(created.ID)
		return nil
	}

	if existing.Checksum == checksum {
		acc.skip(existing.ID)
		return nil
	}
	if opts.DryRun {
		acc.skip(existing.ID)
		return nil
	}

	updated, updateErr := i.posts.UpdatePost(ctx, buildUpdateInput(doc, existing.ID, checksum))
	if updateErr != nil {
		return fmt.Errorf("markdown importer: update post %s: %w", slug, updateErr)
	}
	i.logger.Debug("refreshed post", "slug", slug, "path", doc.FilePath)
	acc.updated(updated.ID)
	return nil
}

// deleteOrphaned removes posts that were imported from files no longer on
// disk. Posts without a source path were created some other way and are left
// alone.
func (i *Importer) deleteOrphaned(ctx context.Context, seen map[string]struct{}, opts interfaces.SyncOptions, acc *syncAccumulator) error {
	existing, err := i.posts.ListPosts(ctx, posts.ListFilter{IncludeDrafts: true})
	if err != nil {
		return fmt.Errorf("markdown importer: list posts: %w", err)
	}

	for _, record := range existing {
		if record.SourcePath == "" {
			continue
		}
		if _, ok := seen[record.Slug]; ok {
			continue
		}
		if opts.DryRun {
			acc.deleted++
			continue
		}
		if err := i.posts.DeletePost(ctx, record.ID); err != nil {
			return fmt.Errorf("markdown importer: delete post %s: %w", record.Slug, err)
		}
		i.logger.Debug("deleted orphaned post", "slug", record.Slug)
		acc.deleted++
	}
	return nil
}

func buildCreateInput(doc *interfaces.Document, slug, checksum string, opts interfaces.ImportOptions) posts.CreatePostInput {
	fm := doc.FrontMatter
	status, publishedAt := documentStatus(doc)
	return posts.CreatePostInput{
		Slug:        slug,
		Title:       documentTitle(doc, slug),
		Summary:     optionalString(fm.Summary),
		Status:      status,
		PublishedAt: publishedAt,
		Categories:  fm.Categories,
		Tags:        fm.Tags,
		Aliases:     fm.Aliases,
		SourcePath:  doc.FilePath,
		Checksum:    checksum,
		Body:        string(doc.Body),
		Metadata:    fm.Custom,
		CreatedBy:   opts.AuthorID,
	}
}

func buildUpdateInput(doc *interfaces.Document, id uuid.UUID, checksum string) posts.UpdatePostInput {
	fm := doc.FrontMatter
	status, publishedAt := documentStatus(doc)
	title := documentTitle(doc, "")
	body := string(doc.Body)
	sourcePath := doc.FilePath
	input := posts.UpdatePostInput{
		ID:         id,
		Title:      &title,
		Summary:    stringPtr(strings.TrimSpace(fm.Summary)),
		Status:     &status,
		Categories: emptyNotNil(fm.Categories),
		Tags:       emptyNotNil(fm.Tags),
		Aliases:    emptyNotNil(fm.Aliases),
		SourcePath: &sourcePath,
		Checksum:   &checksum,
		Body:       &body,
		Metadata:   fm.Custom,
	}
	if publishedAt != nil {
		input.PublishedAt = publishedAt
	}
	return input
}

// documentStatus maps front matter onto post status: drafts stay drafts, and
// a post cannot publish without a date.
func documentStatus(doc *interfaces.Document) (domain.Status, *time.Time) {
	fm := doc.FrontMatter
	if fm.Draft || fm.Date.IsZero() {
		return domain.StatusDraft, nil
	}
	date := fm.Date.UTC()
	return domain.StatusPublished, &date
}

func sortDocuments(docs []*interfaces.Document) []*interfaces.Document {
	sorted := append([]*interfaces.Document(nil), docs...)
	slices.SortFunc(sorted, func(a, b *interfaces.Document) int {
		if a == nil || b == nil {
			return 0
		}
		return strings.Compare(a.FilePath, b.FilePath)
	})
	return sorted
}

func documentTitle(doc *interfaces.Document, slug string) string {
	title := strings.TrimSpace(doc.FrontMatter.Title)
	if title != "" {
		return title
	}
	return fallbackTitle(slug)
}

func fallbackTitle(slug string) string {
	if slug == "" {
		return "Untitled"
	}
	words := strings.Split(strings.ReplaceAll(slug, "_", "-"), "-")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func stringPtr(value string) *string {
	return &value
}

func emptyNotNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

type importAccumulator struct {
	createdIDs []uuid.UUID
	updatedIDs []uuid.UUID
	skippedIDs []uuid.UUID
	errors     []error
}

func newImportAccumulator() *importAccumulator {
	return &importAccumulator{
		createdIDs: []uuid.UUID{},
		updatedIDs: []uuid.UUID{},
		skippedIDs: []uuid.UUID{},
		errors:     []error{},
	}
}

func (a *importAccumulator) created(id uuid.UUID) {
	if id != uuid.Nil {
		a.createdIDs = append(a.createdIDs, id)
	}
}

func (a *importAccumulator) updated(id uuid.UUID) {
	if id != uuid.Nil {
		a.updatedIDs = append(a.updatedIDs, id)
	}
}

func (a *importAccumulator) skip(id uuid.UUID) {
	if id != uuid.Nil {
		a.skippedIDs = append(a.skippedIDs, id)
	}
}

func (a *importAccumulator) addError(err error) {
	if err != nil {
		a.errors = append(a.errors, err)
	}
}

func (a *importAccumulator) result() *interfaces.ImportResult {
	return &interfaces.ImportResult{
		CreatedPostIDs: a.createdIDs,
		UpdatedPostIDs: a.updatedIDs,
		SkippedPostIDs: a.skippedIDs,
		Errors:         a.errors,
	}
}

type syncAccumulator struct {
	created int
	updated int
	deleted int
	skipped int
	errors  []error
}

func newSyncAccumulator() *syncAccumulator {
	return &syncAccumulator{errors: []error{}}
}

func (s *syncAccumulator) merge(res *interfaces.ImportResult) {
	if res == nil {
		return
	}
	s.created += len(res.CreatedPostIDs)
	s.updated += len(res.UpdatedPostIDs)
	s.skipped += len(res.SkippedPostIDs)
	s.errors = append(s.errors, res.Errors...)
}

func (s *syncAccumulator) addError(err error) {
	if err != nil {
		s.errors = append(s.errors, err)
	}
}

func (s *syncAccumulator) result() *interfaces.SyncResult {
	return &interfaces.SyncResult{
		Created: s.created,
		Updated: s.updated,
		Deleted: s.deleted,
		Skipped: s.skipped,
		Errors:  s.errors,
	}
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
