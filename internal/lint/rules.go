package lint

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-essays/internal/markdown"
	"github.com/goliatone/go-essays/pkg/interfaces"
	"github.com/goliatone/go-essays/posts"
)

// checkFrontMatter validates a single document's metadata block.
func (l *Linter) checkFrontMatter(report *Report, doc *interfaces.Document) {
	fm := doc.FrontMatter
	err := validation.ValidateStruct(&fm,
		validation.Field(&fm.Title, validation.Required.Error("title is required")),
		validation.Field(&fm.Date, validation.By(func(value any) error {
			if fm.Draft {
				return nil
			}
			if fm.Date.IsZero() {
				return validation.NewError("validation_date_required", "date is required for non-draft posts")
			}
			return nil
		})),
		validation.Field(&fm.Slug, validation.By(func(value any) error {
			slug, _ := value.(string)
			if strings.TrimSpace(slug) == "" {
				return nil
			}
			if !posts.IsValidSlug(strings.ToLower(strings.TrimSpace(slug))) {
				return validation.NewError("validation_slug_invalid", "slug contains invalid characters")
			}
			return nil
		})),
		validation.Field(&fm.Aliases, validation.By(func(value any) error {
			aliases, _ := value.([]string)
			for _, alias := range aliases {
				trimmed := strings.TrimSpace(alias)
				if trimmed == "" {
					return validation.NewError("validation_alias_empty", "alias must not be empty")
				}
				if !strings.HasPrefix(trimmed, "/") {
					return validation.NewError("validation_alias_relative", "alias must be an absolute path: "+trimmed)
				}
			}
			return nil
		})),
	)
	collectOzzoIssues(report, doc.FilePath, err)

	if fm.Title != "" && markdown.DeriveSlug(doc) == "" {
		report.add(doc.FilePath, "slug", SeverityError, "cannot derive a slug from front matter or filename")
	}
	checkDuplicateEntries(report, doc.FilePath, "categories", fm.Categories)
	checkDuplicateEntries(report, doc.FilePath, "aliases", fm.Aliases)
	l.checkCategories(report, doc)
}

// checkDuplicateEntries flags repeated values within a single post's list
// fields; harmless to the engine but a sign of copy-paste drift.
func checkDuplicateEntries(report *Report, path, field string, values []string) {
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		normalized := strings.ToLower(strings.TrimSpace(value))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			report.add(path, field, SeverityWarning, "duplicate entry %q", value)
			continue
		}
		seen[normalized] = struct{}{}
	}
}

// DeriveSlug resolves the canonical slug for a document.
func DeriveSlug(doc *interfaces.Document) string {
	return markdown.DeriveSlug(doc)
}

// checkCategories enforces the configured category vocabulary when one exists.
func (l *Linter) checkCategories(report *Report, doc *interfaces.Document) {
	if len(l.allowedCategories) == 0 {
		return
	}
	for _, category := range doc.FrontMatter.Categories {
		normalized := strings.ToLower(strings.TrimSpace(category))
		if normalized == "" {
			report.add(doc.FilePath, "categories", SeverityError, "category must not be empty")
			continue
		}
		if _, ok := l.allowedCategories[normalized]; !ok {
			report.add(doc.FilePath, "categories", SeverityError, "unknown category %q", category)
		}
	}
}

func collectOzzoIssues(report *Report, path string, err error) {
	if err == nil {
		return
	}
	if fieldErrors, ok := err.(validation.Errors); ok {
		for field, fieldErr := range fieldErrors {
			report.add(path, strings.ToLower(field), SeverityError, "%s", fieldErr.Error())
		}
		return
	}
	report.add(path, "", SeverityError, "%s", err.Error())
}

