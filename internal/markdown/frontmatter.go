package markdown

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-essays/pkg/interfaces"
	"github.com/goliatone/go-essays/posts"
)

// ParseFrontMatter extracts metadata and Markdown body content from the
// provided source bytes. It returns the structured front matter, the body
// without delimiters, and any error encountered.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return envelopeToFrontMatter(meta), body, nil
}

// BuildDocument assembles an interfaces.Document from the supplied file path,
// raw content, and modification time. Links are populated from the body so
// lint passes can resolve them without re-parsing.
func BuildDocument(path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	frontmatter, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	links, err := ExtractLinks(body)
	if err != nil {
		return nil, err
	}

	return &interfaces.Document{
		FilePath:     path,
		FrontMatter:  frontmatter,
		Body:         body,
		LastModified: modified,
		Links:        links,
	}, nil
}

// DeriveSlug resolves the canonical slug for a document: explicit front matter
// wins, otherwise the filename stem is normalized.
func DeriveSlug(doc *interfaces.Document) string {
	if doc == nil {
		return ""
	}
	candidate := strings.TrimSpace(doc.FrontMatter.Slug)
	if candidate == "" {
		base := filepath.Base(doc.FilePath)
		candidate = strings.TrimSuffix(base, filepath.Ext(base))
	}
	normalized, err := posts.NormalizeSlug(candidate)
	if err != nil {
		return ""
	}
	return normalized
}

type frontMatterEnvelope struct {
	Title      string         `yaml:"title"`
	Slug       string         `yaml:"slug"`
	Summary    string         `yaml:"summary"`
	Date       time.Time      `yaml:"date"`
	Draft      bool           `yaml:"draft"`
	Aliases    []string       `yaml:"aliases"`
	Categories []string       `yaml:"categories"`
	Tags       []string       `yaml:"tags"`
	Custom     map[string]any `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) interfaces.FrontMatter {
	if env.Custom == nil {
		env.Custom = map[string]any{}
	}

	raw := make(map[string]any, len(env.Custom)+8)
	for key, value := range env.Custom {
		raw[key] = value
	}

	if env.Title != "" {
		raw["title"] = env.Title
	}
	if env.Slug != "" {
		raw["slug"] = env.Slug
	}
	if env.Summary != "" {
		raw["summary"] = env.Summary
	}
	if !env.Date.IsZero() {
		raw["date"] = env.Date
	}
	if len(env.Aliases) > 0 {
		raw["aliases"] = append([]string(nil), env.Aliases...)
	}
	if len(env.Categories) > 0 {
		raw["categories"] = append([]string(nil), env.Categories...)
	}
	if len(env.Tags) > 0 {
		raw["tags"] = append([]string(nil), env.Tags...)
	}
	raw["draft"] = env.Draft

	return interfaces.FrontMatter{
		Title:      env.Title,
		Slug:       env.Slug,
		Summary:    env.Summary,
		Date:       env.Date,
		Draft:      env.Draft,
		Aliases:    append([]string(nil), env.Aliases...),
		Categories: append([]string(nil), env.Categories...),
		Tags:       append([]string(nil), env.Tags...),
		Custom:     cloneMap(env.Custom),
		Raw:        raw,
	}
}

func cloneMap(input map[string]any) map[string]any {
	if input == nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
