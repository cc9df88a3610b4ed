package lint

import (
	"net/url"
	"path"
	"strings"

	"github.com/goliatone/go-essays/pkg/interfaces"
)

// corpusIndex is the lookup surface for cross-document checks.
type corpusIndex struct {
	slugByPath  map[string]string
	pathBySlug  map[string]string
	aliasOwners map[string]string
	filePaths   map[string]struct{}
}

func buildCorpusIndex(docs []*interfaces.Document) *corpusIndex {
	idx := &corpusIndex{
		slugByPath:  make(map[string]string, len(docs)),
		pathBySlug:  make(map[string]string, len(docs)),
		aliasOwners: make(map[string]string),
		filePaths:   make(map[string]struct{}, len(docs)),
	}
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		idx.filePaths[normalizeFilePath(doc.FilePath)] = struct{}{}
		slug := DeriveSlug(doc)
		if slug == "" {
			continue
		}
		idx.slugByPath[doc.FilePath] = slug
		if _, taken := idx.pathBySlug[slug]; !taken {
			idx.pathBySlug[slug] = doc.FilePath
		}
	}
	return idx
}

// checkCorpus runs invariants that only hold across the whole corpus:
// slug uniqueness, alias collisions, and internal link resolution.
func (l *Linter) checkCorpus(report *Report, docs []*interfaces.Document) {
	idx := buildCorpusIndex(docs)

	seenSlugs := map[string]string{}
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		slug := idx.slugByPath[doc.FilePath]
		if slug == "" {
			continue
		}
		if first, dup := seenSlugs[slug]; dup {
			report.add(doc.FilePath, "slug", SeverityError, "slug %q already used by %s", slug, first)
			continue
		}
		seenSlugs[slug] = doc.FilePath
	}

	for _, doc := range docs {
		if doc == nil {
			continue
		}
		slug := idx.slugByPath[doc.FilePath]
		for _, alias := range doc.FrontMatter.Aliases {
			normalized := normalizeAliasPath(alias)
			if normalized == "" {
				continue
			}
			if normalized == "/posts/"+slug {
				report.add(doc.FilePath, "aliases", SeverityError, "alias %q duplicates the post's canonical path", alias)
				continue
			}
			if target, ok := strings.CutPrefix(normalized, "/posts/"); ok {
				if owner, exists := idx.pathBySlug[target]; exists && owner != doc.FilePath {
					report.add(doc.FilePath, "aliases", SeverityError, "alias %q shadows post %s", alias, owner)
					continue
				}
			}
			if owner, taken := idx.aliasOwners[normalized]; taken && owner != doc.FilePath {
				report.add(doc.FilePath, "aliases", SeverityError, "alias %q already claimed by %s", alias, owner)
				continue
			}
			idx.aliasOwners[normalized] = doc.FilePath
		}
	}

	for _, doc := range docs {
		if doc == nil {
			continue
		}
		l.checkLinks(report, idx, doc)
	}
}

// checkLinks resolves each outbound reference against the corpus. External
// URLs are reported as warnings only when external checking is enabled;
// actually dialing them is left to the caller's CI.
func (l *Linter) checkLinks(report *Report, idx *corpusIndex, doc *interfaces.Document) {
	for _, link := range doc.Links {
		dest := strings.TrimSpace(link.Destination)
		if dest == "" || strings.HasPrefix(dest, "#") || strings.HasPrefix(dest, "mailto:") {
			continue
		}
		if isExternal(dest) {
			if l.externalLinks {
				report.add(doc.FilePath, "links", SeverityWarning, "external link %s is not verified", dest)
			}
			continue
		}
		if link.Image {
			// images resolve against site assets the corpus does not carry
			continue
		}
		if resolveInternalLink(idx, doc, dest) {
			continue
		}
		report.add(doc.FilePath, "links", SeverityError, "internal link %s does not resolve", dest)
	}
}

func resolveInternalLink(idx *corpusIndex, doc *interfaces.Document, dest string) bool {
	dest = stripFragment(dest)
	if dest == "" {
		return true
	}
	if strings.HasPrefix(dest, "/") {
		normalized := normalizeAliasPath(dest)
		if slug, ok := strings.CutPrefix(normalized, "/posts/"); ok {
			if _, exists := idx.pathBySlug[slug]; exists {
				return true
			}
		}
		if _, exists := idx.aliasOwners[normalized]; exists {
			return true
		}
		return false
	}
	// relative reference to a sibling markdown file
	resolved := normalizeFilePath(path.Join(path.Dir(normalizeFilePath(doc.FilePath)), dest))
	_, exists := idx.filePaths[resolved]
	return exists
}

func isExternal(dest string) bool {
	parsed, err := url.Parse(dest)
	if err != nil {
		return false
	}
	return parsed.Scheme != "" || parsed.Host != ""
}

func stripFragment(dest string) string {
	if i := strings.IndexByte(dest, '#'); i >= 0 {
		return dest[:i]
	}
	return dest
}

func normalizeAliasPath(alias string) string {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return ""
	}
	if !strings.HasPrefix(alias, "/") {
		alias = "/" + alias
	}
	if len(alias) > 1 {
		alias = strings.TrimSuffix(alias, "/")
	}
	return alias
}

func normalizeFilePath(filePath string) string {
	return path.Clean(strings.ReplaceAll(filePath, "\\", "/"))
}
