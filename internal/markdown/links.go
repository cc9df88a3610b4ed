package markdown

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-essays/pkg/interfaces"
)

// The engine is used purely as a parser: the AST gives us link destinations
// and text segments, and no HTML is ever rendered from it.
var (
	engineOnce sync.Once
	engine     goldmark.Markdown
)

func parserEngine() goldmark.Markdown {
	engineOnce.Do(func() {
		engine = goldmark.New(
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Footnote),
		)
	})
	return engine
}

// ExtractLinks walks the Markdown AST and collects every link and image
// destination in document order.
func ExtractLinks(body []byte) ([]interfaces.Link, error) {
	root := parserEngine().Parser().Parse(text.NewReader(body))

	var links []interfaces.Link
	err := ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Link:
			links = append(links, interfaces.Link{
				Destination: string(n.Destination),
				Title:       string(n.Title),
			})
		case *ast.Image:
			links = append(links, interfaces.Link{
				Destination: string(n.Destination),
				Title:       string(n.Title),
				Image:       true,
			})
		case *ast.AutoLink:
			links = append(links, interfaces.Link{
				Destination: string(n.URL(body)),
			})
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return links, nil
}

// Excerpt extracts the leading plain text of the body, capped at maxRunes,
// for use as a feed summary when the front matter carries none. Code blocks
// are skipped so quoted snippets never leak into summaries.
func Excerpt(body []byte, maxRunes int) (string, error) {
	if maxRunes <= 0 {
		return "", nil
	}

	root := parserEngine().Parser().Parse(text.NewReader(body))

	var builder strings.Builder
	err := ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if utf8.RuneCountInString(builder.String()) >= maxRunes {
			return ast.WalkStop, nil
		}
		switch n := node.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			segment := n.Segment
			appendText(&builder, string(segment.Value(body)))
		case *ast.String:
			appendText(&builder, string(n.Value))
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", err
	}

	return truncateRunes(normalizeSpace(builder.String()), maxRunes), nil
}

func appendText(builder *strings.Builder, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if builder.Len() > 0 {
		builder.WriteByte(' ')
	}
	builder.WriteString(value)
}

func normalizeSpace(input string) string {
	return strings.Join(strings.Fields(input), " ")
}

func truncateRunes(input string, limit int) string {
	if utf8.RuneCountInString(input) <= limit {
		return input
	}
	runes := []rune(input)
	truncated := strings.TrimRight(string(runes[:limit]), " ")
	return truncated + "…"
}
