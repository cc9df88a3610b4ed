package markdowncmd

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-essays/internal/lint"
	"github.com/goliatone/go-essays/internal/markdown"
	internalposts "github.com/goliatone/go-essays/internal/posts"
	"github.com/goliatone/go-essays/posts"
)

const essaySource = `---
title: Errors As Values
slug: errors-as-values
date: 2024-03-18T00:00:00Z
---
Errors are values.
`

const draftSource = `---
title: Laziness Considered
slug: laziness
draft: true
---
Some day.
`

func newTestService(t *testing.T, files fstest.MapFS) (*markdown.Service, posts.Service) {
	t.Helper()
	postService := internalposts.NewService(internalposts.NewMemoryRepository())
	service := markdown.NewServiceWithFS(markdown.Config{Recursive: true}, files, postService)
	return service, postService
}

func corpusFS() fstest.MapFS {
	return fstest.MapFS{
		"content/errors-as-values.md": &fstest.MapFile{Data: []byte(essaySource)},
		"content/laziness.md":         &fstest.MapFile{Data: []byte(draftSource)},
	}
}

func TestImportDirectoryHandler(t *testing.T) {
	service, postService := newTestService(t, corpusFS())
	handler := NewImportDirectoryHandler(service, nil)

	if err := handler.Execute(context.Background(), ImportDirectoryCommand{Directory: "content"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if _, err := postService.GetPostBySlug(context.Background(), "errors-as-values"); err != nil {
		t.Fatalf("expected imported post: %v", err)
	}
	if _, err := postService.GetPostBySlug(context.Background(), "laziness"); err != nil {
		t.Fatalf("expected imported draft: %v", err)
	}
}

func TestImportDirectoryHandlerRequiresDirectory(t *testing.T) {
	service, _ := newTestService(t, corpusFS())
	handler := NewImportDirectoryHandler(service, nil)

	err := handler.Execute(context.Background(), ImportDirectoryCommand{})
	if err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestSyncDirectoryHandlerDeletesOrphans(t *testing.T) {
	files := corpusFS()
	service, postService := newTestService(t, files)
	handler := NewSyncDirectoryHandler(service, nil)

	if err := handler.Execute(context.Background(), SyncDirectoryCommand{Directory: "content"}); err != nil {
		t.Fatalf("initial sync: %v", err)
	}

	delete(files, "content/laziness.md")
	if err := handler.Execute(context.Background(), SyncDirectoryCommand{Directory: "content", DeleteOrphaned: true}); err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if _, err := postService.GetPostBySlug(context.Background(), "laziness"); !errors.Is(err, posts.ErrPostNotFound) {
		t.Fatalf("expected orphan deleted, got %v", err)
	}
}

func TestLintDirectoryHandler(t *testing.T) {
	service, _ := newTestService(t, corpusFS())
	linter, err := lint.New(lint.Config{})
	if err != nil {
		t.Fatalf("new linter: %v", err)
	}

	var captured *lint.Report
	handler := NewLintDirectoryHandler(service, linter, nil, func(report *lint.Report) {
		captured = report
	})

	if err := handler.Execute(context.Background(), LintDirectoryCommand{Directory: "content"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if captured == nil || captured.Checked != 2 {
		t.Fatalf("expected report for 2 documents, got %+v", captured)
	}
}

func TestLintDirectoryHandlerFailsOnErrors(t *testing.T) {
	files := fstest.MapFS{
		"content/broken.md": &fstest.MapFile{Data: []byte("---\ndate: 2024-01-01T00:00:00Z\n---\nNo title.\n")},
	}
	service, _ := newTestService(t, files)
	linter, err := lint.New(lint.Config{})
	if err != nil {
		t.Fatalf("new linter: %v", err)
	}
	handler := NewLintDirectoryHandler(service, linter, nil, nil)

	execErr := handler.Execute(context.Background(), LintDirectoryCommand{Directory: "content"})
	if !errors.Is(execErr, ErrLintFailed) {
		t.Fatalf("expected lint failure, got %v", execErr)
	}
}

func TestRegisterMarkdownCommands(t *testing.T) {
	service, _ := newTestService(t, corpusFS())
	linter, err := lint.New(lint.Config{})
	if err != nil {
		t.Fatalf("new linter: %v", err)
	}

	registry := &recordingRegistry{}
	set, err := RegisterMarkdownCommands(registry, service, linter, nil)
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}
	if set.Import == nil || set.Sync == nil || set.Lint == nil {
		t.Fatalf("expected full handler set, got %+v", set)
	}
	if len(registry.handlers) != 3 {
		t.Fatalf("expected 3 registered handlers, got %d", len(registry.handlers))
	}
}

type recordingRegistry struct {
	handlers []any
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	return nil
}
