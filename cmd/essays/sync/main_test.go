package main

import (
	"context"
	"testing"

	"github.com/goliatone/go-essays/cmd/essays/internal/bootstrap"
	"github.com/goliatone/go-essays/internal/logging"
	"github.com/goliatone/go-essays/pkg/interfaces"
)

type stubMarkdownService struct {
	syncCalls int
	syncDir   string
	syncOpts  interfaces.SyncOptions
}

func (s *stubMarkdownService) Load(context.Context, string, interfaces.LoadOptions) (*interfaces.Document, error) {
	return nil, nil
}

func (s *stubMarkdownService) LoadDirectory(context.Context, string, interfaces.LoadOptions) ([]*interfaces.Document, error) {
	return nil, nil
}

func (s *stubMarkdownService) Import(context.Context, *interfaces.Document, interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	return nil, nil
}

func (s *stubMarkdownService) ImportDirectory(context.Context, string, interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	return nil, nil
}

func (s *stubMarkdownService) Sync(_ context.Context, dir string, opts interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	s.syncCalls++
	s.syncDir = dir
	s.syncOpts = opts
	return &interfaces.SyncResult{}, nil
}

func TestRunSyncUsesCommandHandler(t *testing.T) {
	original := moduleBuilder
	defer func() { moduleBuilder = original }()

	svc := &stubMarkdownService{}
	moduleBuilder = func(context.Context, bootstrap.Options) (*bootstrap.Module, error) {
		return &bootstrap.Module{
			Service: svc,
			Logger:  logging.NoOp(),
		}, nil
	}

	if err := runSync([]string{"--directory", "essays", "--delete-orphaned"}); err != nil {
		t.Fatalf("run sync: %v", err)
	}

	if svc.syncCalls != 1 {
		t.Fatalf("expected one sync call, got %d", svc.syncCalls)
	}
	if svc.syncDir != "essays" {
		t.Fatalf("unexpected directory %q", svc.syncDir)
	}
	if !svc.syncOpts.DeleteOrphaned {
		t.Fatal("expected delete-orphaned to propagate")
	}
}
