package markdowncmd

import (
	"context"
	"errors"
	"fmt"

	command "github.com/goliatone/go-command"
	"github.com/google/uuid"

	"github.com/goliatone/go-essays/internal/commands"
	"github.com/goliatone/go-essays/internal/lint"
	"github.com/goliatone/go-essays/internal/logging"
	"github.com/goliatone/go-essays/pkg/interfaces"
)

const (
	importOperation = "markdown.import_directory"
	syncOperation   = "markdown.sync_directory"
	lintOperation   = "markdown.lint_directory"
)

// ErrLintFailed marks a lint run that found blocking issues.
var ErrLintFailed = errors.New("markdown command: lint failed")

var (
	_ command.Commander[ImportDirectoryCommand] = (*ImportDirectoryHandler)(nil)
	_ command.Commander[SyncDirectoryCommand]   = (*SyncDirectoryHandler)(nil)
	_ command.Commander[LintDirectoryCommand]   = (*LintDirectoryHandler)(nil)
)

// ImportDirectoryHandler orchestrates essay directory imports via the shared
// command handler foundation.
type ImportDirectoryHandler struct {
	inner *commands.Handler[ImportDirectoryCommand]
}

// NewImportDirectoryHandler creates a handler bound to the supplied markdown service.
func NewImportDirectoryHandler(service interfaces.MarkdownService, logger interfaces.Logger, opts ...commands.HandlerOption[ImportDirectoryCommand]) *ImportDirectoryHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ImportDirectoryCommand) error {
		result, err := service.ImportDirectory(ctx, msg.Directory, interfaces.ImportOptions{
			AuthorID: msg.AuthorID,
			DryRun:   msg.DryRun,
		})
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"created_count": len(result.CreatedPostIDs),
				"updated_count": len(result.UpdatedPostIDs),
				"skipped_count": len(result.SkippedPostIDs),
				"error_count":   len(result.Errors),
				"dry_run":       msg.DryRun,
			}).Info("markdown.command.import_directory.completed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportDirectoryCommand]{
		commands.WithLogger[ImportDirectoryCommand](baseLogger),
		commands.WithOperation[ImportDirectoryCommand](importOperation),
		commands.WithMessageFields(func(msg ImportDirectoryCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
			}
			if msg.AuthorID != uuid.Nil {
				fields["author_id"] = msg.AuthorID
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ImportDirectoryCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportDirectoryHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ImportDirectoryCommand].
func (h *ImportDirectoryHandler) Execute(ctx context.Context, msg ImportDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SyncDirectoryHandler orchestrates essay sync workflows via the shared
// command handler foundation.
type SyncDirectoryHandler struct {
	inner *commands.Handler[SyncDirectoryCommand]
}

// NewSyncDirectoryHandler creates a handler bound to the supplied markdown service.
func NewSyncDirectoryHandler(service interfaces.MarkdownService, logger interfaces.Logger, opts ...commands.HandlerOption[SyncDirectoryCommand]) *SyncDirectoryHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg SyncDirectoryCommand) error {
		result, err := service.Sync(ctx, msg.Directory, interfaces.SyncOptions{
			ImportOptions: interfaces.ImportOptions{
				AuthorID: msg.AuthorID,
				DryRun:   msg.DryRun,
			},
			DeleteOrphaned: msg.DeleteOrphaned,
		})
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"created_count":  result.Created,
				"updated_count":  result.Updated,
				"deleted_count":  result.Deleted,
				"skipped_count":  result.Skipped,
				"error_count":    len(result.Errors),
				"dry_run":        msg.DryRun,
				"delete_orphans": msg.DeleteOrphaned,
			}).Info("markdown.command.sync_directory.completed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[SyncDirectoryCommand]{
		commands.WithLogger[SyncDirectoryCommand](baseLogger),
		commands.WithOperation[SyncDirectoryCommand](syncOperation),
		commands.WithMessageFields(func(msg SyncDirectoryCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
			}
			if msg.AuthorID != uuid.Nil {
				fields["author_id"] = msg.AuthorID
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			if msg.DeleteOrphaned {
				fields["delete_orphaned"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SyncDirectoryCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SyncDirectoryHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SyncDirectoryCommand].
func (h *SyncDirectoryHandler) Execute(ctx context.Context, msg SyncDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// LintDirectoryHandler loads a directory of essays and runs the corpus linter
// against them.
type LintDirectoryHandler struct {
	inner *commands.Handler[LintDirectoryCommand]
}

// NewLintDirectoryHandler creates a handler bound to the supplied markdown
// service and linter. Reports are delivered through the optional onReport
// callback so CLI frontends can render the issues.
func NewLintDirectoryHandler(service interfaces.MarkdownService, linter *lint.Linter, logger interfaces.Logger, onReport func(*lint.Report), opts ...commands.HandlerOption[LintDirectoryCommand]) *LintDirectoryHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg LintDirectoryCommand) error {
		docs, err := service.LoadDirectory(ctx, msg.Directory, interfaces.LoadOptions{})
		if err != nil {
			return err
		}
		report, err := linter.Run(ctx, docs)
		if err != nil {
			return err
		}
		if onReport != nil {
			onReport(report)
		}
		if report.HasErrors() {
			return fmt.Errorf("%w: %s", ErrLintFailed, report.Summary())
		}
		if msg.FailOnWarnings && len(report.Warnings()) > 0 {
			return fmt.Errorf("%w: %s", ErrLintFailed, report.Summary())
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[LintDirectoryCommand]{
		commands.WithLogger[LintDirectoryCommand](baseLogger),
		commands.WithOperation[LintDirectoryCommand](lintOperation),
		commands.WithMessageFields(func(msg LintDirectoryCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
			}
			if msg.FailOnWarnings {
				fields["fail_on_warnings"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[LintDirectoryCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &LintDirectoryHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[LintDirectoryCommand].
func (h *LintDirectoryHandler) Execute(ctx context.Context, msg LintDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}
