package markdowncmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-essays/internal/commands"
	"github.com/goliatone/go-essays/internal/lint"
	"github.com/goliatone/go-essays/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// HandlerSet groups the command handlers produced by RegisterMarkdownCommands.
type HandlerSet struct {
	Import *ImportDirectoryHandler
	Sync   *SyncDirectoryHandler
	Lint   *LintDirectoryHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	importHandlerOpts []commands.HandlerOption[ImportDirectoryCommand]
	syncHandlerOpts   []commands.HandlerOption[SyncDirectoryCommand]
	lintHandlerOpts   []commands.HandlerOption[LintDirectoryCommand]
	onLintReport      func(*lint.Report)
}

// WithImportHandlerOptions forwards options to the ImportDirectoryHandler constructor.
func WithImportHandlerOptions(opts ...commands.HandlerOption[ImportDirectoryCommand]) Option {
	return func(cfg *options) {
		cfg.importHandlerOpts = append(cfg.importHandlerOpts, opts...)
	}
}

// WithSyncHandlerOptions forwards options to the SyncDirectoryHandler constructor.
func WithSyncHandlerOptions(opts ...commands.HandlerOption[SyncDirectoryCommand]) Option {
	return func(cfg *options) {
		cfg.syncHandlerOpts = append(cfg.syncHandlerOpts, opts...)
	}
}

// WithLintHandlerOptions forwards options to the LintDirectoryHandler constructor.
func WithLintHandlerOptions(opts ...commands.HandlerOption[LintDirectoryCommand]) Option {
	return func(cfg *options) {
		cfg.lintHandlerOpts = append(cfg.lintHandlerOpts, opts...)
	}
}

// WithLintReportSink receives every lint report produced by the lint handler.
func WithLintReportSink(sink func(*lint.Report)) Option {
	return func(cfg *options) {
		cfg.onLintReport = sink
	}
}

// RegisterMarkdownCommands builds the markdown command handlers and registers
// them with the provided registry. The returned HandlerSet lets callers wire
// additional integrations (dispatcher, cron) as needed.
func RegisterMarkdownCommands(reg CommandRegistry, service interfaces.MarkdownService, linter *lint.Linter, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("markdown command registration: service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "markdown")

	importHandler := NewImportDirectoryHandler(service, logger, cfg.importHandlerOpts...)
	syncHandler := NewSyncDirectoryHandler(service, logger, cfg.syncHandlerOpts...)

	set := &HandlerSet{
		Import: importHandler,
		Sync:   syncHandler,
	}
	if linter != nil {
		set.Lint = NewLintDirectoryHandler(service, linter, logger, cfg.onLintReport, cfg.lintHandlerOpts...)
	}

	if reg != nil {
		if err := reg.RegisterCommand(importHandler); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(syncHandler); err != nil {
			return nil, err
		}
		if set.Lint != nil {
			if err := reg.RegisterCommand(set.Lint); err != nil {
				return nil, err
			}
		}
	}

	return set, nil
}

// RegisterSyncCron wires the provided sync handler into a cron registrar using
// the supplied command configuration and message payload.
func RegisterSyncCron(reg CronRegistrar, handler *SyncDirectoryHandler, cfg command.HandlerConfig, msg SyncDirectoryCommand) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}
