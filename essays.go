package essays

import (
	markdowncmd "github.com/goliatone/go-essays/internal/commands/markdown"
	"github.com/goliatone/go-essays/internal/di"
	"github.com/goliatone/go-essays/internal/feeds"
	"github.com/goliatone/go-essays/internal/lint"
	"github.com/goliatone/go-essays/internal/server"
	"github.com/goliatone/go-essays/pkg/interfaces"
	"github.com/goliatone/go-essays/posts"
)

// PostService exports the post service contract for consumers of the module.
type PostService = posts.Service

// MarkdownService exports the markdown pipeline contract.
type MarkdownService = interfaces.MarkdownService

// Linter exports the corpus linter.
type Linter = lint.Linter

// LintReport exports the linter's findings.
type LintReport = lint.Report

// FeedBuilder exports the syndication builder.
type FeedBuilder = feeds.Builder

// Server exports the read-only HTTP API.
type Server = server.Server

// CommandRegistry is the dispatcher surface command handlers register with.
type CommandRegistry = markdowncmd.CommandRegistry

// CommandHandlerSet groups the registered markdown command handlers.
type CommandHandlerSet = markdowncmd.HandlerSet

// Module is the top level corpus runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional
// dependency overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying wiring for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Posts returns the configured post service.
func (m *Module) Posts() PostService {
	return m.container.PostService()
}

// Markdown returns the markdown pipeline bound to the content directory.
func (m *Module) Markdown() (MarkdownService, error) {
	return m.container.MarkdownService()
}

// Lint returns the configured corpus linter.
func (m *Module) Lint() *Linter {
	return m.container.Linter()
}

// Feeds returns the syndication builder.
func (m *Module) Feeds() (*FeedBuilder, error) {
	return m.container.FeedBuilder()
}

// Server returns the read-only HTTP API.
func (m *Module) Server() (*Server, error) {
	return m.container.Server()
}

// RegisterCommands wires the markdown command handlers into the supplied
// dispatcher.
func (m *Module) RegisterCommands(reg CommandRegistry, opts ...markdowncmd.Option) (*CommandHandlerSet, error) {
	service, err := m.Markdown()
	if err != nil {
		return nil, err
	}
	return markdowncmd.RegisterMarkdownCommands(
		reg,
		service,
		m.container.Linter(),
		m.container.LoggerProvider(),
		opts...,
	)
}
