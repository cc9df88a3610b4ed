package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-essays/cmd/essays/internal/bootstrap"
	markdowncmd "github.com/goliatone/go-essays/internal/commands/markdown"
	"github.com/goliatone/go-essays/internal/lint"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	err := runLint(os.Args[1:])
	switch {
	case err == nil:
	case errors.Is(err, markdowncmd.ErrLintFailed):
		os.Exit(1)
	default:
		log.Fatalf("essays lint: %v", err)
	}
}

func runLint(args []string) error {
	fs := flag.NewFlagSet("essays-lint", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the markdown content root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering markdown files")
	directory := fs.String("directory", ".", "Directory to lint, relative to the content root")
	categories := fs.String("categories", "", "Comma separated category vocabulary; unknown categories are flagged")
	externalLinks := fs.Bool("external-links", false, "Report external links that use unsupported schemes")
	failOnWarnings := fs.Bool("fail-on-warnings", false, "Treat warnings as failures")

	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()

	module, err := moduleBuilder(ctx, bootstrap.Options{
		ContentDir:    *contentDir,
		Pattern:       *pattern,
		Recursive:     true,
		Categories:    bootstrap.SplitList(*categories),
		ExternalLinks: *externalLinks,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	handler := markdowncmd.NewLintDirectoryHandler(
		module.Service,
		module.Module.Lint(),
		module.Logger,
		printReport,
	)
	cmd := markdowncmd.LintDirectoryCommand{
		Directory:      *directory,
		FailOnWarnings: *failOnWarnings,
	}
	if err := handler.Execute(ctx, cmd); err != nil {
		return fmt.Errorf("execute lint command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "essays lint command executed successfully")

	return nil
}

func printReport(report *lint.Report) {
	if report == nil {
		return
	}
	for _, issue := range report.Issues {
		fmt.Fprintln(os.Stderr, issue.String())
	}
	fmt.Fprintln(os.Stdout, report.Summary())
}
