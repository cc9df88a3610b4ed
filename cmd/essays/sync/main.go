package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-essays/cmd/essays/internal/bootstrap"
	markdowncmd "github.com/goliatone/go-essays/internal/commands/markdown"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runSync(os.Args[1:]); err != nil {
		log.Fatalf("essays sync: %v", err)
	}
}

func runSync(args []string) error {
	fs := flag.NewFlagSet("essays-sync", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the markdown content root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering markdown files")
	directory := fs.String("directory", ".", "Directory to sync, relative to the content root")
	driver := fs.String("driver", "sqlite", "Database driver (sqlite or postgres)")
	dsn := fs.String("dsn", "", "Database DSN; omit to run against the in-memory index")
	author := fs.String("author", "", "Author ID recorded on imported posts")
	dryRun := fs.Bool("dry-run", false, "Preview changes without persisting posts")
	deleteOrphaned := fs.Bool("delete-orphaned", false, "Delete indexed posts whose source files disappeared")

	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()

	module, err := moduleBuilder(ctx, bootstrap.Options{
		ContentDir: *contentDir,
		Pattern:    *pattern,
		Recursive:  true,
		Driver:     *driver,
		DSN:        *dsn,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	authorID, err := bootstrap.ParseUUID(*author)
	if err != nil {
		return fmt.Errorf("parse author: %w", err)
	}

	handler := markdowncmd.NewSyncDirectoryHandler(module.Service, module.Logger)
	cmd := markdowncmd.SyncDirectoryCommand{
		Directory:      *directory,
		AuthorID:       authorID,
		DryRun:         *dryRun,
		DeleteOrphaned: *deleteOrphaned,
	}
	if err := handler.Execute(ctx, cmd); err != nil {
		return fmt.Errorf("execute sync command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "essays sync command executed successfully")

	return nil
}
