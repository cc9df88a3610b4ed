package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-essays/cmd/essays/internal/bootstrap"
	"github.com/goliatone/go-essays/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runServe(os.Args[1:]); err != nil {
		log.Fatalf("essays serve: %v", err)
	}
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("essays-serve", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the markdown content root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering markdown files")
	driver := fs.String("driver", "sqlite", "Database driver (sqlite or postgres)")
	dsn := fs.String("dsn", "", "Database DSN; omit to run against the in-memory index")
	baseURL := fs.String("base-url", "", "Public site URL; enables feed routes when set")
	addr := fs.String("addr", ":8080", "Listen address for the read-only API")
	syncOnStart := fs.Bool("sync-on-start", true, "Sync the content directory before serving")

	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	module, err := moduleBuilder(ctx, bootstrap.Options{
		ContentDir: *contentDir,
		Pattern:    *pattern,
		Recursive:  true,
		Driver:     *driver,
		DSN:        *dsn,
		BaseURL:    *baseURL,
		ServerAddr: *addr,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	if *syncOnStart {
		result, err := module.Service.Sync(ctx, ".", interfaces.SyncOptions{})
		if err != nil {
			return fmt.Errorf("sync content: %w", err)
		}
		fmt.Fprintf(os.Stdout, "synced content: %d created, %d updated, %d skipped\n",
			result.Created, result.Updated, result.Skipped)
	}

	srv, err := module.Module.Server()
	if err != nil {
		return fmt.Errorf("configure server: %w", err)
	}

	fmt.Fprintf(os.Stdout, "serving essays API on %s\n", *addr)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	return nil
}
