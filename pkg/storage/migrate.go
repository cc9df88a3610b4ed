package storage

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/uptrace/bun"
)

// RunMigrations applies every *.sql file found in fsys in lexicographic
// path order. Migration files are expected to be idempotent (CREATE TABLE
// IF NOT EXISTS and friends); there is no version ledger.
func RunMigrations(ctx context.Context, db *bun.DB, fsys fs.FS) error {
	var paths []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".sql") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("storage: walk migrations: %w", err)
	}
	sort.Strings(paths)

	for _, path := range paths {
		payload, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("storage: read migration %s: %w", path, err)
		}
		if _, err := db.ExecContext(ctx, string(payload)); err != nil {
			return fmt.Errorf("storage: apply migration %s: %w", path, err)
		}
	}
	return nil
}
