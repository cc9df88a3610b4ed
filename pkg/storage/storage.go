package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

var (
	ErrDSNRequired   = errors.New("storage: dsn is required")
	ErrDriverUnknown = errors.New("storage: unknown driver")
)

// Config selects the database the post index lives in. Driver accepts
// "sqlite" (or "sqlite3") and "postgres" (or "postgresql").
type Config struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open connects to the configured database and wraps it in a bun.DB with
// the matching dialect. Callers own the returned handle and should Close it.
func Open(cfg Config) (*bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, ErrDSNRequired
	}

	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = "sqlite"
	}

	switch driver {
	case "sqlite", "sqlite3":
		sqldb, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		db := bun.NewDB(sqldb, sqlitedialect.New())
		// Shared-cache memory databases disappear once the last
		// connection closes, so pin the pool to a single conn.
		if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
			db.SetMaxOpenConns(1)
		} else {
			applyPoolSettings(db, cfg)
		}
		return db, nil
	case "postgres", "postgresql":
		sqldb, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open postgres: %w", err)
		}
		db := bun.NewDB(sqldb, pgdialect.New())
		applyPoolSettings(db, cfg)
		return db, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrDriverUnknown, cfg.Driver)
	}
}

func applyPoolSettings(db *bun.DB, cfg Config) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}
