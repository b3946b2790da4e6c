// Package sqlite provides SQLite-based storage for discovered sources and
// built pages.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// pragmas are applied to every new connection. WAL is skipped for
// in-memory databases, which do not support it.
var pragmas = []struct {
	stmt       string
	fileBacked bool
}{
	{"PRAGMA busy_timeout = 5000", false},
	{"PRAGMA journal_mode = WAL", true},
	{"PRAGMA foreign_keys = ON", false},
}

// Open opens the database, creating its directory if needed, and migrates
// the schema to the latest version.
func (db *DB) Open() error {
	inMemory := db.path == ":memory:"
	if !inMemory {
		if err := os.MkdirAll(filepath.Dir(db.path), 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	for _, p := range pragmas {
		if p.fileBacked && inMemory {
			continue
		}
		if _, err := conn.Exec(p.stmt); err != nil {
			conn.Close()
			return fmt.Errorf("failed to apply %q: %w", p.stmt, err)
		}
	}

	db.db = conn
	if err := db.migrate(context.Background()); err != nil {
		conn.Close()
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}

// Stats returns database statistics.
func (db *DB) Stats() sql.DBStats {
	return db.db.Stats()
}

// Version returns the schema version of the open database.
func (db *DB) Version(ctx context.Context) (int, error) {
	var v int
	err := db.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v)
	return v, err
}

// migrate applies the migrations newer than the stored user_version, each
// in its own transaction.
func (db *DB) migrate(ctx context.Context) error {
	current, err := db.Version(ctx)
	if err != nil {
		return err
	}
	for i := current; i < len(migrations); i++ {
		tx, err := db.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		// PRAGMA does not take bind parameters.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// migrations are applied in order; a database at user_version N has run
// the first N of them. Never edit a released migration, append a new one.
var migrations = []string{
	`CREATE TABLE sources (
		host TEXT PRIMARY KEY,
		id TEXT NOT NULL,
		url TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		language TEXT NOT NULL DEFAULT '',
		favicon_url TEXT NOT NULL DEFAULT '',
		feed_url TEXT NOT NULL DEFAULT '',
		sitemap_url TEXT NOT NULL DEFAULT '',
		discovered_at TEXT NOT NULL
	);

	CREATE TABLE pages (
		url TEXT PRIMARY KEY,
		id TEXT NOT NULL,
		host TEXT NOT NULL,
		source_host TEXT REFERENCES sources(host) ON DELETE SET NULL,
		title TEXT NOT NULL DEFAULT '',
		canonical_title TEXT NOT NULL DEFAULT '',
		site_name TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		main_image TEXT NOT NULL DEFAULT '',
		language TEXT NOT NULL DEFAULT '',
		topics TEXT NOT NULL DEFAULT '[]',
		classification TEXT NOT NULL,
		possibility REAL NOT NULL DEFAULT 0,
		article TEXT,
		product TEXT,
		links TEXT NOT NULL DEFAULT '[]',
		files TEXT NOT NULL DEFAULT '[]',
		content_hash TEXT NOT NULL DEFAULT '',
		degraded INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		crawled_at TEXT NOT NULL
	);`,

	`CREATE INDEX idx_pages_host ON pages(host);
	CREATE INDEX idx_pages_source_host ON pages(source_host);
	CREATE INDEX idx_pages_classification ON pages(classification);
	CREATE INDEX idx_pages_crawled_at ON pages(crawled_at);`,
}
