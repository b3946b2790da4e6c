package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fwojciec/ezweb"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ ezweb.SourceService = (*SourceService)(nil)

// SourceService implements ezweb.SourceService using SQLite.
type SourceService struct {
	db *DB
}

// NewSourceService creates a new SourceService.
func NewSourceService(db *DB) *SourceService {
	return &SourceService{db: db}
}

// execer is satisfied by both *DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CreateSource stores src, replacing any source of the same host.
// A missing ID or discovery time is filled in.
func (s *SourceService) CreateSource(ctx context.Context, src *ezweb.Source) error {
	return upsertSource(ctx, s.db, src)
}

func upsertSource(ctx context.Context, db execer, src *ezweb.Source) error {
	if err := src.Validate(); err != nil {
		return err
	}
	if src.ID == "" {
		src.ID = uuid.New().String()
	}
	if src.DiscoveredAt.IsZero() {
		src.DiscoveredAt = time.Now().UTC()
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO sources (host, id, url, name, description, language, favicon_url, feed_url, sitemap_url, discovered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(host) DO UPDATE SET
			id = excluded.id,
			url = excluded.url,
			name = excluded.name,
			description = excluded.description,
			language = excluded.language,
			favicon_url = excluded.favicon_url,
			feed_url = excluded.feed_url,
			sitemap_url = excluded.sitemap_url,
			discovered_at = excluded.discovered_at
	`, src.Host, src.ID, src.URL, src.Name, src.Description, src.Language,
		src.FaviconURL, src.FeedURL, src.SitemapURL, formatTime(src.DiscoveredAt))
	return err
}

// FindSourceByHost retrieves the source of a host.
func (s *SourceService) FindSourceByHost(ctx context.Context, host string) (*ezweb.Source, error) {
	var src ezweb.Source
	var discoveredAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, url, host, name, description, language, favicon_url, feed_url, sitemap_url, discovered_at
		FROM sources
		WHERE host = ?
	`, host).Scan(&src.ID, &src.URL, &src.Host, &src.Name, &src.Description, &src.Language,
		&src.FaviconURL, &src.FeedURL, &src.SitemapURL, &discoveredAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ezweb.Errorf(ezweb.ENOTFOUND, "source not found")
	}
	if err != nil {
		return nil, err
	}

	src.DiscoveredAt, err = parseTime(discoveredAt, "discovered_at")
	if err != nil {
		return nil, err
	}
	return &src, nil
}
