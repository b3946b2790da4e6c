package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/ezweb"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ ezweb.PageService = (*PageService)(nil)

// PageService implements ezweb.PageService using SQLite. Topics, links,
// files and payloads are stored as JSON columns.
type PageService struct {
	db      *DB
	sources *SourceService
}

// NewPageService creates a new PageService.
func NewPageService(db *DB) *PageService {
	return &PageService{db: db, sources: NewSourceService(db)}
}

const pageColumns = `id, url, host, source_host, title, canonical_title, site_name, description,
	main_image, language, topics, classification, possibility, article, product, links, files,
	content_hash, degraded, duration_ms, crawled_at`

// CreatePage stores page and its source in one transaction. Storing a URL
// twice replaces the old row.
func (s *PageService) CreatePage(ctx context.Context, page *ezweb.Page) error {
	if err := page.Validate(); err != nil {
		return err
	}
	if page.ID == "" {
		page.ID = uuid.New().String()
	}
	if page.Host == "" {
		page.Host = ezweb.Host(page.URL)
	}
	if page.CrawledAt.IsZero() {
		page.CrawledAt = time.Now().UTC()
	}

	topics, err := encodeJSON(page.Topics)
	if err != nil {
		return fmt.Errorf("failed to encode topics: %w", err)
	}
	links, err := encodeJSON(page.Links)
	if err != nil {
		return fmt.Errorf("failed to encode links: %w", err)
	}
	files, err := encodeJSON(page.Files)
	if err != nil {
		return fmt.Errorf("failed to encode files: %w", err)
	}
	article, err := encodeNullableJSON(page.Article)
	if err != nil {
		return fmt.Errorf("failed to encode article: %w", err)
	}
	product, err := encodeNullableJSON(page.Product)
	if err != nil {
		return fmt.Errorf("failed to encode product: %w", err)
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var sourceHost any
	if page.Source != nil {
		if err := upsertSource(ctx, tx, page.Source); err != nil {
			return err
		}
		sourceHost = page.Source.Host
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO pages (`+pageColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			id = excluded.id,
			host = excluded.host,
			source_host = excluded.source_host,
			title = excluded.title,
			canonical_title = excluded.canonical_title,
			site_name = excluded.site_name,
			description = excluded.description,
			main_image = excluded.main_image,
			language = excluded.language,
			topics = excluded.topics,
			classification = excluded.classification,
			possibility = excluded.possibility,
			article = excluded.article,
			product = excluded.product,
			links = excluded.links,
			files = excluded.files,
			content_hash = excluded.content_hash,
			degraded = excluded.degraded,
			duration_ms = excluded.duration_ms,
			crawled_at = excluded.crawled_at
	`, page.ID, page.URL, page.Host, sourceHost, page.Title, page.CanonicalTitle, page.SiteName,
		page.Description, page.MainImage, page.Language, topics, string(page.Classification),
		page.Possibility, article, product, links, files, page.ContentHash, page.Degraded,
		page.Duration.Milliseconds(), formatTime(page.CrawledAt))
	if err != nil {
		return err
	}

	return tx.Commit()
}

// FindPageByURL retrieves the page stored for a URL.
func (s *PageService) FindPageByURL(ctx context.Context, url string) (*ezweb.Page, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+pageColumns+" FROM pages WHERE url = ?", url)
	page, sourceHost, err := scanPage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ezweb.Errorf(ezweb.ENOTFOUND, "page not found")
	}
	if err != nil {
		return nil, err
	}
	if err := s.attachSources(ctx, []*ezweb.Page{page}, []string{sourceHost}); err != nil {
		return nil, err
	}
	return page, nil
}

// FindPages retrieves pages matching the filter, newest first. Pages of
// the same host share one Source.
func (s *PageService) FindPages(ctx context.Context, filter ezweb.PageFilter) ([]*ezweb.Page, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + pageColumns + " FROM pages WHERE 1=1")

	if filter.Host != nil {
		query.WriteString(" AND host = ?")
		args = append(args, *filter.Host)
	}
	if filter.Classification != nil {
		query.WriteString(" AND classification = ?")
		args = append(args, string(*filter.Classification))
	}

	query.WriteString(" ORDER BY crawled_at DESC, url")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*ezweb.Page
	var hosts []string
	for rows.Next() {
		page, sourceHost, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
		hosts = append(hosts, sourceHost)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachSources(ctx, pages, hosts); err != nil {
		return nil, err
	}
	return pages, nil
}

// attachSources loads the source of every page, once per host.
func (s *PageService) attachSources(ctx context.Context, pages []*ezweb.Page, hosts []string) error {
	loaded := make(map[string]*ezweb.Source)
	for i, host := range hosts {
		if host == "" {
			continue
		}
		src, ok := loaded[host]
		if !ok {
			var err error
			src, err = s.sources.FindSourceByHost(ctx, host)
			if err != nil && ezweb.ErrorCode(err) != ezweb.ENOTFOUND {
				return err
			}
			loaded[host] = src
		}
		pages[i].Source = src
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPage(row scanner) (*ezweb.Page, string, error) {
	var page ezweb.Page
	var sourceHost sql.NullString
	var classification, topics, links, files, crawledAt string
	var article, product *string
	var durationMS int64

	if err := row.Scan(&page.ID, &page.URL, &page.Host, &sourceHost, &page.Title,
		&page.CanonicalTitle, &page.SiteName, &page.Description, &page.MainImage, &page.Language,
		&topics, &classification, &page.Possibility, &article, &product, &links, &files,
		&page.ContentHash, &page.Degraded, &durationMS, &crawledAt); err != nil {
		return nil, "", err
	}

	page.Classification = ezweb.Classification(classification)
	page.Duration = time.Duration(durationMS) * time.Millisecond

	var err error
	if page.Topics, err = decodeStrings(topics, "topics"); err != nil {
		return nil, "", err
	}
	if page.Links, err = decodeStrings(links, "links"); err != nil {
		return nil, "", err
	}
	if page.Files, err = decodeStrings(files, "files"); err != nil {
		return nil, "", err
	}
	if page.Article, err = decodeNullable[ezweb.ArticleRecord](article, "article"); err != nil {
		return nil, "", err
	}
	if page.Product, err = decodeNullable[ezweb.ProductRecord](product, "product"); err != nil {
		return nil, "", err
	}
	if page.CrawledAt, err = parseTime(crawledAt, "crawled_at"); err != nil {
		return nil, "", err
	}

	return &page, sourceHost.String, nil
}
