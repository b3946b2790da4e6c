package ezweb

import (
	"context"
	"time"
)

// Source describes one website. It is derived once per host and shared by
// reference between the pages of that host; it is never mutated afterwards.
type Source struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	Host         string    `json:"host"`
	Name         string    `json:"name,omitempty"`
	Description  string    `json:"description,omitempty"`
	Language     string    `json:"language,omitempty"`
	FaviconURL   string    `json:"favicon_url,omitempty"`
	FeedURL      string    `json:"feed_url,omitempty"`
	SitemapURL   string    `json:"sitemap_url,omitempty"`
	DiscoveredAt time.Time `json:"discovered_at"`
}

// Validate returns an error if the source contains invalid fields.
func (s *Source) Validate() error {
	if s.URL == "" {
		return Errorf(EINVALID, "source URL required")
	}
	if s.Host == "" {
		return Errorf(EINVALID, "source host required")
	}
	return nil
}

// SourceHints are the site-level facts readable from a homepage.
type SourceHints struct {
	SiteName       string
	FaviconURL     string
	Description    string
	Language       string
	FeedCandidates []string
}

// SourceDiscoverer derives the Source of a URL's site.
type SourceDiscoverer interface {
	// DiscoverSource locates the site name, favicon, feed and sitemap of the
	// site rawURL belongs to. Results are shared for the same host.
	DiscoverSource(ctx context.Context, rawURL string) (*Source, error)
}

// SourceService persists discovered sources.
type SourceService interface {
	// CreateSource stores a source. Storing a host twice replaces the old row.
	CreateSource(ctx context.Context, src *Source) error

	// FindSourceByHost returns the stored source for a host.
	// Returns ENOTFOUND if the source does not exist.
	FindSourceByHost(ctx context.Context, host string) (*Source, error)
}
