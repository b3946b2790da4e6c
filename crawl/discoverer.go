package crawl

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/ezweb"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// feedProbes are tried after the feed links advertised by the homepage.
var feedProbes = []string{"/rss", "/feed", "/feeds"}

// Ensure SourceDiscoverer implements ezweb.SourceDiscoverer at compile time.
var _ ezweb.SourceDiscoverer = (*SourceDiscoverer)(nil)

// SourceDiscoverer derives the Source of a site from its homepage, feed and
// sitemap. Sources are cached per host and concurrent discoveries of the
// same host share one result.
type SourceDiscoverer struct {
	Fetcher  ezweb.Fetcher
	Analyzer ezweb.Analyzer
	Sitemaps ezweb.SitemapService

	// Feeds, when set, parses the accepted feed for name, description and
	// language fallbacks.
	Feeds ezweb.FeedParser

	// Sources, when set, persists every discovered source.
	Sources ezweb.SourceService

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	mu      sync.Mutex
	sources map[string]*ezweb.Source
	group   singleflight.Group
}

// DiscoverSource returns the Source of the site rawURL belongs to.
func (d *SourceDiscoverer) DiscoverSource(ctx context.Context, rawURL string) (*ezweb.Source, error) {
	root, err := ezweb.RootURL(rawURL)
	if err != nil {
		return nil, err
	}
	host := ezweb.Host(root)

	if src := d.cached(host); src != nil {
		return src, nil
	}

	v, err, _ := d.group.Do(host, func() (any, error) {
		if src := d.cached(host); src != nil {
			return src, nil
		}
		src, err := d.discover(ctx, root, host)
		if err != nil {
			return nil, err
		}
		d.mu.Lock()
		if d.sources == nil {
			d.sources = make(map[string]*ezweb.Source)
		}
		d.sources[host] = src
		d.mu.Unlock()
		return src, nil
	})
	if err != nil {
		return nil, err
	}
	src, _ := v.(*ezweb.Source)
	return src, nil
}

func (d *SourceDiscoverer) cached(host string) *ezweb.Source {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sources[host]
}

func (d *SourceDiscoverer) discover(ctx context.Context, root, host string) (*ezweb.Source, error) {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}

	// An unreachable homepage still yields a source named after the domain.
	hints := &ezweb.SourceHints{}
	if resp, err := d.Fetcher.Fetch(ctx, root); err == nil {
		if h, err := d.Analyzer.Inspect(resp.Body, root); err == nil {
			hints = h
		}
	} else if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	feedURL, feed, err := d.findFeed(ctx, root, hints.FeedCandidates)
	if err != nil {
		return nil, err
	}

	sitemapURL, err := d.Sitemaps.SitemapURL(ctx, root)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		sitemapURL = ""
	}

	src := &ezweb.Source{
		ID:           uuid.NewString(),
		URL:          root,
		Host:         host,
		Name:         firstNonEmpty(hints.SiteName, feed.Title, ezweb.NameFromURL(root)),
		Description:  firstNonEmpty(hints.Description, feed.Description),
		Language:     firstNonEmpty(hints.Language, feed.Language),
		FaviconURL:   hints.FaviconURL,
		FeedURL:      feedURL,
		SitemapURL:   sitemapURL,
		DiscoveredAt: now(),
	}
	if err := src.Validate(); err != nil {
		return nil, err
	}

	if d.Sources != nil {
		if err := d.Sources.CreateSource(ctx, src); err != nil {
			return nil, err
		}
	}
	return src, nil
}

// findFeed probes the advertised feed candidates, then the well-known feed
// paths. A candidate is accepted when it can be fetched and is served as
// XML or RSS. The returned feed is never nil; it is empty when the accepted
// document could not be parsed.
func (d *SourceDiscoverer) findFeed(ctx context.Context, root string, candidates []string) (string, *ezweb.Feed, error) {
	probes := append([]string{}, candidates...)
	for _, p := range feedProbes {
		probes = append(probes, root+p)
	}

	seen := make(map[string]bool)
	for _, u := range probes {
		if seen[u] {
			continue
		}
		seen[u] = true

		resp, err := d.Fetcher.Fetch(ctx, u)
		if err != nil {
			if ctx.Err() != nil {
				return "", nil, ctx.Err()
			}
			continue
		}
		if !isFeedContentType(resp.ContentType()) {
			continue
		}

		feed := &ezweb.Feed{URL: u}
		if d.Feeds != nil {
			if parsed, err := d.Feeds.ParseFeed(resp.Body); err == nil {
				feed = parsed
			}
		}
		return u, feed, nil
	}
	return "", &ezweb.Feed{}, nil
}

func isFeedContentType(ct string) bool {
	ct = strings.ToLower(ct)
	return strings.Contains(ct, "xml") || strings.Contains(ct, "rss")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
