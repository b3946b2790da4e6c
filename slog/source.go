package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ezweb"
)

// Ensure LoggingSourceDiscoverer implements ezweb.SourceDiscoverer.
var _ ezweb.SourceDiscoverer = (*LoggingSourceDiscoverer)(nil)

// LoggingSourceDiscoverer wraps a SourceDiscoverer with logging.
type LoggingSourceDiscoverer struct {
	next   ezweb.SourceDiscoverer
	logger *slog.Logger
}

// NewLoggingSourceDiscoverer creates a new LoggingSourceDiscoverer.
func NewLoggingSourceDiscoverer(next ezweb.SourceDiscoverer, logger *slog.Logger) *LoggingSourceDiscoverer {
	return &LoggingSourceDiscoverer{next: next, logger: logger}
}

// DiscoverSource delegates to the wrapped discoverer and logs the source found.
func (d *LoggingSourceDiscoverer) DiscoverSource(ctx context.Context, rawURL string) (src *ezweb.Source, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", rawURL}
		if src != nil {
			attrs = append(attrs,
				"host", src.Host,
				"name", src.Name,
				"feed", src.FeedURL,
				"sitemap", src.SitemapURL,
			)
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		d.logger.Info("discover source", attrs...)
	}(time.Now())
	return d.next.DiscoverSource(ctx, rawURL)
}
