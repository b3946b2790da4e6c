package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ezweb"
)

// Ensure LoggingSitemapService implements ezweb.SitemapService.
var _ ezweb.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with logging.
type LoggingSitemapService struct {
	next   ezweb.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next ezweb.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// SitemapURL delegates to the wrapped service and logs the operation.
func (s *LoggingSitemapService) SitemapURL(ctx context.Context, rootURL string) (sitemapURL string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("sitemap lookup",
			"url", rootURL,
			"sitemap", sitemapURL,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SitemapURL(ctx, rootURL)
}

// SitemapLinks delegates to the wrapped service and logs the operation.
func (s *LoggingSitemapService) SitemapLinks(ctx context.Context, sitemapURL string, contain []string) (links []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("sitemap links",
			"url", sitemapURL,
			"contain", contain,
			"count", len(links),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SitemapLinks(ctx, sitemapURL, contain)
}
