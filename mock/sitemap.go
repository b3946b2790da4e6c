package mock

import (
	"context"

	"github.com/fwojciec/ezweb"
)

var _ ezweb.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of ezweb.SitemapService.
type SitemapService struct {
	SitemapURLFn   func(ctx context.Context, rootURL string) (string, error)
	SitemapLinksFn func(ctx context.Context, sitemapURL string, contain []string) ([]string, error)
}

func (s *SitemapService) SitemapURL(ctx context.Context, rootURL string) (string, error) {
	return s.SitemapURLFn(ctx, rootURL)
}

func (s *SitemapService) SitemapLinks(ctx context.Context, sitemapURL string, contain []string) ([]string, error) {
	return s.SitemapLinksFn(ctx, sitemapURL, contain)
}

var _ ezweb.FeedParser = (*FeedParser)(nil)

// FeedParser is a mock implementation of ezweb.FeedParser.
type FeedParser struct {
	ParseFeedFn func(raw string) (*ezweb.Feed, error)
}

func (p *FeedParser) ParseFeed(raw string) (*ezweb.Feed, error) {
	return p.ParseFeedFn(raw)
}
