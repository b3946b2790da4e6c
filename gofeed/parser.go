// Package gofeed implements ezweb.FeedParser on top of mmcdole/gofeed,
// which reads RSS, Atom and JSON feeds.
package gofeed

import (
	"strings"

	"github.com/fwojciec/ezweb"
	"github.com/mmcdole/gofeed"
)

// Ensure Parser implements ezweb.FeedParser at compile time.
var _ ezweb.FeedParser = (*Parser)(nil)

// Parser parses feed documents.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFeed parses a raw feed document. Unreadable feeds are EINVALID.
func (p *Parser) ParseFeed(raw string) (*ezweb.Feed, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ezweb.Errorf(ezweb.EINVALID, "empty feed")
	}

	// gofeed.Parser keeps per-parse state, so one is built per call.
	f, err := gofeed.NewParser().ParseString(raw)
	if err != nil {
		return nil, ezweb.Errorf(ezweb.EINVALID, "parse feed: %v", err)
	}

	feed := &ezweb.Feed{
		URL:         firstNonEmpty(f.FeedLink, f.Link),
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		Language:    strings.TrimSpace(f.Language),
	}
	for _, item := range f.Items {
		if item == nil {
			continue
		}
		link := strings.TrimSpace(item.Link)
		if link == "" && len(item.Links) > 0 {
			link = strings.TrimSpace(item.Links[0])
		}
		feed.Entries = append(feed.Entries, ezweb.FeedEntry{
			Link:      link,
			Title:     strings.TrimSpace(item.Title),
			Tags:      item.Categories,
			Published: item.PublishedParsed,
		})
	}
	return feed, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
