package ezweb

import "time"

// Feed is a parsed RSS or Atom feed.
type Feed struct {
	URL         string
	Title       string
	Description string
	Language    string
	Entries     []FeedEntry
}

// Links returns the distinct entry links in feed order.
func (f *Feed) Links() []string {
	seen := make(map[string]bool)
	var links []string
	for _, e := range f.Entries {
		if e.Link == "" || seen[e.Link] {
			continue
		}
		seen[e.Link] = true
		links = append(links, e.Link)
	}
	return links
}

// FeedEntry is one item of a feed.
type FeedEntry struct {
	Link      string
	Title     string
	Tags      []string
	Published *time.Time
}

// FeedParser parses feed documents.
type FeedParser interface {
	// ParseFeed parses a raw RSS or Atom document.
	ParseFeed(raw string) (*Feed, error)
}
