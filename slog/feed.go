package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/ezweb"
)

// Ensure LoggingFeedParser implements ezweb.FeedParser.
var _ ezweb.FeedParser = (*LoggingFeedParser)(nil)

// LoggingFeedParser wraps a FeedParser with debug logging.
type LoggingFeedParser struct {
	next   ezweb.FeedParser
	logger *slog.Logger
}

// NewLoggingFeedParser creates a new LoggingFeedParser.
func NewLoggingFeedParser(next ezweb.FeedParser, logger *slog.Logger) *LoggingFeedParser {
	return &LoggingFeedParser{next: next, logger: logger}
}

// ParseFeed delegates to the wrapped parser and logs the operation.
func (p *LoggingFeedParser) ParseFeed(raw string) (feed *ezweb.Feed, err error) {
	defer func(begin time.Time) {
		var title string
		var entries int
		if feed != nil {
			title, entries = feed.Title, len(feed.Entries)
		}
		p.logger.Debug("parse feed",
			"bytes", len(raw),
			"title", title,
			"entries", entries,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.ParseFeed(raw)
}
