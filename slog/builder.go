package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ezweb"
)

// Ensure LoggingPageBuilder implements ezweb.PageBuilder.
var _ ezweb.PageBuilder = (*LoggingPageBuilder)(nil)

// LoggingPageBuilder wraps a PageBuilder with logging.
type LoggingPageBuilder struct {
	next   ezweb.PageBuilder
	logger *slog.Logger
}

// NewLoggingPageBuilder creates a new LoggingPageBuilder.
func NewLoggingPageBuilder(next ezweb.PageBuilder, logger *slog.Logger) *LoggingPageBuilder {
	return &LoggingPageBuilder{next: next, logger: logger}
}

// Build delegates to the wrapped builder and logs the page built.
func (b *LoggingPageBuilder) Build(ctx context.Context, in ezweb.BuildInput) (page *ezweb.Page, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", in.URL}
		if page != nil {
			attrs = append(attrs,
				"classification", page.Classification,
				"possibility", page.Possibility,
				"links", len(page.Links),
			)
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		b.logger.Info("build page", attrs...)
	}(time.Now())
	return b.next.Build(ctx, in)
}
