package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ezweb"
)

// Ensure LoggingAnalyzer implements ezweb.Analyzer.
var _ ezweb.Analyzer = (*LoggingAnalyzer)(nil)

// LoggingAnalyzer wraps an Analyzer with debug logging. Degraded analyses
// are logged as warnings.
type LoggingAnalyzer struct {
	next   ezweb.Analyzer
	logger *slog.Logger
}

// NewLoggingAnalyzer creates a new LoggingAnalyzer.
func NewLoggingAnalyzer(next ezweb.Analyzer, logger *slog.Logger) *LoggingAnalyzer {
	return &LoggingAnalyzer{next: next, logger: logger}
}

// Analyze delegates to the wrapped analyzer and logs the decision.
func (a *LoggingAnalyzer) Analyze(in ezweb.AnalyzeInput) (analysis *ezweb.Analysis, err error) {
	defer func(begin time.Time) {
		if analysis == nil {
			a.logger.Debug("analyze", "url", in.URL, "duration", time.Since(begin), "err", err)
			return
		}
		level := slog.LevelDebug
		if analysis.Degraded {
			level = slog.LevelWarn
		}
		a.logger.Log(context.Background(), level, "analyze",
			"url", in.URL,
			"classification", analysis.Classification,
			"possibility", analysis.Possibility,
			"topics", len(analysis.Topics),
			"links", len(analysis.Links),
			"degraded", analysis.Degraded,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Analyze(in)
}

// Inspect delegates to the wrapped analyzer and logs the hints found.
func (a *LoggingAnalyzer) Inspect(rawHTML string, pageURL string) (hints *ezweb.SourceHints, err error) {
	defer func(begin time.Time) {
		var site string
		var feeds int
		if hints != nil {
			site, feeds = hints.SiteName, len(hints.FeedCandidates)
		}
		a.logger.Debug("inspect",
			"url", pageURL,
			"site", site,
			"feeds", feeds,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Inspect(rawHTML, pageURL)
}
