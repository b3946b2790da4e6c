package mock

import (
	"context"

	"github.com/fwojciec/ezweb"
)

var _ ezweb.Analyzer = (*Analyzer)(nil)

// Analyzer is a mock implementation of ezweb.Analyzer.
type Analyzer struct {
	AnalyzeFn func(in ezweb.AnalyzeInput) (*ezweb.Analysis, error)
	InspectFn func(rawHTML string, pageURL string) (*ezweb.SourceHints, error)
}

func (a *Analyzer) Analyze(in ezweb.AnalyzeInput) (*ezweb.Analysis, error) {
	return a.AnalyzeFn(in)
}

func (a *Analyzer) Inspect(rawHTML string, pageURL string) (*ezweb.SourceHints, error) {
	return a.InspectFn(rawHTML, pageURL)
}

var _ ezweb.PageBuilder = (*PageBuilder)(nil)

// PageBuilder is a mock implementation of ezweb.PageBuilder.
type PageBuilder struct {
	BuildFn func(ctx context.Context, in ezweb.BuildInput) (*ezweb.Page, error)
}

func (b *PageBuilder) Build(ctx context.Context, in ezweb.BuildInput) (*ezweb.Page, error) {
	return b.BuildFn(ctx, in)
}

var _ ezweb.SourceDiscoverer = (*SourceDiscoverer)(nil)

// SourceDiscoverer is a mock implementation of ezweb.SourceDiscoverer.
type SourceDiscoverer struct {
	DiscoverSourceFn func(ctx context.Context, rawURL string) (*ezweb.Source, error)
}

func (d *SourceDiscoverer) DiscoverSource(ctx context.Context, rawURL string) (*ezweb.Source, error) {
	return d.DiscoverSourceFn(ctx, rawURL)
}
