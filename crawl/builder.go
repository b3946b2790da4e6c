package crawl

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/ezweb"
	"github.com/google/uuid"
)

// Ensure Builder implements ezweb.PageBuilder at compile time.
var _ ezweb.PageBuilder = (*Builder)(nil)

// Builder fetches a URL and turns it into a Page: fetch with retry, analyze,
// then stamp identity, hash and timing.
type Builder struct {
	Fetcher  ezweb.Fetcher
	Analyzer ezweb.Analyzer

	// RateLimiter, when set, spaces requests to the same host.
	RateLimiter ezweb.DomainLimiter

	// RetryDelays are the backoff delays between attempts.
	// Nil uses DefaultRetryDelays; an empty slice disables retries.
	RetryDelays []time.Duration

	// Logger, when set, receives retry notices.
	Logger LogFunc

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Build fetches and analyzes in.URL.
func (b *Builder) Build(ctx context.Context, in ezweb.BuildInput) (*ezweb.Page, error) {
	host := ezweb.Host(in.URL)
	if host == "" {
		return nil, ezweb.Errorf(ezweb.EINVALID, "invalid page URL %q", in.URL)
	}

	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	begin := now()

	if b.RateLimiter != nil {
		if err := b.RateLimiter.Wait(ctx, host); err != nil {
			return nil, err
		}
	}

	delays := b.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	resp, err := FetchWithRetryDelays(ctx, in.URL, b.Fetcher.Fetch, b.Logger, delays)
	if err != nil {
		return nil, err
	}

	pageURL := resp.URL
	if pageURL == "" {
		pageURL = in.URL
	}
	input := ezweb.AnalyzeInput{
		URL:         pageURL,
		HTML:        resp.Body,
		ContentType: resp.ContentType(),
		Topics:      in.Topics,
	}
	if in.Source != nil {
		input.SiteName = in.Source.Name
	}

	analysis, err := b.Analyzer.Analyze(input)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", pageURL, err)
	}

	page := &ezweb.Page{
		ID:             uuid.NewString(),
		URL:            in.URL,
		Host:           host,
		Title:          analysis.Title,
		CanonicalTitle: analysis.CanonicalTitle,
		SiteName:       analysis.SiteName,
		Description:    analysis.Description,
		MainImage:      analysis.MainImage,
		Language:       analysis.Language,
		Topics:         analysis.Topics,
		Classification: analysis.Classification,
		Possibility:    analysis.Possibility,
		Article:        analysis.Article,
		Product:        analysis.Product,
		Links:          analysis.Links,
		Files:          analysis.Files,
		ContentHash:    ComputeHash(resp.Body),
		Degraded:       analysis.Degraded,
		Source:         in.Source,
		CrawledAt:      begin,
	}
	page.Duration = now().Sub(begin)

	if err := page.Validate(); err != nil {
		return nil, err
	}
	return page, nil
}
