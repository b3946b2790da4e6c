package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/ezweb"
)

// Walk defaults.
const (
	// DefaultWalkDepth is the number of link hops followed from the start page.
	DefaultWalkDepth = 2
	// DefaultWalkPages limits the number of pages built to prevent runaway crawls.
	DefaultWalkPages = 1000

	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.01
	// drainTimeout bounds the wait for in-flight builds once the walk stops.
	drainTimeout = 5 * time.Second
)

// WalkResult summarizes a walk.
type WalkResult struct {
	Built  int
	Failed int
}

// VisitFunc receives every page built by a walk. Calls are serialized.
// Returning an error stops the walk.
type VisitFunc func(page *ezweb.Page) error

// Walker performs a bounded crawl of one site, following the ranked links
// of every built page level by level.
type Walker struct {
	Builder ezweb.PageBuilder

	// Concurrency is the number of pages built in parallel.
	// Defaults to DefaultConcurrency.
	Concurrency int

	// MaxPages bounds the number of pages built. Defaults to DefaultWalkPages.
	MaxPages int

	// MaxDepth bounds the link hops from the start page.
	// Defaults to DefaultWalkDepth; negative means the start page only.
	MaxDepth int

	// Filter restricts the links followed. The start page is always built.
	Filter *ezweb.URLFilter

	// Frontier queues the links to build. Defaults to a fresh Frontier.
	// A supplied frontier may already hold seen URLs, which are then skipped.
	Frontier ezweb.URLFrontier
}

// walkResult is the outcome of one worker build.
type walkResult struct {
	link ezweb.QueuedLink
	page *ezweb.Page
	err  error
}

// Walk builds startURL and then the pages it links to on the same site,
// shallowest first, handing each built page to visit. Pages of the walk
// share src. Failed builds are counted and reported through progress.
func (w *Walker) Walk(ctx context.Context, startURL string, src *ezweb.Source, visit VisitFunc, progress ProgressFunc) (*WalkResult, error) {
	host := ezweb.Host(startURL)
	if host == "" {
		return nil, ezweb.Errorf(ezweb.EINVALID, "invalid start URL %q", startURL)
	}

	concurrency := w.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	maxPages := w.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultWalkPages
	}
	maxDepth := w.MaxDepth
	if maxDepth == 0 {
		maxDepth = DefaultWalkDepth
	}

	frontier := w.Frontier
	if frontier == nil {
		frontier = NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	}
	frontier.Push(ezweb.QueuedLink{URL: startURL})

	reporter := newProgressReporter(progress, 0)
	defer reporter.finish()

	walkCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Channels for worker coordination
	workCh := make(chan ezweb.QueuedLink, concurrency)
	resultCh := make(chan walkResult)
	done := make(chan struct{})

	for range concurrency {
		go func() {
			for link := range workCh {
				page, err := w.Builder.Build(walkCtx, ezweb.BuildInput{URL: link.URL, Source: src})
				select {
				case resultCh <- walkResult{link: link, page: page, err: err}:
				case <-done:
					return
				}
			}
		}()
	}

	var result WalkResult
	var visitErr error

	handle := func(res walkResult) {
		reporter.done(res.link.URL, res.err)
		if res.err != nil {
			result.Failed++
			return
		}
		result.Built++
		if visitErr == nil && visit != nil {
			if err := visit(res.page); err != nil {
				visitErr = err
				cancel()
				return
			}
		}
		if maxDepth < 0 || res.link.Level >= maxDepth {
			return
		}
		for _, link := range w.Filter.Apply(res.page.Links) {
			if !ezweb.SameSite(ezweb.Host(link), host) {
				continue
			}
			frontier.Push(ezweb.QueuedLink{URL: link, Level: res.link.Level + 1})
		}
	}

	// Coordinator loop
	dispatched := 0 // URLs handed to workers
	pending := 0    // URLs currently being built
	var next *ezweb.QueuedLink
	if link, ok := frontier.Pop(); ok {
		next = &link
	}

coordinatorLoop:
	for {
		if next == nil && pending == 0 {
			break
		}
		if walkCtx.Err() != nil {
			break
		}

		if next != nil && dispatched < maxPages {
			select {
			case <-walkCtx.Done():
				break coordinatorLoop
			case workCh <- *next:
				dispatched++
				pending++
				next = nil
			case res := <-resultCh:
				pending--
				handle(res)
			}
		} else {
			if pending == 0 {
				break
			}
			select {
			case <-walkCtx.Done():
				break coordinatorLoop
			case res := <-resultCh:
				pending--
				handle(res)
			}
		}

		if next == nil && dispatched < maxPages {
			if link, ok := frontier.Pop(); ok {
				next = &link
			}
		}
	}

	// Signal workers to stop and drain in-flight builds.
	close(workCh)
	timeout := time.After(drainTimeout)
drainLoop:
	for pending > 0 {
		select {
		case res := <-resultCh:
			pending--
			handle(res)
		case <-timeout:
			break drainLoop
		}
	}
	close(done)

	if visitErr != nil {
		return &result, visitErr
	}
	return &result, ctx.Err()
}
