// Package crawl orchestrates page building: fetching and analyzing single
// pages, expanding a page into its children, discovering the source of a
// site and walking a site level by level.
package crawl

import (
	"context"
	"fmt"
	"sync"

	"github.com/fwojciec/ezweb"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pages built in parallel when a
// component has no explicit concurrency.
const DefaultConcurrency = 10

// ProgressEvent reports progress while pages are built.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting progress.
// Calls are serialized; the callback does not need to be goroutine-safe.
type ProgressFunc func(event ProgressEvent)

// progressReporter serializes progress callbacks from concurrent workers.
type progressReporter struct {
	mu        sync.Mutex
	fn        ProgressFunc
	total     int
	completed int
}

func newProgressReporter(fn ProgressFunc, total int) *progressReporter {
	r := &progressReporter{fn: fn, total: total}
	r.emit(ProgressEvent{Type: ProgressStarted, Total: total})
	return r
}

func (r *progressReporter) done(url string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed++
	if r.fn == nil {
		return
	}
	event := ProgressEvent{
		Type:      ProgressCompleted,
		Completed: r.completed,
		Total:     r.total,
		URL:       url,
	}
	if err != nil {
		event.Type = ProgressFailed
		event.Error = err
	}
	r.fn(event)
}

func (r *progressReporter) finish() {
	r.emit(ProgressEvent{Type: ProgressFinished, Completed: r.completed, Total: r.total})
}

func (r *progressReporter) emit(event ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fn != nil {
		r.fn(event)
	}
}

// buildResult holds the outcome of building a single input.
type buildResult struct {
	page *ezweb.Page
	err  error
}

// buildSequential builds inputs one after the other in order. Every failed
// input is reported in the joined error; built pages are returned alongside.
func buildSequential(ctx context.Context, builder ezweb.PageBuilder, inputs []ezweb.BuildInput, progress ProgressFunc) ([]*ezweb.Page, []error) {
	reporter := newProgressReporter(progress, len(inputs))
	defer reporter.finish()

	var pages []*ezweb.Page
	var errs []error
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		page, err := builder.Build(ctx, in)
		reporter.done(in.URL, err)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", in.URL, err))
			continue
		}
		pages = append(pages, page)
	}
	return pages, errs
}

// buildConcurrent builds inputs with at most concurrency workers. Each
// worker writes to its own result slot, so the returned pages keep input
// order. Failures are omitted from the result and only reported through
// progress.
func buildConcurrent(ctx context.Context, builder ezweb.PageBuilder, inputs []ezweb.BuildInput, concurrency int, progress ProgressFunc) ([]*ezweb.Page, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	reporter := newProgressReporter(progress, len(inputs))
	defer reporter.finish()

	results := make([]buildResult, len(inputs))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].err = err
				return nil
			}
			page, err := builder.Build(ctx, in)
			results[i] = buildResult{page: page, err: err}
			reporter.done(in.URL, err)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var pages []*ezweb.Page
	for _, r := range results {
		if r.err == nil && r.page != nil {
			pages = append(pages, r.page)
		}
	}
	return pages, nil
}
