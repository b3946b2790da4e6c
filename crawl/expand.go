package crawl

import (
	"context"
	"errors"

	"github.com/fwojciec/ezweb"
)

// ExpandOptions configures an expansion.
type ExpandOptions struct {
	// Limit caps the number of links expanded; zero or less means all.
	Limit int

	// Concurrent builds children in parallel and omits failures. Sequential
	// expansion reports every failure in the returned error.
	Concurrent bool

	// Filter restricts the links expanded.
	Filter *ezweb.URLFilter

	// Progress, when set, receives an event per link.
	Progress ProgressFunc
}

// Expander builds the child pages of a page from its ranked links.
type Expander struct {
	Builder ezweb.PageBuilder

	// Concurrency bounds concurrent expansion. Defaults to DefaultConcurrency.
	Concurrency int
}

// Expand builds the children of page and stores them on it. A page is
// expanded at most once: later calls return the stored children.
//
// Children inherit the page Source. Sequential expansion keeps link order
// and returns the built children together with a joined error naming
// every failed link. Concurrent expansion also keeps link order, omits
// failed links and only fails when ctx is done.
func (e *Expander) Expand(ctx context.Context, page *ezweb.Page, opts ExpandOptions) ([]*ezweb.Page, error) {
	if children, ok := page.Children(); ok {
		return children, nil
	}

	links := opts.Filter.Apply(page.Links)
	if opts.Limit > 0 && len(links) > opts.Limit {
		links = links[:opts.Limit]
	}
	inputs := make([]ezweb.BuildInput, len(links))
	for i, link := range links {
		inputs[i] = ezweb.BuildInput{URL: link, Source: page.Source}
	}

	var children []*ezweb.Page
	var err error
	if opts.Concurrent {
		children, err = buildConcurrent(ctx, e.Builder, inputs, e.Concurrency, opts.Progress)
		if err != nil {
			return nil, err
		}
	} else {
		var errs []error
		children, errs = buildSequential(ctx, e.Builder, inputs, opts.Progress)
		err = errors.Join(errs...)
		if ctx.Err() != nil {
			// Interrupted expansions are not stored.
			return children, err
		}
	}

	if !page.SetChildren(children) {
		// Another expansion won the race.
		stored, _ := page.Children()
		return stored, nil
	}
	return children, err
}

// FeedPages builds pages from the entries of feed, with the entry tags as
// topics. Failed entries are omitted and reported through progress.
func (e *Expander) FeedPages(ctx context.Context, feed *ezweb.Feed, src *ezweb.Source, limit int, progress ProgressFunc) ([]*ezweb.Page, error) {
	var inputs []ezweb.BuildInput
	seen := make(map[string]bool)
	for _, entry := range feed.Entries {
		if entry.Link == "" || seen[entry.Link] {
			continue
		}
		seen[entry.Link] = true
		inputs = append(inputs, ezweb.BuildInput{URL: entry.Link, Topics: entry.Tags, Source: src})
		if limit > 0 && len(inputs) == limit {
			break
		}
	}
	return buildConcurrent(ctx, e.Builder, inputs, e.Concurrency, progress)
}
