package main

import (
	"fmt"

	"github.com/fwojciec/ezweb"
	"github.com/fwojciec/ezweb/crawl"
)

// Run executes the children command.
func (c *ChildrenCmd) Run(deps *Dependencies) error {
	filter, err := ezweb.NewURLFilter(c.Include, c.Exclude)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ezweb.ErrorMessage(err))
		return err
	}

	page, err := buildPage(deps, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ezweb.ErrorMessage(err))
		return err
	}

	opts := crawl.ExpandOptions{
		Limit:      c.Limit,
		Concurrent: !c.Sequential,
		Filter:     filter,
	}
	if opts.Concurrent {
		opts.Progress = printFailures(deps.Stderr)
	}

	expander := &crawl.Expander{Builder: deps.Builder, Concurrency: deps.Concurrency}
	children, expandErr := expander.Expand(deps.Ctx, page, opts)

	for _, child := range children {
		if err := storePage(deps, child); err != nil {
			return err
		}
		printPageLine(deps.Stdout, child)
	}
	if expandErr != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", expandErr)
	}
	return expandErr
}
