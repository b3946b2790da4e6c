package main

import (
	"fmt"

	"github.com/fwojciec/ezweb"
	"github.com/fwojciec/ezweb/crawl"
)

// Run executes the feed command.
func (c *FeedCmd) Run(deps *Dependencies) error {
	src, err := deps.Sources.DiscoverSource(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ezweb.ErrorMessage(err))
		return err
	}
	if src.FeedURL == "" {
		fmt.Fprintf(deps.Stderr, "error: no feed found for %s\n", src.Host)
		return ezweb.Errorf(ezweb.ENOTFOUND, "no feed found for %s", src.Host)
	}

	resp, err := deps.Fetcher.Fetch(deps.Ctx, src.FeedURL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ezweb.ErrorMessage(err))
		return err
	}
	feed, err := deps.Feeds.ParseFeed(resp.Body)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ezweb.ErrorMessage(err))
		return err
	}

	expander := &crawl.Expander{Builder: deps.Builder, Concurrency: deps.Concurrency}
	pages, err := expander.FeedPages(deps.Ctx, feed, src, c.Limit, printFailures(deps.Stderr))
	if err != nil {
		return err
	}

	for _, page := range pages {
		if err := storePage(deps, page); err != nil {
			return err
		}
		printPageLine(deps.Stdout, page)
	}
	return nil
}
