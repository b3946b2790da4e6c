package main

import (
	"fmt"

	"github.com/fwojciec/ezweb"
	"github.com/fwojciec/ezweb/crawl"
	"github.com/fwojciec/ezweb/fs"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	filter, err := ezweb.NewURLFilter(c.Include, c.Exclude)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ezweb.ErrorMessage(err))
		return err
	}

	var store *fs.FileStore
	if c.Out != "" {
		if store, err = openStore(c.Out, c.Format); err != nil {
			return err
		}
	}

	src, err := deps.Sources.DiscoverSource(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ezweb.ErrorMessage(err))
		return err
	}

	depth := c.Depth
	if depth == 0 {
		// The walker reads zero as its default depth.
		depth = -1
	}
	walker := &crawl.Walker{
		Builder:     deps.Builder,
		Concurrency: deps.Concurrency,
		MaxPages:    c.MaxPages,
		MaxDepth:    depth,
		Filter:      filter,
	}

	visit := func(page *ezweb.Page) error {
		if store != nil {
			if err := store.Save(deps.Ctx, page); err != nil {
				return err
			}
		}
		if err := storePage(deps, page); err != nil {
			return err
		}
		printPageLine(deps.Stdout, page)
		return nil
	}

	result, err := walker.Walk(deps.Ctx, c.URL, src, visit, printFailures(deps.Stderr))
	if err != nil {
		if store != nil {
			_ = store.Abort()
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", ezweb.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stderr, "Built %s pages, %s failed\n",
		crawl.FormatCount(result.Built), crawl.FormatCount(result.Failed))

	if store != nil {
		if err := store.Commit(); err != nil {
			return err
		}
		files, bytes := store.Written()
		fmt.Fprintf(deps.Stderr, "Wrote %s files (%s) to %s\n",
			crawl.FormatCount(files), crawl.FormatBytes(bytes), c.Out)
	}
	return nil
}
