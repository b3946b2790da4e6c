package main

import (
	"fmt"

	"github.com/fwojciec/ezweb"
	"github.com/fwojciec/ezweb/fs"
)

// Run executes the page command.
func (c *PageCmd) Run(deps *Dependencies) error {
	page, err := buildPage(deps, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ezweb.ErrorMessage(err))
		return err
	}

	if err := storePage(deps, page); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ezweb.ErrorMessage(err))
		return err
	}

	if c.Save != "" {
		store, err := openStore(c.Save, c.Format)
		if err != nil {
			return err
		}
		if err := store.Save(deps.Ctx, page); err != nil {
			_ = store.Abort()
			return err
		}
		if err := store.Commit(); err != nil {
			return err
		}
	}

	if c.JSON {
		b, err := fs.FormatPageJSON(page)
		if err != nil {
			return err
		}
		_, err = deps.Stdout.Write(b)
		return err
	}
	printPage(deps.Stdout, page)
	return nil
}

// buildPage discovers the source of rawURL and builds the page with it.
func buildPage(deps *Dependencies, rawURL string) (*ezweb.Page, error) {
	src, err := deps.Sources.DiscoverSource(deps.Ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return deps.Builder.Build(deps.Ctx, ezweb.BuildInput{URL: rawURL, Source: src})
}
