package main

import (
	"fmt"

	"github.com/fwojciec/ezweb"
	"github.com/fwojciec/ezweb/crawl"
)

// Run executes the sitemap command.
func (c *SitemapCmd) Run(deps *Dependencies) error {
	root, err := ezweb.RootURL(c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ezweb.ErrorMessage(err))
		return err
	}

	sitemapURL, err := deps.Sitemaps.SitemapURL(deps.Ctx, root)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ezweb.ErrorMessage(err))
		return err
	}

	contain := c.Contain
	switch {
	case c.Products:
		contain = append(contain, ezweb.ProductKeywords...)
	case c.Articles:
		contain = append(contain, ezweb.ArticleKeywords...)
	}

	links, err := deps.Sitemaps.SitemapLinks(deps.Ctx, sitemapURL, contain)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ezweb.ErrorMessage(err))
		return err
	}

	for _, link := range links {
		fmt.Fprintln(deps.Stdout, link)
	}
	fmt.Fprintf(deps.Stderr, "%s links in %s\n", crawl.FormatCount(len(links)), sitemapURL)
	return nil
}
