package main

import (
	"fmt"

	"github.com/fwojciec/ezweb"
)

// Run executes the source command.
func (c *SourceCmd) Run(deps *Dependencies) error {
	src, err := deps.Sources.DiscoverSource(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ezweb.ErrorMessage(err))
		return err
	}

	for _, f := range []struct{ name, value string }{
		{"URL", src.URL},
		{"Name", src.Name},
		{"Description", src.Description},
		{"Language", src.Language},
		{"Favicon", src.FaviconURL},
		{"Feed", src.FeedURL},
		{"Sitemap", src.SitemapURL},
	} {
		if f.value != "" {
			fmt.Fprintf(deps.Stdout, "%-12s %s\n", f.name+":", f.value)
		}
	}
	return nil
}
