package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/ezweb"
	"github.com/fwojciec/ezweb/crawl"
	"github.com/fwojciec/ezweb/fs"
)

// lineURLWidth is the width URLs are truncated to in one-line listings.
const lineURLWidth = 60

// printPage writes a readable summary of page.
func printPage(w io.Writer, page *ezweb.Page) {
	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(w, "%-15s %s\n", name+":", value)
		}
	}

	field("URL", page.URL)
	field("Classification", fmt.Sprintf("%s (%.2f)", page.Classification, page.Possibility))
	field("Title", page.CanonicalTitle)
	field("Site", page.SiteName)
	field("Language", page.Language)
	field("Topics", strings.Join(page.Topics, ", "))

	switch {
	case page.Product != nil:
		p := page.Product
		if p.SecondTitle != "" {
			field("Second title", p.SecondTitle)
		}
		if p.Price != nil {
			field("Price", p.Price.String())
		}
		field("Availability", p.Availability)
		if len(p.Specs) > 0 {
			field("Specs", crawl.FormatCount(len(p.Specs))+" rows")
		}
		if len(p.Images) > 0 {
			field("Images", crawl.FormatCount(len(p.Images)))
		}
		if len(p.Provider.Addresses) > 0 {
			field("Address", p.Provider.Addresses[0])
		}
	case page.Article != nil:
		a := page.Article
		if a.PublishedAt != nil {
			field("Published", a.PublishedAt.Format("2006-01-02"))
		}
		if len(a.Headlines) > 0 {
			field("Headlines", crawl.FormatCount(len(a.Headlines)))
		}
		if a.Text != "" {
			field("Text", crawl.FormatBytes(len(a.Text)))
		}
	}

	field("Links", crawl.FormatCount(len(page.Links)))
	if page.Degraded {
		field("Parse", "degraded")
	}
	field("Built in", page.Duration.Round(time.Millisecond).String())
}

// printPageLine writes page as one line: classification, URL and title.
func printPageLine(w io.Writer, page *ezweb.Page) {
	fmt.Fprintf(w, "%-12s %-*s  %s\n",
		page.Classification, lineURLWidth, crawl.TruncateURL(page.URL, lineURLWidth), page.CanonicalTitle)
}

// printFailures reports failed builds on stderr as they happen.
func printFailures(w io.Writer) crawl.ProgressFunc {
	return func(event crawl.ProgressEvent) {
		if event.Type == crawl.ProgressFailed {
			fmt.Fprintf(w, "failed: %s: %v\n", crawl.TruncateURL(event.URL, lineURLWidth), event.Error)
		}
	}
}

// openStore returns a FileStore that replaces dir on Commit.
func openStore(dir, format string) (*fs.FileStore, error) {
	f, err := fs.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	dir = filepath.Clean(dir)
	return fs.NewFileStore(filepath.Dir(dir), filepath.Base(dir), f), nil
}

// storePage persists page when a database is configured.
func storePage(deps *Dependencies, page *ezweb.Page) error {
	if deps.Pages == nil {
		return nil
	}
	return deps.Pages.CreatePage(deps.Ctx, page)
}
