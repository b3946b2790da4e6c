package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ezweb"
)

// ResolveTitle picks the canonical title of the page.
//
// The <title> text up to its first separator is the fallback. The first
// <h1> (or <h2> when the page has no <h1>) similar enough to the fallback
// wins; otherwise the first <h1> is used as is, then the fallback. An empty
// <title> yields "".
func (d *Document) ResolveTitle(siteName string, th ezweb.Thresholds) string {
	raw := d.TitleText()
	if raw == "" {
		return ""
	}
	fallback := ezweb.SplitTitle(raw)

	headers := d.All("h1")
	if headers.Length() == 0 {
		headers = d.All("h2")
	}

	var match string
	headers.EachWithBreak(func(_ int, h *goquery.Selection) bool {
		text := ezweb.CleanText(h.Text())
		if text != "" && ezweb.Similarity(text, fallback) >= th.TitleSimilarity {
			match = text
			return false
		}
		return true
	})
	if match != "" {
		return ezweb.CleanTitle(match, siteName)
	}

	if h1 := ezweb.CleanText(d.First("h1").Text()); h1 != "" {
		return ezweb.CleanTitle(h1, siteName)
	}
	return ezweb.CleanTitle(fallback, siteName)
}
