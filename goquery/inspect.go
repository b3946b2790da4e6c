package goquery

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ezweb"
)

// Favicon returns the absolute URL of the largest icon declared by
// link[rel*=icon], or of the first one when none declares sizes.
func (d *Document) Favicon() string {
	var best *goquery.Selection
	bestSize := -1
	d.Contains("link", "rel", "icon").Each(func(_ int, s *goquery.Selection) {
		if size := iconSize(s); size > bestSize {
			best, bestSize = s, size
		}
	})
	if best == nil {
		return ""
	}
	return d.AbsoluteHref(best, false)
}

// iconSize returns the width declared by sizes="WxH", 0 when absent.
func iconSize(s *goquery.Selection) int {
	sizes, _ := s.Attr("sizes")
	var largest int
	for _, size := range strings.Fields(strings.ToLower(sizes)) {
		w, _, _ := strings.Cut(size, "x")
		if n, err := strconv.Atoi(w); err == nil && n > largest {
			largest = n
		}
	}
	return largest
}

// FeedCandidates returns the links of the page that look like RSS or Atom
// feeds, in document order.
func (d *Document) FeedCandidates() []string {
	seen := make(map[string]bool)
	var feeds []string
	d.All("a[href], link[href]").Each(func(_ int, s *goquery.Selection) {
		if !canBeFeedLink(s) {
			return
		}
		href := d.AbsoluteHref(s, false)
		if href == "" || seen[href] {
			return
		}
		seen[href] = true
		feeds = append(feeds, href)
	})
	return feeds
}

func canBeFeedLink(s *goquery.Selection) bool {
	typ, _ := s.Attr("type")
	typ = strings.ToLower(typ)
	if strings.Contains(typ, "rss") || strings.Contains(typ, "atom") {
		return true
	}
	href, _ := s.Attr("href")
	href = strings.ToLower(href)
	return strings.Contains(href, "rss") || strings.HasSuffix(strings.TrimSuffix(href, "/"), "/feed")
}

// Inspect reads the site-level hints of a homepage.
func (d *Document) Inspect(th ezweb.Thresholds) *ezweb.SourceHints {
	return &ezweb.SourceHints{
		SiteName:       d.SiteName(th),
		FaviconURL:     d.Favicon(),
		Description:    d.Description(),
		Language:       d.Lang(),
		FeedCandidates: d.FeedCandidates(),
	}
}
