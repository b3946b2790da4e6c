package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ezweb"
)

// LinkCandidates returns the internal links that likely point at content:
// anchors wrapping a heading, anchors inside headings and list items, and
// anchors of elements classed item or post.
func (d *Document) LinkCandidates() []ezweb.LinkCandidate {
	var candidates []ezweb.LinkCandidate
	add := func(a *goquery.Selection, tag string) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		abs := d.AbsoluteHref(a, true)
		if abs == "" {
			return
		}
		candidates = append(candidates, ezweb.NewLinkCandidate(abs, href, tag))
	}

	d.All("a[href]").Each(func(_ int, a *goquery.Selection) {
		if a.Find("h2, h3").Length() > 0 {
			add(a, "a")
		}
	})

	containers := []string{"h2", "h3", "li", containsSelector("*", "class", "item"), containsSelector("*", "class", "post")}
	for _, selector := range containers {
		d.All(selector).Each(func(_ int, s *goquery.Selection) {
			tag := goquery.NodeName(s)
			if tag == "a" {
				add(s, tag)
				return
			}
			s.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
				add(a, tag)
			})
		})
	}
	return candidates
}

// Links returns the ranked links worth following.
func (d *Document) Links(th ezweb.Thresholds) []string {
	return ezweb.RankLinks(d.LinkCandidates(), th)
}
