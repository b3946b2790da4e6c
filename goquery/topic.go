package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ezweb"
)

// TopicCandidates returns the anchors that may name the topic path of the
// page, in document order per container kind: breadcrumbs, category/tag/label
// blocks (or their list items when there are only a few), then the first
// list of the main article.
func (d *Document) TopicCandidates(th ezweb.Thresholds) []ezweb.TopicCandidate {
	var containers []*goquery.Selection

	d.All(containsSelector("*", "id", "breadcrumb")+", "+containsSelector("*", "class", "breadcrumb")).
		Each(func(_ int, s *goquery.Selection) {
			anchors := s.Find("a").Length()
			if goquery.NodeName(s) == "a" {
				anchors++
			}
			if anchors > th.BreadcrumbAnchorMax {
				return
			}
			containers = append(containers, s)
		})

	cats := d.All(containsAny("div", "class", "cat", "tag", "label"))
	items := cats.Find("li")
	switch {
	case items.Length() > 0 && items.Length() <= th.TopicListItemMax:
		items.Each(func(_ int, s *goquery.Selection) {
			containers = append(containers, s)
		})
	case cats.Length() <= th.TopicCategoryMax:
		cats.Each(func(_ int, s *goquery.Selection) {
			containers = append(containers, s)
		})
	}

	if article := d.ArticleTag(); article != nil {
		if ul := article.Find("ul").First(); ul.Length() > 0 {
			containers = append(containers, ul)
		}
	}

	var candidates []ezweb.TopicCandidate
	for _, c := range containers {
		tag := goquery.NodeName(c)
		anchors := c.Find("a")
		if tag == "a" {
			anchors = c
		}
		anchors.Each(func(_ int, a *goquery.Selection) {
			candidates = append(candidates, ezweb.TopicCandidate{Text: a.Text(), Tag: tag})
		})
	}
	return candidates
}

// Topics returns the filtered, capitalized and deduplicated topic names.
func (d *Document) Topics(siteName string, th ezweb.Thresholds) []string {
	return ezweb.FilterTopics(d.TopicCandidates(th), siteName, th)
}
