package ezweb

import "strings"

// NotImportantRoutes are first path segments of utility pages that are never
// worth following.
var NotImportantRoutes = []string{"search", "cart", "faq", "about-us", "terms", "landings"}

// LinkCandidate is an outbound link considered for crawling.
type LinkCandidate struct {
	// URL is the absolute internal URL without fragment.
	URL string

	// Href is the raw attribute value the URL was resolved from.
	Href string

	// Tag names the element that made the anchor a candidate (a, h2, li, ...).
	Tag string

	// Depth is the number of path segments of URL.
	Depth int
}

// NewLinkCandidate returns a candidate for an absolute URL.
func NewLinkCandidate(absURL, href, tag string) LinkCandidate {
	return LinkCandidate{
		URL:   absURL,
		Href:  href,
		Tag:   tag,
		Depth: len(PathParts(absURL)),
	}
}

// RankLinks filters candidates down to the links worth following.
//
// Fragment links, root links, utility routes, single "@handle" segments and
// links whose last segment is shorter than th.LinkMinLastSegment are dropped.
// The most frequent depth among the rest is taken as the depth of the main
// content and only links at that depth are kept, deduplicated in first-seen
// order. Ties between depths go to the depth seen first.
func RankLinks(candidates []LinkCandidate, th Thresholds) []string {
	var kept []LinkCandidate
	counts := make(map[int]int)
	var order []int

	for _, c := range candidates {
		if !importantLink(c, th) {
			continue
		}
		if _, ok := counts[c.Depth]; !ok {
			order = append(order, c.Depth)
		}
		counts[c.Depth]++
		kept = append(kept, c)
	}
	if len(kept) == 0 {
		return nil
	}

	best := order[0]
	for _, d := range order[1:] {
		if counts[d] > counts[best] {
			best = d
		}
	}

	seen := make(map[string]bool)
	var result []string
	for _, c := range kept {
		if c.Depth != best || seen[c.URL] {
			continue
		}
		seen[c.URL] = true
		result = append(result, c.URL)
	}
	return result
}

func importantLink(c LinkCandidate, th Thresholds) bool {
	if c.URL == "" {
		return false
	}
	href := strings.TrimSpace(c.Href)
	if strings.HasPrefix(href, "#") || strings.Contains(href, "/#") {
		return false
	}

	parts := PathParts(c.URL)
	if len(parts) == 0 {
		return false
	}
	first := strings.ToLower(parts[0])
	for _, r := range NotImportantRoutes {
		if first == r {
			return false
		}
	}
	if len(parts) == 1 && strings.Contains(parts[0], "@") {
		return false
	}
	if len([]rune(parts[len(parts)-1])) < th.LinkMinLastSegment {
		return false
	}
	return true
}
