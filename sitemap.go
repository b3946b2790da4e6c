package ezweb

import (
	"context"
	"regexp"
)

// Keyword presets for SitemapLinks.
var (
	ProductKeywords = []string{"product"}
	ArticleKeywords = []string{"article", "blog", "news"}
)

// SitemapService locates a site's sitemap and lists the links it holds.
type SitemapService interface {
	// SitemapURL returns the sitemap of the site at rootURL. The robots.txt
	// Sitemap directive wins; otherwise /sitemap.xml and /sitemap_index.xml
	// are probed. Returns ENOTFOUND if none exists.
	SitemapURL(ctx context.Context, rootURL string) (string, error)

	// SitemapLinks returns the links listed by sitemapURL. When contain is
	// not empty and the sitemap does not list content directly, only links
	// whose first or second path segment contains one of the keywords are
	// kept. Nested sitemaps are resolved recursively.
	SitemapLinks(ctx context.Context, sitemapURL string, contain []string) ([]string, error)
}

// URLFilter specifies patterns for including/excluding URLs.
type URLFilter struct {
	// Include patterns - if set, only URLs matching at least one pattern are included.
	Include []*regexp.Regexp

	// Exclude patterns - URLs matching any pattern are excluded.
	// Exclude is applied after Include.
	Exclude []*regexp.Regexp
}

// NewURLFilter compiles include and exclude patterns.
// Returns EINVALID if a pattern does not compile.
func NewURLFilter(include, exclude []string) (*URLFilter, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return nil, nil
	}
	f := &URLFilter{}
	for _, p := range include {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid include pattern %q: %v", p, err)
		}
		f.Include = append(f.Include, re)
	}
	for _, p := range exclude {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid exclude pattern %q: %v", p, err)
		}
		f.Exclude = append(f.Exclude, re)
	}
	return f, nil
}

// Match returns true if the URL passes the filter.
// If the filter is nil, all URLs pass.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}

	if len(f.Include) > 0 {
		matched := false
		for _, re := range f.Include {
			if re.MatchString(url) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, re := range f.Exclude {
		if re.MatchString(url) {
			return false
		}
	}

	return true
}

// Apply returns the URLs that pass the filter, preserving order.
func (f *URLFilter) Apply(urls []string) []string {
	if f == nil {
		return urls
	}
	var out []string
	for _, u := range urls {
		if f.Match(u) {
			out = append(out, u)
		}
	}
	return out
}
