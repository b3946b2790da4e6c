// Package bloom provides probabilistic URL deduplication for the crawl
// frontier using Bloom filters.
package bloom

import (
	"net/url"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter remembers URLs by their canonical key. Two URLs that differ only by
// fragment, trailing slash, host case or a "www." prefix share a key.
// Filter is not safe for concurrent use.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected URLs
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Visit records rawURL and reports whether it was new. False positives are
// possible: a new URL is occasionally reported as seen.
func (f *Filter) Visit(rawURL string) bool {
	return !f.f.TestAndAddString(Key(rawURL))
}

// Seen returns true if rawURL might have been visited.
func (f *Filter) Seen(rawURL string) bool {
	return f.f.TestString(Key(rawURL))
}

// EstimatedCount returns the approximate number of URLs visited.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}

// Key returns the canonical deduplication key of rawURL. Unparseable URLs
// are keyed by their fragment-less text.
func Key(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		if idx := strings.Index(rawURL, "#"); idx != -1 {
			return rawURL[:idx]
		}
		return rawURL
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	if len(u.Path) > 1 {
		u.Path = strings.TrimSuffix(u.Path, "/")
		u.RawPath = ""
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}
