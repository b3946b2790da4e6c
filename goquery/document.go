// Package goquery implements the page heuristics on top of a goquery DOM.
package goquery

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ezweb"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/net/html/charset"
)

// Document is a parsed HTML page together with the URL it was fetched from.
// It is read-only once parsed.
type Document struct {
	doc      *goquery.Document
	url      *url.URL
	degraded bool

	// ld is the decoded structured data block; nil when absent or invalid.
	ld any
}

// Parse parses raw HTML fetched from pageURL. The body is decoded with the
// charset named by contentType (or sniffed from the markup). If that fails
// the raw bytes are parsed as UTF-8 and the document is marked degraded.
func Parse(raw, pageURL, contentType string) (*Document, error) {
	u, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil {
		return nil, ezweb.Errorf(ezweb.EINVALID, "invalid page URL: %v", err)
	}

	d := &Document{url: u}
	d.doc, err = parseDecoded(raw, contentType)
	if err != nil {
		d.degraded = true
		d.doc, err = goquery.NewDocumentFromReader(strings.NewReader(raw))
		if err != nil {
			return nil, ezweb.Errorf(ezweb.EINVALID, "failed to parse HTML: %v", err)
		}
	}
	d.ld = d.decodeStructuredData()
	return d, nil
}

func parseDecoded(raw, contentType string) (*goquery.Document, error) {
	r, err := charset.NewReader(strings.NewReader(raw), contentType)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(r)
}

// URL returns the page URL.
func (d *Document) URL() string {
	return d.url.String()
}

// Degraded reports whether the preferred parse path failed.
func (d *Document) Degraded() bool {
	return d.degraded
}

// All returns every element matching selector.
func (d *Document) All(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// First returns the first element matching selector.
func (d *Document) First(selector string) *goquery.Selection {
	return d.doc.Find(selector).First()
}

// Contains returns the tag elements whose attr value contains value,
// e.g. Contains("div", "class", "cat") matches div[class*="cat"].
func (d *Document) Contains(tag, attr, value string) *goquery.Selection {
	return d.doc.Find(containsSelector(tag, attr, value))
}

func containsSelector(tag, attr, value string) string {
	return fmt.Sprintf("%s[%s*=%q]", tag, attr, value)
}

// containsAny builds a selector group matching tag elements whose attr
// contains any of values. Matches are returned in document order.
func containsAny(tag, attr string, values ...string) string {
	selectors := make([]string, len(values))
	for i, v := range values {
		selectors[i] = containsSelector(tag, attr, v)
	}
	return strings.Join(selectors, ", ")
}

// Meta returns the content of the first <meta key="name"> tag.
func (d *Document) Meta(key, name string) string {
	content, _ := d.doc.Find(fmt.Sprintf("meta[%s=%q]", key, name)).First().Attr("content")
	return strings.TrimSpace(content)
}

// OG returns the content of the og:name meta tag.
func (d *Document) OG(name string) string {
	return d.Meta("property", "og:"+name)
}

// Text returns the cleaned text of the first element matching selector.
func (d *Document) Text(selector string) string {
	return ezweb.CleanText(d.First(selector).Text())
}

// Lang returns the language declared on the <html> element.
func (d *Document) Lang() string {
	lang, _ := d.doc.Find("html").First().Attr("lang")
	return strings.TrimSpace(lang)
}

// TitleText returns the trimmed text of the <title> element.
func (d *Document) TitleText() string {
	return strings.TrimSpace(d.First("title").Text())
}

// Description returns the meta description, or the og:description.
func (d *Document) Description() string {
	if desc := d.Meta("name", "description"); desc != "" {
		return desc
	}
	return d.OG("description")
}

// AbsoluteHref resolves the link of sel against the page URL. Anchors and
// link tags use href; other elements use src, then data-src. Non-http links
// resolve to "". With internalOnly, links to other sites resolve to "".
func (d *Document) AbsoluteHref(sel *goquery.Selection, internalOnly bool) string {
	var raw string
	switch goquery.NodeName(sel) {
	case "a", "link":
		raw, _ = sel.Attr("href")
	default:
		raw = ImageSrc(sel)
	}
	return d.resolve(raw, internalOnly)
}

func (d *Document) resolve(raw string, internalOnly bool) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || isNonHTTPLink(raw) {
		return ""
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	resolved := d.url.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	if internalOnly && !ezweb.SameSite(resolved.Hostname(), d.url.Hostname()) {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

// ImageSrc returns the src of an image, falling back to data-src.
func ImageSrc(sel *goquery.Selection) string {
	if src, ok := sel.Attr("src"); ok && strings.TrimSpace(src) != "" {
		return strings.TrimSpace(src)
	}
	src, _ := sel.Attr("data-src")
	return strings.TrimSpace(src)
}

// decodeStructuredData decodes the longest application/ld+json script.
func (d *Document) decodeStructuredData() any {
	var longest string
	d.doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); len(text) > len(longest) {
			longest = text
		}
	})
	if longest == "" {
		return nil
	}
	var v any
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal([]byte(longest), &v); err != nil {
		return nil
	}
	return v
}

// StructuredData returns every value stored under key anywhere in the
// structured data. Shallower values come first, so a product's own fields
// precede those of nested brands or offers. Object keys are visited in
// sorted order.
func (d *Document) StructuredData(key string) []any {
	var values []any
	queue := []any{d.ld}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		switch t := v.(type) {
		case map[string]any:
			keys := make([]string, 0, len(t))
			for k := range t {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if k == key {
					values = append(values, t[k])
				}
				queue = append(queue, t[k])
			}
		case []any:
			queue = append(queue, t...)
		}
	}
	return values
}

// StructuredString returns the first scalar value stored under key as a
// string, or "".
func (d *Document) StructuredString(key string) string {
	for _, v := range d.StructuredData(key) {
		if s := scalarString(v); s != "" {
			return s
		}
	}
	return ""
}

// StructuredTypes returns the distinct @type values of the structured data.
func (d *Document) StructuredTypes() []string {
	seen := make(map[string]bool)
	var types []string
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			types = append(types, s)
		}
	}
	for _, v := range d.StructuredData("@type") {
		switch t := v.(type) {
		case string:
			add(t)
		case []any:
			for _, item := range t {
				if s, ok := item.(string); ok {
					add(s)
				}
			}
		}
	}
	return types
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}
