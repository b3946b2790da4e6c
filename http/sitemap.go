package http

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/beevik/etree"
	"github.com/fwojciec/ezweb"
	"github.com/temoto/robotstxt"
	"golang.org/x/sync/errgroup"
)

// DefaultSitemapConcurrency bounds the nested sitemaps fetched at once.
const DefaultSitemapConcurrency = 4

// sitemapProbes are tried in order when robots.txt declares no sitemap.
var sitemapProbes = []string{"/sitemap.xml", "/sitemap_index.xml"}

// Ensure SitemapService implements ezweb.SitemapService.
var _ ezweb.SitemapService = (*SitemapService)(nil)

// SitemapService locates sitemaps and lists their links via HTTP.
type SitemapService struct {
	client *http.Client

	// DirectSegments is the number of distinct first path segments above
	// which a sitemap is taken to list content directly.
	DirectSegments int

	// Concurrency bounds the nested sitemaps fetched in parallel.
	Concurrency int

	// Logger receives nested sitemaps that could not be read. Optional.
	Logger *slog.Logger
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{
		client:         client,
		DirectSegments: ezweb.DefaultThresholds().DirectSitemapSegments,
		Concurrency:    DefaultSitemapConcurrency,
	}
}

// SitemapURL returns the sitemap of the site at rootURL. A Sitemap directive
// in robots.txt is returned exactly as written; otherwise the well-known
// locations are probed with HEAD requests.
func (s *SitemapService) SitemapURL(ctx context.Context, rootURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	base, err := url.Parse(rootURL)
	if err != nil || base.Host == "" {
		return "", ezweb.Errorf(ezweb.EINVALID, "invalid root URL %q", rootURL)
	}
	base = &url.URL{Scheme: base.Scheme, Host: base.Host}

	if sitemaps, err := s.robotsSitemaps(ctx, base.JoinPath("robots.txt").String()); err == nil && len(sitemaps) > 0 {
		return sitemaps[0], nil
	}

	for _, probe := range sitemapProbes {
		candidate := base.ResolveReference(&url.URL{Path: probe}).String()
		exists, err := s.urlExists(ctx, candidate)
		if err != nil {
			// Propagate context errors, treat other errors as "not found"
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			continue
		}
		if exists {
			return candidate, nil
		}
	}

	return "", ezweb.Errorf(ezweb.ENOTFOUND, "no sitemap found for %s", base)
}

// robotsSitemaps returns the Sitemap directives of robots.txt.
func (s *SitemapService) robotsSitemaps(ctx context.Context, robotsURL string) ([]string, error) {
	status, body, err := s.get(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	robots, err := robotstxt.FromStatusAndBytes(status, body)
	if err != nil {
		return nil, fmt.Errorf("parsing robots.txt: %w", err)
	}
	return robots.Sitemaps, nil
}

// SitemapLinks returns the links listed by sitemapURL, following nested
// sitemaps. The result keeps sitemap order without duplicates. The contain
// keywords select entries of sitemapURL only; nested sitemaps are listed in
// full. A nested sitemap that cannot be read is left out.
func (s *SitemapService) SitemapLinks(ctx context.Context, sitemapURL string, contain []string) ([]string, error) {
	seen := &sitemapSet{urls: make(map[string]bool)}
	links, err := s.sitemapLinks(ctx, sitemapURL, contain, seen)
	if err != nil {
		return nil, err
	}
	return distinct(links), nil
}

func (s *SitemapService) sitemapLinks(ctx context.Context, sitemapURL string, contain []string, seen *sitemapSet) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !seen.add(sitemapURL) {
		return nil, nil
	}

	status, body, err := s.get(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, ezweb.Errorf(ezweb.EFETCH, "HTTP %d for %s", status, sitemapURL)
	}

	links, err := parseSitemap(body, sitemapURL)
	if err != nil {
		return nil, err
	}
	if s.isDirect(links) {
		return links, nil
	}

	links = filterByKeywords(links, contain)

	results := make([][]string, len(links))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.Concurrency))
	for i, link := range links {
		if !isSitemapLink(link) {
			results[i] = []string{link}
			continue
		}
		g.Go(func() error {
			nested, err := s.sitemapLinks(gctx, link, nil, seen)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				if s.Logger != nil {
					s.Logger.Warn("skipping nested sitemap", "url", link, "err", err)
				}
				return nil
			}
			results[i] = nested
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []string
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// isDirect reports whether links span more distinct first path segments
// than DirectSegments, i.e. the sitemap lists content rather than sections.
func (s *SitemapService) isDirect(links []string) bool {
	segments := make(map[string]bool)
	for _, link := range links {
		if parts := ezweb.PathParts(link); len(parts) > 0 {
			segments[parts[0]] = true
		}
	}
	return len(segments) > s.DirectSegments
}

// parseSitemap extracts the links of a sitemap document. HTML-styled
// sitemaps with at least three anchors use the anchor hrefs; anything else
// uses the <loc> elements.
func parseSitemap(body []byte, sitemapURL string) ([]string, error) {
	base, err := url.Parse(sitemapURL)
	if err != nil {
		return nil, ezweb.Errorf(ezweb.EINVALID, "invalid sitemap URL %q", sitemapURL)
	}

	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	doc.ReadSettings.AutoClose = xml.HTMLAutoClose
	doc.ReadSettings.Entity = xml.HTMLEntity
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, ezweb.Errorf(ezweb.EINVALID, "parsing sitemap %s: %v", sitemapURL, err)
	}
	if doc.Root() == nil {
		return nil, ezweb.Errorf(ezweb.EINVALID, "empty sitemap %s", sitemapURL)
	}

	var raw []string
	for _, a := range doc.FindElements("//a[@href]") {
		raw = append(raw, a.SelectAttrValue("href", ""))
	}
	if len(raw) < 3 {
		raw = raw[:0]
		for _, loc := range doc.FindElements("//loc") {
			raw = append(raw, loc.Text())
		}
	}

	var links []string
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		ref, err := url.Parse(r)
		if err != nil {
			continue
		}
		links = append(links, base.ResolveReference(ref).String())
	}
	return links, nil
}

// filterByKeywords keeps the links whose first or second path segment
// contains one of the keywords. No keywords keeps everything.
func filterByKeywords(links []string, keywords []string) []string {
	if len(keywords) == 0 {
		return links
	}
	var kept []string
	for _, link := range links {
		parts := ezweb.PathParts(link)
		if matchesKeyword(parts, keywords) {
			kept = append(kept, link)
		}
	}
	return kept
}

func matchesKeyword(parts []string, keywords []string) bool {
	for i, part := range parts {
		if i >= 2 {
			break
		}
		part = strings.ToLower(part)
		for _, k := range keywords {
			if k != "" && strings.Contains(part, strings.ToLower(k)) {
				return true
			}
		}
	}
	return false
}

func isSitemapLink(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(u.Path), ".xml")
}

func distinct(values []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// sitemapSet records visited sitemaps across concurrent expansions.
type sitemapSet struct {
	mu   sync.Mutex
	urls map[string]bool
}

// add returns false if the URL was already visited.
func (s *sitemapSet) add(u string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.urls[u] {
		return false
	}
	s.urls[u] = true
	return true
}

// get fetches a URL and returns its status and body.
func (s *SitemapService) get(ctx context.Context, targetURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, nil, ctx.Err()
		}
		return 0, nil, ezweb.Errorf(ezweb.EFETCH, "fetch %s: %v", targetURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, DefaultMaxBodySize))
	if err != nil {
		return 0, nil, ezweb.Errorf(ezweb.EFETCH, "read %s: %v", targetURL, err)
	}
	return resp.StatusCode, body, nil
}

// urlExists checks if a URL returns 200 OK.
func (s *SitemapService) urlExists(ctx context.Context, targetURL string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, targetURL, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}
