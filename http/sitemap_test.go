package http_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/ezweb"
	ezwebhttp "github.com/fwojciec/ezweb/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitemapService_SitemapURL(t *testing.T) {
	t.Parallel()

	t.Run("uses the robots.txt directive as written", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/robots.txt": "User-agent: *\nDisallow: /private/\nSitemap: {{BASE}}/sitemaps/main.xml?v=2\n",
		})
		defer srv.Close()

		svc := ezwebhttp.NewSitemapService(srv.Client())
		got, err := svc.SitemapURL(context.Background(), srv.URL+"/some/page")

		require.NoError(t, err)
		assert.Equal(t, srv.URL+"/sitemaps/main.xml?v=2", got)
	})

	t.Run("falls back to sitemap.xml", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": `<urlset></urlset>`,
		})
		defer srv.Close()

		svc := ezwebhttp.NewSitemapService(srv.Client())
		got, err := svc.SitemapURL(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, srv.URL+"/sitemap.xml", got)
	})

	t.Run("falls back to sitemap_index.xml", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/robots.txt":        "User-agent: *\nDisallow:\n",
			"/sitemap_index.xml": `<sitemapindex></sitemapindex>`,
		})
		defer srv.Close()

		svc := ezwebhttp.NewSitemapService(srv.Client())
		got, err := svc.SitemapURL(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, srv.URL+"/sitemap_index.xml", got)
	})

	t.Run("returns not found without any sitemap", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{})
		defer srv.Close()

		svc := ezwebhttp.NewSitemapService(srv.Client())
		_, err := svc.SitemapURL(context.Background(), srv.URL)

		assert.Equal(t, ezweb.ENOTFOUND, ezweb.ErrorCode(err))
	})

	t.Run("rejects a URL without host", func(t *testing.T) {
		t.Parallel()

		svc := ezwebhttp.NewSitemapService(nil)
		_, err := svc.SitemapURL(context.Background(), "not a url")

		assert.Equal(t, ezweb.EINVALID, ezweb.ErrorCode(err))
	})

	t.Run("returns context error when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		svc := ezwebhttp.NewSitemapService(nil)
		_, err := svc.SitemapURL(ctx, "https://example.com")

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSitemapService_SitemapLinks(t *testing.T) {
	t.Parallel()

	t.Run("reads loc elements", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/docs/intro</loc></url>
  <url><loc> {{BASE}}/docs/guide </loc></url>
  <url><loc>{{BASE}}/docs/intro</loc></url>
</urlset>`,
		})
		defer srv.Close()

		svc := ezwebhttp.NewSitemapService(srv.Client())
		links, err := svc.SitemapLinks(context.Background(), srv.URL+"/sitemap.xml", nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/docs/intro", srv.URL + "/docs/guide"}, links)
	})

	t.Run("prefers anchors of styled sitemaps", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": `<html><body>
<a href="/blog/one">one</a>
<a href="/blog/two">two</a>
<a href="/blog/three">three</a>
</body></html>`,
		})
		defer srv.Close()

		svc := ezwebhttp.NewSitemapService(srv.Client())
		links, err := svc.SitemapLinks(context.Background(), srv.URL+"/sitemap.xml", nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/blog/one", srv.URL + "/blog/two", srv.URL + "/blog/three"}, links)
	})

	t.Run("keeps links matching keywords in the first two segments", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": `<urlset>
  <url><loc>{{BASE}}/product/phone</loc></url>
  <url><loc>{{BASE}}/shop/Products/tablet</loc></url>
  <url><loc>{{BASE}}/a/b/product</loc></url>
  <url><loc>{{BASE}}/blog/post</loc></url>
</urlset>`,
		})
		defer srv.Close()

		svc := ezwebhttp.NewSitemapService(srv.Client())
		links, err := svc.SitemapLinks(context.Background(), srv.URL+"/sitemap.xml", ezweb.ProductKeywords)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/product/phone", srv.URL + "/shop/Products/tablet"}, links)
	})

	t.Run("ignores keywords for direct sitemaps", func(t *testing.T) {
		t.Parallel()

		var b strings.Builder
		b.WriteString("<urlset>")
		for i := range 46 {
			fmt.Fprintf(&b, "<url><loc>{{BASE}}/section-%d/page</loc></url>", i)
		}
		b.WriteString("</urlset>")

		srv := newTestServer(t, map[string]string{"/sitemap.xml": b.String()})
		defer srv.Close()

		svc := ezwebhttp.NewSitemapService(srv.Client())
		links, err := svc.SitemapLinks(context.Background(), srv.URL+"/sitemap.xml", ezweb.ProductKeywords)

		require.NoError(t, err)
		assert.Len(t, links, 46)
	})

	t.Run("expands nested sitemaps in order", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": `<sitemapindex>
  <sitemap><loc>{{BASE}}/product-sitemap-1.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/product-sitemap-2.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/page-sitemap.xml</loc></sitemap>
</sitemapindex>`,
			"/product-sitemap-1.xml": `<urlset><url><loc>{{BASE}}/product/a</loc></url></urlset>`,
			"/product-sitemap-2.xml": `<urlset><url><loc>{{BASE}}/product/b</loc></url><url><loc>{{BASE}}/product/a</loc></url></urlset>`,
			"/page-sitemap.xml":      `<urlset><url><loc>{{BASE}}/about</loc></url></urlset>`,
		})
		defer srv.Close()

		svc := ezwebhttp.NewSitemapService(srv.Client())
		links, err := svc.SitemapLinks(context.Background(), srv.URL+"/sitemap.xml", ezweb.ProductKeywords)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/product/a", srv.URL + "/product/b"}, links)
	})

	t.Run("visits each nested sitemap once", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		var srv *httptest.Server
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/sitemap.xml":
				hits.Add(1)
				body := `<sitemapindex><sitemap><loc>{{BASE}}/sitemap.xml</loc></sitemap><sitemap><loc>{{BASE}}/posts.xml</loc></sitemap></sitemapindex>`
				_, _ = w.Write([]byte(replaceBaseURL(body, srv.URL)))
			case "/posts.xml":
				_, _ = w.Write([]byte(replaceBaseURL(`<urlset><url><loc>{{BASE}}/posts/hello</loc></url></urlset>`, srv.URL)))
			default:
				http.NotFound(w, r)
			}
		}))
		defer srv.Close()

		svc := ezwebhttp.NewSitemapService(srv.Client())
		links, err := svc.SitemapLinks(context.Background(), srv.URL+"/sitemap.xml", nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/posts/hello"}, links)
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("returns fetch error for missing sitemap", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{})
		defer srv.Close()

		svc := ezwebhttp.NewSitemapService(srv.Client())
		_, err := svc.SitemapLinks(context.Background(), srv.URL+"/sitemap.xml", nil)

		assert.Equal(t, ezweb.EFETCH, ezweb.ErrorCode(err))
	})

	t.Run("lists nested sitemaps in full", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": `<sitemapindex>
  <sitemap><loc>{{BASE}}/sitemap-products-1.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/sitemap-posts.xml</loc></sitemap>
</sitemapindex>`,
			"/sitemap-products-1.xml": `<urlset>
  <url><loc>{{BASE}}/p/1234/blue-shoe</loc></url>
  <url><loc>{{BASE}}/p/5678/red-shoe</loc></url>
</urlset>`,
			"/sitemap-posts.xml": `<urlset><url><loc>{{BASE}}/blog/spring-sale</loc></url></urlset>`,
		})
		defer srv.Close()

		svc := ezwebhttp.NewSitemapService(srv.Client())
		links, err := svc.SitemapLinks(context.Background(), srv.URL+"/sitemap.xml", ezweb.ProductKeywords)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/p/1234/blue-shoe", srv.URL + "/p/5678/red-shoe"}, links)
	})

	t.Run("leaves out nested sitemaps that fail", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": `<sitemapindex>
  <sitemap><loc>{{BASE}}/posts.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/gone.xml</loc></sitemap>
</sitemapindex>`,
			"/posts.xml": `<urlset><url><loc>{{BASE}}/posts/hello</loc></url></urlset>`,
		})
		defer srv.Close()

		var logs bytes.Buffer
		svc := ezwebhttp.NewSitemapService(srv.Client())
		svc.Logger = slog.New(slog.NewTextHandler(&logs, nil))
		links, err := svc.SitemapLinks(context.Background(), srv.URL+"/sitemap.xml", nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/posts/hello"}, links)
		assert.Contains(t, logs.String(), "gone.xml")
	})

	t.Run("returns context error when canceled during expansion", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		var srv *httptest.Server
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/sitemap.xml" {
				_, _ = w.Write([]byte(replaceBaseURL(`<sitemapindex><sitemap><loc>{{BASE}}/posts.xml</loc></sitemap></sitemapindex>`, srv.URL)))
				return
			}
			cancel()
			<-r.Context().Done()
		}))
		defer srv.Close()

		svc := ezwebhttp.NewSitemapService(srv.Client())
		_, err := svc.SitemapLinks(ctx, srv.URL+"/sitemap.xml", nil)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

// newTestServer creates a test HTTP server with the given path->content mapping.
// Content strings may contain {{BASE}} which is replaced with the server URL.
func newTestServer(t *testing.T, content map[string]string) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := content[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		// Replace {{BASE}} with actual server URL
		body = replaceBaseURL(body, srv.URL)

		// Set content type based on path
		if r.URL.Path == "/robots.txt" {
			w.Header().Set("Content-Type", "text/plain")
		} else {
			w.Header().Set("Content-Type", "application/xml")
		}
		_, _ = w.Write([]byte(body))
	}))

	return srv
}

func replaceBaseURL(content, baseURL string) string {
	return regexp.MustCompile(`\{\{BASE\}\}`).ReplaceAllString(content, baseURL)
}
