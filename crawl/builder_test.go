package crawl_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/fwojciec/ezweb"
	"github.com/fwojciec/ezweb/crawl"
	"github.com/fwojciec/ezweb/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func htmlResponse(url, body string) *ezweb.Response {
	return &ezweb.Response{
		URL:    url,
		Status: http.StatusOK,
		Header: http.Header{"Content-Type": []string{"text/html; charset=utf-8"}},
		Body:   body,
	}
}

func TestBuilder_Build(t *testing.T) {
	t.Parallel()

	t.Run("builds a classified page", func(t *testing.T) {
		t.Parallel()

		src := &ezweb.Source{URL: "https://example.com", Host: "example.com", Name: "Example Store"}
		var got ezweb.AnalyzeInput
		clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

		b := &crawl.Builder{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (*ezweb.Response, error) {
					return htmlResponse("https://example.com/product/galaxy-s24?ref=1", "<html>phone</html>"), nil
				},
			},
			Analyzer: &mock.Analyzer{
				AnalyzeFn: func(in ezweb.AnalyzeInput) (*ezweb.Analysis, error) {
					got = in
					return &ezweb.Analysis{
						Title:          "Galaxy S24 | Example Store",
						CanonicalTitle: "Galaxy S24",
						SiteName:       "Example Store",
						Classification: ezweb.ProductPage,
						Possibility:    0.95,
						Product:        &ezweb.ProductRecord{Title: "Galaxy S24"},
						Links:          []string{"https://example.com/product/pixel-9"},
					}, nil
				},
			},
			Now: func() time.Time { return clock },
		}

		page, err := b.Build(context.Background(), ezweb.BuildInput{
			URL:    "https://example.com/product/galaxy-s24",
			Topics: []string{"Phones"},
			Source: src,
		})
		require.NoError(t, err)

		assert.Equal(t, "https://example.com/product/galaxy-s24?ref=1", got.URL, "analysis sees the final URL")
		assert.Equal(t, "<html>phone</html>", got.HTML)
		assert.Equal(t, "text/html; charset=utf-8", got.ContentType)
		assert.Equal(t, "Example Store", got.SiteName)
		assert.Equal(t, []string{"Phones"}, got.Topics)

		assert.NotEmpty(t, page.ID)
		assert.Equal(t, "https://example.com/product/galaxy-s24", page.URL)
		assert.Equal(t, "example.com", page.Host)
		assert.Equal(t, ezweb.ProductPage, page.Classification)
		assert.InDelta(t, 0.95, page.Possibility, 1e-9)
		assert.Equal(t, "Galaxy S24", page.Payload().(*ezweb.ProductRecord).Title)
		assert.Equal(t, crawl.ComputeHash("<html>phone</html>"), page.ContentHash)
		assert.Same(t, src, page.Source)
		assert.Equal(t, clock, page.CrawledAt)
		assert.Equal(t, []string{"https://example.com/product/pixel-9"}, page.Links)
	})

	t.Run("rejects URLs without host", func(t *testing.T) {
		t.Parallel()

		b := &crawl.Builder{}
		_, err := b.Build(context.Background(), ezweb.BuildInput{URL: "not a url"})
		assert.Equal(t, ezweb.EINVALID, ezweb.ErrorCode(err))
	})

	t.Run("retries failed fetches", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		b := &crawl.Builder{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (*ezweb.Response, error) {
					attempts++
					if attempts < 3 {
						return nil, ezweb.Errorf(ezweb.EFETCH, "status 503")
					}
					return htmlResponse(url, "<html></html>"), nil
				},
			},
			Analyzer: &mock.Analyzer{
				AnalyzeFn: func(_ ezweb.AnalyzeInput) (*ezweb.Analysis, error) {
					return &ezweb.Analysis{Classification: ezweb.Unclassified}, nil
				},
			},
			RetryDelays: []time.Duration{time.Millisecond, time.Millisecond},
		}

		page, err := b.Build(context.Background(), ezweb.BuildInput{URL: "https://example.com/a"})
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
		assert.Equal(t, ezweb.Unclassified, page.Classification)
	})

	t.Run("returns fetch errors", func(t *testing.T) {
		t.Parallel()

		b := &crawl.Builder{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (*ezweb.Response, error) {
					return nil, ezweb.Errorf(ezweb.EFETCH, "status 404")
				},
			},
			RetryDelays: []time.Duration{},
		}

		_, err := b.Build(context.Background(), ezweb.BuildInput{URL: "https://example.com/missing"})
		assert.Equal(t, ezweb.EFETCH, ezweb.ErrorCode(err))
	})

	t.Run("wraps analysis errors", func(t *testing.T) {
		t.Parallel()

		b := &crawl.Builder{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (*ezweb.Response, error) {
					return htmlResponse(url, "<html></html>"), nil
				},
			},
			Analyzer: &mock.Analyzer{
				AnalyzeFn: func(_ ezweb.AnalyzeInput) (*ezweb.Analysis, error) {
					return nil, ezweb.Errorf(ezweb.EINCONSISTENT, "price unit without a number")
				},
			},
			RetryDelays: []time.Duration{},
		}

		_, err := b.Build(context.Background(), ezweb.BuildInput{URL: "https://example.com/p"})
		require.Error(t, err)
		assert.Equal(t, ezweb.EINCONSISTENT, ezweb.ErrorCode(err))
		assert.Contains(t, err.Error(), "analyze https://example.com/p")
	})

	t.Run("waits for the rate limiter", func(t *testing.T) {
		t.Parallel()

		var limited string
		b := &crawl.Builder{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (*ezweb.Response, error) {
					return htmlResponse(url, "<html></html>"), nil
				},
			},
			Analyzer: &mock.Analyzer{
				AnalyzeFn: func(_ ezweb.AnalyzeInput) (*ezweb.Analysis, error) {
					return &ezweb.Analysis{Classification: ezweb.Homepage}, nil
				},
			},
			RateLimiter: &mock.DomainLimiter{
				WaitFn: func(_ context.Context, domain string) error {
					limited = domain
					return nil
				},
			},
		}

		_, err := b.Build(context.Background(), ezweb.BuildInput{URL: "https://Example.com/"})
		require.NoError(t, err)
		assert.Equal(t, "example.com", limited)
	})

	t.Run("stops when the rate limiter fails", func(t *testing.T) {
		t.Parallel()

		b := &crawl.Builder{
			RateLimiter: &mock.DomainLimiter{
				WaitFn: func(_ context.Context, _ string) error {
					return context.Canceled
				},
			},
		}

		_, err := b.Build(context.Background(), ezweb.BuildInput{URL: "https://example.com/"})
		assert.True(t, errors.Is(err, context.Canceled))
	})
}
