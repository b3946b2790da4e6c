package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/ezweb"
	"github.com/fwojciec/ezweb/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestPageService_CreatePage(t *testing.T) {
	t.Parallel()

	t.Run("round-trips a product page with its source", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewPageService(db)
		ctx := context.Background()
		crawled := time.Date(2026, 1, 2, 3, 4, 5, 600, time.UTC)

		src := &ezweb.Source{URL: "https://example.com", Host: "example.com", Name: "Example Store"}
		page := &ezweb.Page{
			URL:            "https://example.com/product/galaxy-s24",
			Title:          "Galaxy S24 | Example Store",
			CanonicalTitle: "Galaxy S24",
			SiteName:       "Example Store",
			Language:       "fa",
			Topics:         []string{"Phones", "Samsung"},
			Classification: ezweb.ProductPage,
			Possibility:    0.95,
			Product: &ezweb.ProductRecord{
				Title: "Galaxy S24",
				Price: &ezweb.PriceRecord{Value: 1250000, Unit: "تومان", Humanized: "1,250,000 تومان"},
				Specs: []ezweb.SpecRow{{Key: "Weight", Value: "167 g"}},
				Provider: ezweb.ProviderInfo{
					FAQ: []ezweb.QuestionAnswer{{Question: "Warranty?", Answer: "18 months"}},
				},
			},
			Links:       []string{"https://example.com/product/pixel-9"},
			Files:       []string{"https://example.com/manual.pdf"},
			ContentHash: "abc123",
			Degraded:    true,
			Duration:    1500 * time.Millisecond,
			CrawledAt:   crawled,
			Source:      src,
		}
		require.NoError(t, svc.CreatePage(ctx, page))
		assert.NotEmpty(t, page.ID)
		assert.Equal(t, "example.com", page.Host)

		found, err := svc.FindPageByURL(ctx, page.URL)
		require.NoError(t, err)

		assert.Equal(t, page.ID, found.ID)
		assert.Equal(t, "Galaxy S24", found.CanonicalTitle)
		assert.Equal(t, []string{"Phones", "Samsung"}, found.Topics)
		assert.Equal(t, ezweb.ProductPage, found.Classification)
		assert.InDelta(t, 0.95, found.Possibility, 1e-9)
		assert.Nil(t, found.Article)
		assert.Equal(t, page.Product, found.Product)
		assert.Equal(t, page.Links, found.Links)
		assert.Equal(t, page.Files, found.Files)
		assert.Equal(t, "abc123", found.ContentHash)
		assert.True(t, found.Degraded)
		assert.Equal(t, 1500*time.Millisecond, found.Duration)
		assert.True(t, crawled.Equal(found.CrawledAt))
		require.NotNil(t, found.Source)
		assert.Equal(t, "Example Store", found.Source.Name)
	})

	t.Run("stores article pages without source", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewPageService(db)
		ctx := context.Background()
		published := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

		page := &ezweb.Page{
			URL:            "https://news.example.com/2025/solar",
			Classification: ezweb.ArticlePage,
			Article: &ezweb.ArticleRecord{
				Title:       "Solar panels get cheaper",
				Headlines:   []string{"Why prices fall"},
				Body:        "# Solar\n\nPrices fell.",
				PublishedAt: &published,
			},
		}
		require.NoError(t, svc.CreatePage(ctx, page))

		found, err := svc.FindPageByURL(ctx, page.URL)
		require.NoError(t, err)
		assert.Nil(t, found.Source)
		assert.Nil(t, found.Product)
		assert.Nil(t, found.Topics)
		require.NotNil(t, found.Article)
		assert.Equal(t, "Solar panels get cheaper", found.Article.Title)
		assert.Equal(t, []string{"Why prices fall"}, found.Article.Headlines)
		assert.True(t, published.Equal(*found.Article.PublishedAt))
	})

	t.Run("replaces a page of the same URL", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewPageService(db)
		ctx := context.Background()

		url := "https://example.com/product/a"
		require.NoError(t, svc.CreatePage(ctx, &ezweb.Page{URL: url, Classification: ezweb.Unclassified}))
		require.NoError(t, svc.CreatePage(ctx, &ezweb.Page{URL: url, Classification: ezweb.ProductPage}))

		pages, err := svc.FindPages(ctx, ezweb.PageFilter{})
		require.NoError(t, err)
		require.Len(t, pages, 1)
		assert.Equal(t, ezweb.ProductPage, pages[0].Classification)
	})

	t.Run("returns error for invalid page", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewPageService(db)

		err := svc.CreatePage(context.Background(), &ezweb.Page{})
		assert.Equal(t, ezweb.EINVALID, ezweb.ErrorCode(err))
	})
}

func TestPageService_FindPageByURL(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := sqlite.NewPageService(db)

	_, err := svc.FindPageByURL(context.Background(), "https://example.com/missing")
	assert.Equal(t, ezweb.ENOTFOUND, ezweb.ErrorCode(err))
}

func TestPageService_FindPages(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := sqlite.NewPageService(db)
	ctx := context.Background()

	shop := &ezweb.Source{URL: "https://shop.com", Host: "shop.com", Name: "Shop"}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	fixtures := []*ezweb.Page{
		{URL: "https://shop.com/product/a", Classification: ezweb.ProductPage, CrawledAt: base, Source: shop},
		{URL: "https://shop.com/product/b", Classification: ezweb.ProductPage, CrawledAt: base.Add(time.Hour), Source: shop},
		{URL: "https://shop.com/blog/c", Classification: ezweb.ArticlePage, CrawledAt: base.Add(2 * time.Hour), Source: shop},
		{URL: "https://news.com/d", Classification: ezweb.ArticlePage, CrawledAt: base.Add(3 * time.Hour)},
	}
	for _, p := range fixtures {
		require.NoError(t, svc.CreatePage(ctx, p))
	}

	urls := func(pages []*ezweb.Page) []string {
		out := make([]string, len(pages))
		for i, p := range pages {
			out[i] = p.URL
		}
		return out
	}

	t.Run("returns newest first", func(t *testing.T) {
		t.Parallel()

		pages, err := svc.FindPages(ctx, ezweb.PageFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://news.com/d",
			"https://shop.com/blog/c",
			"https://shop.com/product/b",
			"https://shop.com/product/a",
		}, urls(pages))
	})

	t.Run("filters by host and classification", func(t *testing.T) {
		t.Parallel()

		pages, err := svc.FindPages(ctx, ezweb.PageFilter{
			Host:           ptr("shop.com"),
			Classification: ptr(ezweb.ProductPage),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://shop.com/product/b", "https://shop.com/product/a"}, urls(pages))
		assert.Same(t, pages[0].Source, pages[1].Source, "pages of a host share the source")
	})

	t.Run("limits results", func(t *testing.T) {
		t.Parallel()

		pages, err := svc.FindPages(ctx, ezweb.PageFilter{Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://news.com/d", "https://shop.com/blog/c"}, urls(pages))
	})

	t.Run("pages through results", func(t *testing.T) {
		t.Parallel()

		pages, err := svc.FindPages(ctx, ezweb.PageFilter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://shop.com/blog/c", "https://shop.com/product/b"}, urls(pages))
	})

	t.Run("skips results without a limit", func(t *testing.T) {
		t.Parallel()

		pages, err := svc.FindPages(ctx, ezweb.PageFilter{Offset: 3})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://shop.com/product/a"}, urls(pages))
	})
}
