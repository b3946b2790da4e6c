package fs_test

import (
	"testing"
	"time"

	"github.com/fwojciec/ezweb"
	"github.com/fwojciec/ezweb/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]fs.Format{"json": fs.FormatJSON, "MD": fs.FormatMarkdown, "markdown": fs.FormatMarkdown} {
		got, err := fs.ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := fs.ParseFormat("xml")
	assert.Equal(t, ezweb.EINVALID, ezweb.ErrorCode(err))
}

func TestFormatPageMarkdown(t *testing.T) {
	t.Parallel()

	t.Run("formats a product with frontmatter and spec table", func(t *testing.T) {
		t.Parallel()

		page := &ezweb.Page{
			URL:            "https://example.com/product/galaxy-s24",
			Title:          "Galaxy S24 | Example Store",
			CanonicalTitle: "Galaxy S24",
			SiteName:       "Example Store",
			Classification: ezweb.ProductPage,
			Possibility:    0.95,
			Topics:         []string{"Phones"},
			CrawledAt:      time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC),
			Product: &ezweb.ProductRecord{
				SecondTitle:  "Samsung Galaxy S24 5G",
				Price:        &ezweb.PriceRecord{Value: 1250000, Unit: "تومان", Humanized: "1,250,000 تومان"},
				Availability: "InStock",
				Specs: []ezweb.SpecRow{
					{Key: "Weight", Value: "167 g"},
					{Key: "Ports", Value: "USB-C | eSIM"},
				},
			},
			Links: []string{"https://example.com/product/pixel-9"},
		}

		got, err := fs.FormatPageMarkdown(page)
		require.NoError(t, err)

		assert.Contains(t, got, "---\nurl: https://example.com/product/galaxy-s24\n")
		assert.Contains(t, got, "site: Example Store\n")
		assert.Contains(t, got, "classification: product\n")
		assert.Regexp(t, `crawled: "?2026-02-03"?\n`, got)
		assert.Contains(t, got, "# Galaxy S24\n")
		assert.Contains(t, got, "_Samsung Galaxy S24 5G_")
		assert.Contains(t, got, "**Price:** 1,250,000 تومان")
		assert.Contains(t, got, "**Availability:** InStock")
		assert.Contains(t, got, "| Weight | 167 g |")
		assert.Contains(t, got, `| Ports | USB-C \| eSIM |`)
		assert.Contains(t, got, "## Links\n\n- https://example.com/product/pixel-9\n")
	})

	t.Run("falls back to article text and title", func(t *testing.T) {
		t.Parallel()

		page := &ezweb.Page{
			URL:            "https://example.com/news/solar",
			Title:          "Solar",
			Classification: ezweb.ArticlePage,
			Article:        &ezweb.ArticleRecord{Excerpt: "Cheaper panels", Text: "Plain text body."},
		}

		got, err := fs.FormatPageMarkdown(page)
		require.NoError(t, err)

		assert.Contains(t, got, "# Solar\n\n> Cheaper panels\n\nPlain text body.\n")
		assert.NotContains(t, got, "## Links")
	})

	t.Run("uses description for other pages", func(t *testing.T) {
		t.Parallel()

		page := &ezweb.Page{
			URL:            "https://example.com/",
			Classification: ezweb.Homepage,
			Description:    "Phones and tablets",
		}

		got, err := fs.FormatPageMarkdown(page)
		require.NoError(t, err)
		assert.Contains(t, got, "classification: homepage\n")
		assert.Contains(t, got, "Phones and tablets\n")
	})
}
