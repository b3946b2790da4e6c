package goquery_test

import (
	"testing"

	"github.com/fwojciec/ezweb"
	"github.com/fwojciec/ezweb/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, html, pageURL string) *goquery.Document {
	t.Helper()
	doc, err := goquery.Parse(html, pageURL, "text/html; charset=utf-8")
	require.NoError(t, err)
	return doc
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("rejects an invalid page URL", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.Parse("<html></html>", "://bad", "")

		require.Error(t, err)
		assert.Equal(t, ezweb.EINVALID, ezweb.ErrorCode(err))
	})

	t.Run("decodes a declared legacy charset", func(t *testing.T) {
		t.Parallel()

		// "caf\xe9" is "café" in windows-1252.
		raw := "<html><head><title>caf\xe9</title></head><body></body></html>"

		doc, err := goquery.Parse(raw, "https://example.com/", "text/html; charset=windows-1252")

		require.NoError(t, err)
		assert.Equal(t, "café", doc.TitleText())
		assert.False(t, doc.Degraded())
	})

	t.Run("sniffs the charset without a content type", func(t *testing.T) {
		t.Parallel()

		doc, err := goquery.Parse(`<html><head><title>خرید گوشی</title></head></html>`, "https://example.com/", "")

		require.NoError(t, err)
		assert.Equal(t, "خرید گوشی", doc.TitleText())
	})
}

func TestDocument_Meta(t *testing.T) {
	t.Parallel()

	html := `<html><head>
<meta name="description" content=" A shop for phones ">
<meta property="og:image" content="https://cdn.example.com/cover.jpg">
<meta property="og:site_name" content="Example">
</head><body></body></html>`

	doc := mustParse(t, html, "https://example.com/")

	assert.Equal(t, "A shop for phones", doc.Meta("name", "description"))
	assert.Equal(t, "https://cdn.example.com/cover.jpg", doc.OG("image"))
	assert.Equal(t, "Example", doc.OG("site_name"))
	assert.Empty(t, doc.Meta("name", "keywords"))
	assert.Equal(t, "A shop for phones", doc.Description())
}

func TestDocument_Contains(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<div class="main-category">A</div>
<div class="subcategory-list">B</div>
<span class="category">C</span>
</body></html>`

	doc := mustParse(t, html, "https://example.com/")

	assert.Equal(t, 2, doc.Contains("div", "class", "cat").Length())
	assert.Equal(t, 3, doc.Contains("*", "class", "category").Length())
}

func TestDocument_AbsoluteHref(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<a id="rel" href="/news/solar#comments">rel</a>
<a id="abs" href="https://www.example.com/news/wind">abs</a>
<a id="ext" href="https://other.org/x">ext</a>
<a id="mail" href="mailto:info@example.com">mail</a>
<a id="js" href="javascript:void(0)">js</a>
<img id="lazy" data-src="/img/a.jpg">
<link id="icon" rel="icon" href="favicon.png">
</body></html>`

	doc := mustParse(t, html, "https://example.com/shop/")

	tests := []struct {
		id       string
		internal bool
		want     string
	}{
		{"rel", true, "https://example.com/news/solar"},
		{"abs", true, "https://www.example.com/news/wind"},
		{"ext", false, "https://other.org/x"},
		{"ext", true, ""},
		{"mail", false, ""},
		{"js", false, ""},
		{"lazy", false, "https://example.com/img/a.jpg"},
		{"icon", false, "https://example.com/shop/favicon.png"},
	}
	for _, tt := range tests {
		got := doc.AbsoluteHref(doc.First("#"+tt.id), tt.internal)
		assert.Equal(t, tt.want, got, "id=%s internal=%v", tt.id, tt.internal)
	}
}

func TestDocument_StructuredData(t *testing.T) {
	t.Parallel()

	html := `<html><head>
<script type="application/ld+json">{"@type":"WebSite"}</script>
<script type="application/ld+json">
{"@context":"https://schema.org","@type":"Product","name":"Phone X","alternateName":"گوشی ایکس",
 "offers":[{"@type":"Offer","price":"0","priceCurrency":"IRR"},{"@type":"Offer","price":"1200"},{"@type":"Offer","lowPrice":900}],
 "brand":{"@type":["Brand","Organization"],"name":"Acme"}}
</script>
</head><body></body></html>`

	doc := mustParse(t, html, "https://example.com/product/phone-x")

	t.Run("reads the longest block", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Phone X", doc.StructuredString("name"))
		assert.Equal(t, "گوشی ایکس", doc.StructuredString("alternateName"))
		assert.Equal(t, "IRR", doc.StructuredString("priceCurrency"))
	})

	t.Run("walks nested values", func(t *testing.T) {
		t.Parallel()
		assert.Len(t, doc.StructuredData("price"), 2)
		assert.Len(t, doc.StructuredData("brand"), 1)
	})

	t.Run("collects distinct types", func(t *testing.T) {
		t.Parallel()
		types := doc.StructuredTypes()
		assert.Contains(t, types, "Product")
		assert.Contains(t, types, "Offer")
		assert.Contains(t, types, "Brand")
		assert.Contains(t, types, "Organization")
		assert.NotContains(t, types, "WebSite")
	})

	t.Run("picks the lowest non-zero price", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "900", doc.StructuredPrice())
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, doc.StructuredData("sku"))
		assert.Empty(t, doc.StructuredString("sku"))
	})
}

func TestDocument_StructuredData_PrefersShallowValues(t *testing.T) {
	t.Parallel()

	html := `<script type="application/ld+json">
{"@type":"Product","name":"Phone X",
 "isSimilarTo":[{"@type":"Product","name":"Phone Y","offers":{"price":"900","priceCurrency":"USD"}}],
 "offers":{"price":"1200","priceCurrency":"IRR"},
 "brand":{"name":"Acme"}}
</script>`

	doc := mustParse(t, html, "https://example.com/product/phone-x")

	assert.Equal(t, "Phone X", doc.StructuredString("name"))
	assert.Equal(t, "IRR", doc.StructuredString("priceCurrency"))
	assert.Equal(t, []any{"Phone X", "Acme", "Phone Y"}, doc.StructuredData("name"))
}

func TestDocument_StructuredData_Invalid(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<script type="application/ld+json">{not json</script>`, "https://example.com/")

	assert.Empty(t, doc.StructuredTypes())
	assert.Empty(t, doc.StructuredPrice())
}
