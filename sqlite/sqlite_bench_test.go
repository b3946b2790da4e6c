package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/fwojciec/ezweb"
	"github.com/fwojciec/ezweb/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkPageService_CreatePage simulates a crawl storing product pages
// of one source into a file-backed database.
func BenchmarkPageService_CreatePage(b *testing.B) {
	db := sqlite.NewDB(filepath.Join(b.TempDir(), "bench.db"))
	require.NoError(b, db.Open())
	defer db.Close()

	ctx := context.Background()
	svc := sqlite.NewPageService(db)
	src := &ezweb.Source{URL: "https://example.com", Host: "example.com", Name: "Example"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		page := &ezweb.Page{
			URL:            fmt.Sprintf("https://example.com/product/item-%d", i),
			Classification: ezweb.ProductPage,
			Possibility:    0.95,
			Topics:         []string{"Phones", "Android"},
			Links:          []string{"https://example.com/product/a", "https://example.com/product/b"},
			Product: &ezweb.ProductRecord{
				Title: fmt.Sprintf("Item %d", i),
				Specs: []ezweb.SpecRow{{Key: "Weight", Value: "167 g"}},
			},
			Source: src,
		}
		if err := svc.CreatePage(ctx, page); err != nil {
			b.Fatal(err)
		}
	}
}
