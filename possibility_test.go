package ezweb_test

import (
	"testing"

	"github.com/fwojciec/ezweb"
	"github.com/stretchr/testify/assert"
)

func TestPossibility(t *testing.T) {
	t.Parallel()

	th := ezweb.DefaultThresholds()

	tests := []struct {
		name    string
		signals ezweb.ProductSignals
		want    float64
	}{
		{"nothing", ezweb.ProductSignals{}, 0},
		{"one spec row", ezweb.ProductSignals{SpecRows: 1}, 0.1},
		{"four spec rows", ezweb.ProductSignals{SpecRows: 4}, 0.2},
		{"eight spec rows", ezweb.ProductSignals{SpecRows: 8}, 0.35},
		{"gallery needs more than three", ezweb.ProductSignals{GalleryImages: 3}, 0},
		{"gallery", ezweb.ProductSignals{GalleryImages: 4}, 0.15},
		{"price", ezweb.ProductSignals{HasPrice: true}, 0.2},
		{"product segment", ezweb.ProductSignals{PathParts: []string{"Product", "phone-x"}}, 0.6},
		{"product segment twice", ezweb.ProductSignals{PathParts: []string{"product", "product"}}, 1},
		{"product segment too deep", ezweb.ProductSignals{PathParts: []string{"shop", "phones", "product"}}, 0},
		{"second title", ezweb.ProductSignals{HasSecondTitle: true}, 0.35},
		{"structured product", ezweb.ProductSignals{StructuredTypes: []string{"BreadcrumbList", "Product"}}, 0.75},
		{"capped", ezweb.ProductSignals{SpecRows: 10, GalleryImages: 10, HasPrice: true, HasSecondTitle: true, StructuredTypes: []string{"Product"}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, ezweb.Possibility(tt.signals, th), 1e-9)
		})
	}
}

func TestPossibility_Monotonic(t *testing.T) {
	t.Parallel()

	th := ezweb.DefaultThresholds()
	base := ezweb.ProductSignals{PathParts: []string{"shop", "item-1"}}
	prev := ezweb.Possibility(base, th)

	steps := []func(s *ezweb.ProductSignals){
		func(s *ezweb.ProductSignals) { s.SpecRows++ },
		func(s *ezweb.ProductSignals) { s.GalleryImages++ },
		func(s *ezweb.ProductSignals) { s.HasPrice = true },
		func(s *ezweb.ProductSignals) { s.HasSecondTitle = true },
	}
	for i := 0; i < 12; i++ {
		steps[i%len(steps)](&base)
		got := ezweb.Possibility(base, th)
		assert.GreaterOrEqual(t, got, prev)
		assert.LessOrEqual(t, got, 1.0)
		assert.GreaterOrEqual(t, got, 0.0)
		prev = got
	}
}

func TestIsProduct(t *testing.T) {
	t.Parallel()

	th := ezweb.DefaultThresholds()
	assert.True(t, ezweb.IsProduct(0.75, th))
	assert.False(t, ezweb.IsProduct(0.74, th))
}

func TestThresholds_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ezweb.DefaultThresholds().Validate())

	th := ezweb.DefaultThresholds()
	th.SpecRowsOver3Credit = 0.5
	assert.Equal(t, ezweb.EINVALID, ezweb.ErrorCode(th.Validate()))

	th = ezweb.DefaultThresholds()
	th.SecondTitleMin = 96
	assert.Equal(t, ezweb.EINVALID, ezweb.ErrorCode(th.Validate()))

	th = ezweb.DefaultThresholds()
	th.CurrencyUnits = nil
	assert.Equal(t, ezweb.EINVALID, ezweb.ErrorCode(th.Validate()))

	// The first invalid similarity in declaration order is reported.
	th = ezweb.DefaultThresholds()
	th.TitleSimilarity = 150
	th.TopicSiteNameCeiling = -1
	for range 10 {
		assert.Equal(t, "title_similarity must be within [0,100], got 150", ezweb.ErrorMessage(th.Validate()))
	}
}
