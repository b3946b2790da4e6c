package ezweb

import (
	"math"
	"strings"
)

// ProductSignals are the page facts the product possibility score is built from.
type ProductSignals struct {
	// SpecRows is the number of accepted specification rows.
	SpecRows int

	// GalleryImages is the number of distinct valid product images.
	GalleryImages int

	// HasPrice is true when a price record was resolved.
	HasPrice bool

	// PathParts are the URL path segments of the page.
	PathParts []string

	// HasSecondTitle is true when a distinct secondary title was found.
	HasSecondTitle bool

	// StructuredTypes are the @type values found in the page structured data.
	StructuredTypes []string
}

// Possibility returns the additive confidence in [0,1] that the signals
// describe a product page. Spec row tiers are exclusive: only the highest
// applicable tier is credited.
func Possibility(s ProductSignals, th Thresholds) float64 {
	var score float64

	switch {
	case s.SpecRows > 7:
		score += th.SpecRowsOver7Credit
	case s.SpecRows > 3:
		score += th.SpecRowsOver3Credit
	case s.SpecRows >= 1:
		score += th.SpecRowCredit
	}

	if s.GalleryImages > th.GalleryImageMin {
		score += th.GalleryCredit
	}
	if s.HasPrice {
		score += th.PriceCredit
	}
	for i, part := range s.PathParts {
		if i >= 2 {
			break
		}
		if strings.EqualFold(part, "product") {
			score += th.ProductSegmentCredit
		}
	}
	if s.HasSecondTitle {
		score += th.SecondTitleCredit
	}
	for _, t := range s.StructuredTypes {
		if strings.Contains(t, "Product") {
			score += th.StructuredProductCredit
			break
		}
	}

	return math.Max(0, math.Min(1, score))
}

// IsProduct reports whether a possibility score clears the product cutoff.
func IsProduct(possibility float64, th Thresholds) bool {
	return possibility >= th.ProductCutoff
}
