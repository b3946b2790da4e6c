package ezweb

// Thresholds holds every tunable gate used by the heuristics. The zero value
// is not useful; start from DefaultThresholds and override fields.
type Thresholds struct {
	// SiteNameSimilarity is the minimum similarity between a nav image alt
	// text and the bare domain name for the alt to count as the site name.
	SiteNameSimilarity int `yaml:"site_name_similarity"`

	// TitleSimilarity is the minimum similarity between a header and the
	// split <title> for the header to become the canonical title.
	TitleSimilarity int `yaml:"title_similarity"`

	// SecondTitleMin and SecondTitleMax bound the similarity of a secondary
	// product title to the main title: [min, max).
	SecondTitleMin int `yaml:"second_title_min"`
	SecondTitleMax int `yaml:"second_title_max"`

	// TopicSiteNameCeiling rejects topics more similar than this to the site name.
	TopicSiteNameCeiling int `yaml:"topic_site_name_ceiling"`
	TopicMaxLength       int `yaml:"topic_max_length"`
	TopicCategoryMax     int `yaml:"topic_category_max"`
	TopicListItemMax     int `yaml:"topic_list_item_max"`
	BreadcrumbAnchorMax  int `yaml:"breadcrumb_anchor_max"`

	ArticleMinTextLength int `yaml:"article_min_text_length"`
	SpecKeyMaxLength     int `yaml:"spec_key_max_length"`

	// ProductCutoff is the possibility score at which a page is a product.
	ProductCutoff           float64 `yaml:"product_cutoff"`
	SpecRowCredit           float64 `yaml:"spec_row_credit"`
	SpecRowsOver3Credit     float64 `yaml:"spec_rows_over_3_credit"`
	SpecRowsOver7Credit     float64 `yaml:"spec_rows_over_7_credit"`
	GalleryCredit           float64 `yaml:"gallery_credit"`
	GalleryImageMin         int     `yaml:"gallery_image_min"`
	PriceCredit             float64 `yaml:"price_credit"`
	ProductSegmentCredit    float64 `yaml:"product_segment_credit"`
	SecondTitleCredit       float64 `yaml:"second_title_credit"`
	StructuredProductCredit float64 `yaml:"structured_product_credit"`

	CardHeadingCredit    int `yaml:"card_heading_credit"`
	CardSubheadingCredit int `yaml:"card_subheading_credit"`

	LinkMinLastSegment    int `yaml:"link_min_last_segment"`
	DirectSitemapSegments int `yaml:"direct_sitemap_segments"`
	AddressMinLength      int `yaml:"address_min_length"`

	// CurrencyUnits are matched in order; the first one found in a price
	// text is the unit.
	CurrencyUnits []string `yaml:"currency_units"`
}

// DefaultThresholds returns the thresholds the heuristics were tuned with.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SiteNameSimilarity:   15,
		TitleSimilarity:      70,
		SecondTitleMin:       49,
		SecondTitleMax:       95,
		TopicSiteNameCeiling: 65,
		TopicMaxLength:       26,
		TopicCategoryMax:     6,
		TopicListItemMax:     5,
		BreadcrumbAnchorMax:  10,
		ArticleMinTextLength: 350,
		SpecKeyMaxLength:     35,

		ProductCutoff:           0.75,
		SpecRowCredit:           0.1,
		SpecRowsOver3Credit:     0.2,
		SpecRowsOver7Credit:     0.35,
		GalleryCredit:           0.15,
		GalleryImageMin:         3,
		PriceCredit:             0.2,
		ProductSegmentCredit:    0.6,
		SecondTitleCredit:       0.35,
		StructuredProductCredit: 0.75,

		CardHeadingCredit:    30,
		CardSubheadingCredit: 15,

		LinkMinLastSegment:    4,
		DirectSitemapSegments: 45,
		AddressMinLength:      45,

		CurrencyUnits: DefaultCurrencyUnits(),
	}
}

// Validate returns an error if the thresholds cannot produce sane scores.
func (t Thresholds) Validate() error {
	similarities := []struct {
		name  string
		value int
	}{
		{"site_name_similarity", t.SiteNameSimilarity},
		{"title_similarity", t.TitleSimilarity},
		{"second_title_min", t.SecondTitleMin},
		{"second_title_max", t.SecondTitleMax},
		{"topic_site_name_ceiling", t.TopicSiteNameCeiling},
	}
	for _, s := range similarities {
		if s.value < 0 || s.value > 100 {
			return Errorf(EINVALID, "%s must be within [0,100], got %d", s.name, s.value)
		}
	}
	if t.SecondTitleMin >= t.SecondTitleMax {
		return Errorf(EINVALID, "second_title_min must be lower than second_title_max")
	}

	credits := []float64{
		t.SpecRowCredit, t.SpecRowsOver3Credit, t.SpecRowsOver7Credit,
		t.GalleryCredit, t.PriceCredit, t.ProductSegmentCredit,
		t.SecondTitleCredit, t.StructuredProductCredit,
	}
	for _, c := range credits {
		if c < 0 {
			return Errorf(EINVALID, "possibility credits must not be negative")
		}
	}
	// Spec row tiers replace each other, so a higher tier must never pay less.
	if t.SpecRowCredit > t.SpecRowsOver3Credit || t.SpecRowsOver3Credit > t.SpecRowsOver7Credit {
		return Errorf(EINVALID, "spec row credits must be non-decreasing by tier")
	}
	if t.ProductCutoff <= 0 || t.ProductCutoff > 1 {
		return Errorf(EINVALID, "product_cutoff must be within (0,1], got %v", t.ProductCutoff)
	}
	if len(t.CurrencyUnits) == 0 {
		return Errorf(EINVALID, "at least one currency unit is required")
	}
	return nil
}
