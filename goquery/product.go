package goquery

import (
	"path"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ezweb"
)

// imageExtensions are the src extensions of images worth showing.
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}

// validImage reports whether an image src points at a real picture.
func validImage(src string) bool {
	lower := strings.ToLower(strings.TrimSpace(src))
	if lower == "" || strings.HasPrefix(lower, "data:") {
		return false
	}
	for _, ext := range imageExtensions {
		if strings.Contains(lower, ext) {
			return true
		}
	}
	return false
}

// validImages returns the distinct absolute srcs of the valid images in sel.
func (d *Document) validImages(sel *goquery.Selection) []string {
	seen := make(map[string]bool)
	var srcs []string
	sel.Each(func(_ int, img *goquery.Selection) {
		if !validImage(ImageSrc(img)) {
			return
		}
		src := d.AbsoluteHref(img, false)
		if src == "" || seen[src] {
			return
		}
		seen[src] = true
		srcs = append(srcs, src)
	})
	return srcs
}

// Card returns the element most likely to hold the main product and its
// score, or nil when the page has no candidate. Candidates are elements whose
// class or id mentions "product" (any "container" when there are none).
// Among equal scores the last candidate in document order wins.
func (d *Document) Card(th ezweb.Thresholds) (*goquery.Selection, *ezweb.CardInfo) {
	candidates := d.All(containsSelector("*", "class", "product") + ", " + containsSelector("*", "id", "product")).
		FilterFunction(func(_ int, s *goquery.Selection) bool {
			return goquery.NodeName(s) != "body"
		})
	if candidates.Length() == 0 {
		candidates = d.Contains("*", "class", "container")
	}

	var best *goquery.Selection
	bestScore := -1
	candidates.Each(func(_ int, s *goquery.Selection) {
		score := 0
		if goquery.NodeName(s) == "article" || s.Find("h1").Length() > 0 {
			score += th.CardHeadingCredit
		}
		if s.Find("h2").Length() == 1 {
			score += th.CardSubheadingCredit
		}
		score += len(d.validImages(s.Find("img")))
		if score >= bestScore {
			best, bestScore = s, score
		}
	})
	if best == nil {
		return nil, nil
	}

	class, _ := best.Attr("class")
	id, _ := best.Attr("id")
	return best, &ezweb.CardInfo{
		Tag:   goquery.NodeName(best),
		Class: strings.TrimSpace(class),
		ID:    strings.TrimSpace(id),
		Score: bestScore,
	}
}

// SecondTitle returns a secondary product title, such as the English name
// of a product titled in Persian: the structured alternateName, else the
// card <h2> or a child of the card <h1> whose similarity to title lies in
// [SecondTitleMin, SecondTitleMax). The most similar candidate wins.
func (d *Document) SecondTitle(card *goquery.Selection, title string, th ezweb.Thresholds) string {
	if alt := d.StructuredString("alternateName"); alt != "" {
		return alt
	}
	if card == nil {
		return ""
	}

	candidates := card.Find("h2").First().AddSelection(card.Find("h1").First().Children())

	var best string
	bestScore := 0
	candidates.Each(func(_ int, s *goquery.Selection) {
		text := ezweb.CleanText(s.Text())
		if text == "" {
			return
		}
		sim := ezweb.Similarity(text, title)
		if sim < th.SecondTitleMin || sim >= th.SecondTitleMax {
			return
		}
		if sim >= bestScore {
			best, bestScore = text, sim
		}
	})
	return best
}

// DOMPrice reads the price shown in the page body. The element whose class
// or id mentions "price" (any "value" element when there are none) with the
// most price-like numbers is parsed; among equals the last one wins.
//
// It returns the record, the currency unit seen in the element, and an
// EINCONSISTENT error when the element names a currency but has no number.
func (d *Document) DOMPrice(th ezweb.Thresholds) (*ezweb.PriceRecord, string, error) {
	candidates := d.All(containsSelector("*", "class", "price") + ", " + containsSelector("*", "id", "price"))
	if candidates.Length() == 0 {
		candidates = d.Contains("*", "class", "value")
	}

	var text string
	bestScore := -1
	candidates.Each(func(_ int, s *goquery.Selection) {
		t := ezweb.CleanText(s.Text())
		score := 0
		if t != "" {
			score = ezweb.PriceMatchCount(t)
		}
		if score >= bestScore {
			text, bestScore = t, score
		}
	})
	if text == "" {
		return nil, "", nil
	}

	unit := ezweb.DetectUnit(text, th.CurrencyUnits)
	price, err := ezweb.ParsePrice(text, th.CurrencyUnits)
	if err != nil {
		return nil, unit, err
	}
	return price, unit, nil
}

// StructuredPrice returns the lowest non-zero price or lowPrice declared in
// the structured data, as a raw number string.
func (d *Document) StructuredPrice() string {
	var best string
	var bestValue float64
	values := append(d.StructuredData("price"), d.StructuredData("lowPrice")...)
	for _, v := range values {
		raw := scalarString(v)
		rec, err := ezweb.NewPriceRecord(raw, "")
		if err != nil || rec.Value == 0 {
			continue
		}
		if best == "" || rec.Value < bestValue {
			best, bestValue = raw, rec.Value
		}
	}
	return best
}

// Price resolves the product price: structured data first, then the
// product:price:amount meta tag, then the page body. The unit of a
// structured or meta price comes from priceCurrency, the
// product:price:currency meta tag or the body, in that order. Without a
// unit there is no price.
func (d *Document) Price(th ezweb.Thresholds) (*ezweb.PriceRecord, error) {
	raw := d.StructuredPrice()
	if raw == "" {
		raw = d.Meta("property", "product:price:amount")
	}
	if raw == "" {
		price, _, err := d.DOMPrice(th)
		return price, err
	}

	unit := d.StructuredString("priceCurrency")
	if unit == "" {
		unit = d.Meta("property", "product:price:currency")
	}
	if unit == "" {
		_, domUnit, err := d.DOMPrice(th)
		if err != nil {
			return nil, err
		}
		unit = domUnit
	}
	if unit == "" {
		return nil, nil
	}

	price, err := ezweb.NewPriceRecord(raw, unit)
	if err != nil {
		// A declared price that cannot be read is not a price.
		return nil, nil
	}
	return price, nil
}

// Availability returns the structured availability, e.g. "InStock".
func (d *Document) Availability() string {
	raw := d.StructuredString("availability")
	if raw == "" {
		return ""
	}
	return path.Base(raw)
}

// TableSpecs returns the th/td pairs of the page tables. A table is read up
// to its first row without both header and data cells; a row is read up to
// its first pair whose header equals its cell.
func (d *Document) TableSpecs(th ezweb.Thresholds) []ezweb.SpecRow {
	var rows []ezweb.SpecRow
	d.All("table").Each(func(_ int, table *goquery.Selection) {
		table.Find("tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
			headers := tr.Find("th")
			cells := tr.Find("td")
			if headers.Length() == 0 || cells.Length() == 0 {
				return false
			}
			n := min(headers.Length(), cells.Length())
			for i := 0; i < n; i++ {
				key := ezweb.CleanText(headers.Eq(i).Text())
				value := ezweb.CleanText(cells.Eq(i).Text())
				if key == value {
					break
				}
				if row, ok := ezweb.AcceptSpecRow(key, value, th.SpecKeyMaxLength); ok {
					rows = append(rows, row)
				}
			}
			return true
		})
	})
	return rows
}

// Specs returns the specification rows: table pairs when the page has any,
// else rows parsed from the main text.
func (d *Document) Specs(mainText string, th ezweb.Thresholds) []ezweb.SpecRow {
	if rows := d.TableSpecs(th); len(rows) > 0 {
		return rows
	}
	return ezweb.ParseSpecText(mainText, th.SpecKeyMaxLength)
}

// ProductImages returns the gallery images of the page, or the valid
// images of the card when there is no gallery.
func (d *Document) ProductImages(card *goquery.Selection) []string {
	galleries := d.Contains("*", "class", "gallery")
	imgs := galleries.Filter("img").AddSelection(galleries.Find("img"))
	if srcs := d.validImages(imgs); len(srcs) > 0 {
		return srcs
	}
	if card == nil {
		return nil
	}
	return d.validImages(card.Find("img"))
}

// ProductExtraction is the product record with the signals it was scored on.
type ProductExtraction struct {
	Record  *ezweb.ProductRecord
	Signals ezweb.ProductSignals
}

// ExtractProduct builds the product record and the possibility signals of
// the page. It fails only when the page price is inconsistent.
func (d *Document) ExtractProduct(title, mainText string, th ezweb.Thresholds) (*ProductExtraction, error) {
	price, err := d.Price(th)
	if err != nil {
		return nil, err
	}
	card, info := d.Card(th)
	secondTitle := d.SecondTitle(card, title, th)
	specs := d.Specs(mainText, th)
	images := d.ProductImages(card)

	rec := &ezweb.ProductRecord{
		Title:        title,
		SecondTitle:  secondTitle,
		Price:        price,
		Availability: d.Availability(),
		Specs:        specs,
		Images:       images,
		Card:         info,
		Provider: ezweb.ProviderInfo{
			Addresses: d.Addresses(th),
			FAQ:       d.FAQ(),
		},
	}
	return &ProductExtraction{
		Record: rec,
		Signals: ezweb.ProductSignals{
			SpecRows:        len(specs),
			GalleryImages:   len(images),
			HasPrice:        price != nil,
			PathParts:       ezweb.PathParts(d.URL()),
			HasSecondTitle:  secondTitle != "",
			StructuredTypes: d.StructuredTypes(),
		},
	}, nil
}

// sortedDistinct returns the distinct non-empty values sorted.
func sortedDistinct(values []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
