package ezweb

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// DefaultCurrencyUnits returns the currency tokens recognized in price texts,
// in match order.
func DefaultCurrencyUnits() []string {
	return []string{"تومان", "ریال", "toman", "rial", "$"}
}

// priceNumberRe matches a number with optional grouping or decimal
// separators, e.g. 1,250,000 or 12.5 or 1/250.
var priceNumberRe = regexp.MustCompile(`\d+(?:[.,/٫٬]\d+)*`)

// PriceRecord is a resolved price. It is never partially filled: when no
// numeric value can be found the record is absent.
type PriceRecord struct {
	Value     float64 `json:"value"`
	Decimal   bool    `json:"decimal"`
	Unit      string  `json:"unit"`
	Humanized string  `json:"humanized"`
}

// String returns the humanized price.
func (p *PriceRecord) String() string {
	return p.Humanized
}

// PriceMatchCount returns how many price-like numbers appear in the
// transliterated text. It is used to score candidate price elements.
func PriceMatchCount(text string) int {
	return len(priceNumberRe.FindAllString(Transliterate(text), -1))
}

// DetectUnit returns the first unit of units that occurs in text, or "".
// Latin units match case-insensitively.
func DetectUnit(text string, units []string) string {
	lower := strings.ToLower(text)
	for _, u := range units {
		if u != "" && strings.Contains(lower, strings.ToLower(u)) {
			return u
		}
	}
	return ""
}

// ParsePrice extracts a price from the text of a price element.
//
// It returns nil when the text carries no currency unit. When a unit is
// present but no number can be found it returns an EINCONSISTENT error: the
// element looked like a price and could not be read. The last number wins,
// since old prices and SKUs usually precede the real price.
func ParsePrice(text string, units []string) (*PriceRecord, error) {
	unit := DetectUnit(text, units)
	if unit == "" {
		return nil, nil
	}

	numbers := priceNumberRe.FindAllString(TransliterateDigits(text), -1)
	if len(numbers) == 0 {
		return nil, Errorf(EINCONSISTENT, "price unit %q found without a number in %q", unit, CleanText(text))
	}
	return NewPriceRecord(numbers[len(numbers)-1], unit)
}

// NewPriceRecord builds a price from a raw numeric string and a unit.
// Numbers with a decimal point are decimals; anything else is read as an
// integer after dropping non-digit characters.
func NewPriceRecord(raw, unit string) (*PriceRecord, error) {
	raw = strings.ReplaceAll(TransliterateDigits(strings.TrimSpace(raw)), "٫", ".")

	rec := &PriceRecord{Unit: unit}
	if strings.Count(raw, ".") == 1 {
		cleaned := strings.Map(func(r rune) rune {
			if r == '.' || (r >= '0' && r <= '9') {
				return r
			}
			return -1
		}, raw)
		if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
			rec.Value = v
			rec.Decimal = true
		}
	}
	if !rec.Decimal {
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, raw)
		if digits == "" {
			return nil, Errorf(EINVALID, "price %q has no digits", raw)
		}
		v, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return nil, Errorf(EINVALID, "price %q is out of range", raw)
		}
		rec.Value = float64(v)
	}

	rec.Humanized = humanizePrice(rec)
	return rec, nil
}

func humanizePrice(p *PriceRecord) string {
	var n string
	if p.Decimal {
		n = humanize.CommafWithDigits(p.Value, 2)
	} else {
		n = humanize.Comma(int64(p.Value))
	}
	if p.Unit == "" {
		return n
	}
	return n + " " + p.Unit
}
