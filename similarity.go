package ezweb

import (
	"math"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/unicode/norm"
)

// Similarity returns how alike a and b are on a 0-100 scale.
//
// The score is the indel-normalized ratio 200*LCS/(len(a)+len(b)) computed
// over runes of the NFC-normalized inputs, rounded to the nearest integer.
// It is case sensitive and symmetric. An empty input always scores 0.
func Similarity(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	a = norm.NFC.String(a)
	b = norm.NFC.String(b)

	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	lcs := edlib.LCS(a, b)
	return int(math.Round(200 * float64(lcs) / float64(total)))
}
