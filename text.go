package ezweb

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
)

// titleSeparators split a <title> into its page part and its site part.
const titleSeparators = "-|:，،"

// titleNoise are removed from display titles.
var titleNoise = []string{"-", "|", ",", "،", ":", "خرید", "قیمت"}

// conjunctions are stripped when they start or end a display title.
var conjunctions = []string{"و", "and"}

// CleanTitle normalizes a display title: it removes separators, noise words
// and the site name, drops control characters, collapses whitespace and strips
// leading or trailing conjunctions. It returns "" when nothing remains.
// CleanTitle is idempotent.
func CleanTitle(s, siteName string) string {
	for {
		next := cleanTitleOnce(s, siteName)
		if next == s {
			return next
		}
		s = next
	}
}

func cleanTitleOnce(s, siteName string) string {
	s = strings.Map(controlToSpace, s)
	if siteName = strings.TrimSpace(siteName); siteName != "" {
		s = strings.ReplaceAll(s, siteName, " ")
	}
	for _, w := range titleNoise {
		s = strings.ReplaceAll(s, w, " ")
	}

	words := strings.Fields(s)
	for len(words) > 0 && isConjunction(words[0]) {
		words = words[1:]
	}
	for len(words) > 0 && isConjunction(words[len(words)-1]) {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

func isConjunction(w string) bool {
	for _, c := range conjunctions {
		if strings.EqualFold(w, c) {
			return true
		}
	}
	return false
}

func controlToSpace(r rune) rune {
	if unicode.IsControl(r) {
		return ' '
	}
	return r
}

var textNoise = strings.NewReplacer("\n", "", "\r", "", "\t", "")

// CleanText removes newlines, carriage returns and tabs and trims the result.
// It returns "" when nothing remains.
func CleanText(s string) string {
	return strings.TrimSpace(textNoise.Replace(s))
}

// SplitTitle returns the part of a <title> before its first separator.
// Leading separators are skipped.
func SplitTitle(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(titleSeparators, r)
	})
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			return p
		}
	}
	return ""
}

// TransliterateDigits replaces non-ASCII decimal digits (Persian,
// Arabic-Indic, ...) with their ASCII equivalents and leaves everything
// else untouched.
func TransliterateDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r <= unicode.MaxASCII || !unicode.IsDigit(r) {
			return r
		}
		d := unidecode.Unidecode(string(r))
		if len(d) == 1 && d[0] >= '0' && d[0] <= '9' {
			return rune(d[0])
		}
		return r
	}, s)
}

// Transliterate returns an ASCII approximation of s.
func Transliterate(s string) string {
	return unidecode.Unidecode(s)
}

// Capitalize upper-cases the first rune of s and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// IsDigits reports whether s is non-empty and made only of decimal digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
