package ezweb

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// SpecRow is one key/value pair of a product specification table.
type SpecRow struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// specLineRe splits a line at its first colon.
var specLineRe = regexp.MustCompile(`(?m)^([^:\n]*):(.*)$`)

// ParseSpecText extracts specification rows from plain text. Lines shaped
// like "key: value" are used when present; otherwise consecutive lines are
// read as alternating keys and values.
func ParseSpecText(text string, maxKeyLen int) []SpecRow {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var pairs [][2]string
	if matches := specLineRe.FindAllStringSubmatch(text, -1); len(matches) > 0 {
		for _, m := range matches {
			pairs = append(pairs, [2]string{m[1], m[2]})
		}
	} else {
		lines := strings.Split(text, "\n")
		for i := 0; i+1 < len(lines); i += 2 {
			pairs = append(pairs, [2]string{lines[i], lines[i+1]})
		}
	}

	var rows []SpecRow
	for _, p := range pairs {
		if row, ok := AcceptSpecRow(p[0], p[1], maxKeyLen); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// AcceptSpecRow normalizes a candidate row and reports whether it looks like
// a real specification: both sides present, the key no longer than
// maxKeyLen runes and different from the value.
func AcceptSpecRow(key, value string, maxKeyLen int) (SpecRow, bool) {
	key = strings.TrimSpace(strings.ReplaceAll(CleanText(key), "-", ""))
	value = strings.TrimSpace(CleanText(value))
	if key == "" || value == "" {
		return SpecRow{}, false
	}
	if utf8.RuneCountInString(key) > maxKeyLen {
		return SpecRow{}, false
	}
	if key == value {
		return SpecRow{}, false
	}
	return SpecRow{Key: key, Value: value}, true
}
