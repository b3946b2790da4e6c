package ezweb_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/ezweb"
	"github.com/stretchr/testify/assert"
)

func TestOKTopicName(t *testing.T) {
	t.Parallel()

	th := ezweb.DefaultThresholds()

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"plain topic", "Smartphones", true},
		{"persian topic", "موبایل", true},
		{"numeric", "2024", false},
		{"empty", "  ", false},
		{"too long", strings.Repeat("x", 27), false},
		{"placeholder marker", "tag@:][x", false},
		{"colon inside a label", "Sci:Fi", true},
		{"bracketed label", "[Deals]", true},
		{"stop word", "Home", false},
		{"stop word first", "back to list", false},
		{"multi word stop entry", "صفحه اصلی سایت", false},
		{"login", "Login", false},
		{"equals site name", "techstore", false},
		{"similar to site name", "TechStores", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ezweb.OKTopicName(tt.in, "TechStore", th))
		})
	}
}

func TestFilterTopics(t *testing.T) {
	t.Parallel()

	th := ezweb.DefaultThresholds()
	got := ezweb.FilterTopics([]ezweb.TopicCandidate{
		{Text: "Home", Tag: "a"},
		{Text: "LAPTOPS", Tag: "a"},
		{Text: "laptops", Tag: "a"},
		{Text: "\nGaming\t", Tag: "a"},
		{Text: "Example", Tag: "a"},
	}, "Example", th)

	assert.Equal(t, []string{"Laptops", "Gaming"}, got)
	for _, topic := range got {
		assert.NotEqual(t, "Example", topic)
	}
}
