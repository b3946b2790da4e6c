package crawl

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
)

// ComputeHash returns the hex xxhash of content. Pages store it so that
// unchanged HTML can be recognized between crawls.
func ComputeHash(content string) string {
	return strconv.FormatUint(xxhash.Sum64String(content), 16)
}

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatBytes formats a byte count in SI units, e.g. "1.5 kB".
func FormatBytes(bytes int) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.Bytes(uint64(bytes))
}

// FormatCount formats a count with thousands separators, e.g. "12,345".
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}
