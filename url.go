package ezweb

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// PathParts returns the unescaped, non-empty segments of the URL path.
// The root path has no parts.
func PathParts(rawURL string) []string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil
	}
	var parts []string
	for _, seg := range strings.Split(u.Path, "/") {
		if seg == "" || seg == "." {
			continue
		}
		parts = append(parts, seg)
	}
	return parts
}

// IsURLRoot reports whether rawURL points at the root of its site.
// Only http and https URLs are accepted.
func IsURLRoot(rawURL string) (bool, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false, Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false, Errorf(EINVALID, "%q must be an http or https URL", rawURL)
	}
	return len(PathParts(rawURL)) == 0, nil
}

// Host returns the lower-cased host name of rawURL without port.
func Host(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// SameSite reports whether two host names refer to the same site,
// ignoring a leading "www.".
func SameSite(a, b string) bool {
	a = strings.TrimPrefix(strings.ToLower(a), "www.")
	b = strings.TrimPrefix(strings.ToLower(b), "www.")
	return a != "" && a == b
}

// RootURL returns the scheme and host of rawURL, e.g. "https://example.com".
// URLs without a scheme are treated as https.
func RootURL(rawURL string) (string, error) {
	raw := strings.TrimSpace(rawURL)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Host == "" {
		return "", Errorf(EINVALID, "URL %q has no host", rawURL)
	}
	return u.Scheme + "://" + u.Host, nil
}

// NameFromURL returns the capitalized bare domain name of rawURL, e.g.
// "Example" for https://www.shop.example.co.uk/a.
func NameFromURL(rawURL string) string {
	host := Host(rawURL)
	if host == "" {
		return ""
	}
	if net.ParseIP(host) == nil {
		if site, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
			return Capitalize(strings.SplitN(site, ".", 2)[0])
		}
	}
	labels := strings.Split(host, ".")
	if labels[0] == "www" && len(labels) > 1 {
		return Capitalize(labels[1])
	}
	return Capitalize(labels[0])
}
