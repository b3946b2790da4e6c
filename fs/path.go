// Package fs provides file-based storage for page summaries.
package fs

import (
	"net/url"
	"path"
	"strings"

	"github.com/fwojciec/ezweb"
)

// URLToPath converts a page URL to a relative file path under its host.
// Example: https://example.com/product/galaxy-s24 → example.com/product/galaxy-s24.json
func URLToPath(rawURL, ext string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", ezweb.Errorf(ezweb.EINVALID, "invalid page URL %q: %v", rawURL, err)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", ezweb.Errorf(ezweb.EINVALID, "page URL %q has no host", rawURL)
	}

	// path.Clean drops ".." segments that would escape the host directory.
	p := strings.TrimPrefix(path.Clean("/"+u.Path), "/")

	// Root and trailing slash become index files
	if p == "" {
		return host + "/index" + ext, nil
	}
	if strings.HasSuffix(u.Path, "/") {
		return host + "/" + p + "/index" + ext, nil
	}
	return host + "/" + p + ext, nil
}
