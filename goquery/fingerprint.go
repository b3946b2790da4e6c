package goquery

import (
	"github.com/fwojciec/ezweb"
)

// Fingerprint holds the page-level facts every other heuristic builds on.
type Fingerprint struct {
	URL      string
	Host     string
	Parts    []string
	Root     bool
	SiteName string
}

// Fingerprint derives the URL facts and the site name of the page.
func (d *Document) Fingerprint(th ezweb.Thresholds) (*Fingerprint, error) {
	root, err := ezweb.IsURLRoot(d.URL())
	if err != nil {
		return nil, err
	}
	return &Fingerprint{
		URL:      d.URL(),
		Host:     ezweb.Host(d.URL()),
		Parts:    ezweb.PathParts(d.URL()),
		Root:     root,
		SiteName: d.SiteName(th),
	}, nil
}

// SiteName resolves the display name of the site: og:site_name, then
// twitter:creator, then the alt text of the first <nav> image when it is
// similar enough to the bare domain name.
func (d *Document) SiteName(th ezweb.Thresholds) string {
	text := d.OG("site_name")
	if text == "" {
		text = d.Meta("name", "twitter:creator")
	}
	if text == "" {
		text = d.navBrand(th)
	}
	return ezweb.CleanTitle(text, "")
}

func (d *Document) navBrand(th ezweb.Thresholds) string {
	img := d.First("nav").Find("img[alt]").First()
	alt, _ := img.Attr("alt")
	if alt == "" {
		return ""
	}
	domain := ezweb.NameFromURL(d.URL())
	if ezweb.Similarity(ezweb.Transliterate(alt), domain) < th.SiteNameSimilarity {
		return ""
	}
	return alt
}
