package goquery

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ezweb"
	"golang.org/x/net/html"
)

// addressWords mark footer sentences that spell out a postal address.
var addressWords = []string{
	"آدرس", "نشانی", "شعبه", "خیابان", "کوچه", "پلاک",
	"بلوار", "میدان", "چهارراه", "طبقه", "تقاطع",
}

// Addresses returns the postal addresses of the site owner, sorted:
// <address> elements, else footer elements classed address, location or
// contact, else long sentences of the last footer holding an address word.
func (d *Document) Addresses(th ezweb.Thresholds) []string {
	if texts := selectionTexts(d.All("address")); len(texts) > 0 {
		return sortedDistinct(texts)
	}

	if tagged := d.All(containsAny("footer *", "class", "address", "location", "contact")); tagged.Length() > 0 {
		return sortedDistinct(selectionTexts(tagged))
	}

	footer := d.All("footer").Last()
	if footer.Length() == 0 {
		return nil
	}
	nodes := textNodes(footer)
	for _, w := range addressWords {
		var texts []string
		for _, t := range nodes {
			if strings.Contains(t, w) && utf8.RuneCountInString(t) >= th.AddressMinLength {
				texts = append(texts, ezweb.CleanText(t))
			}
		}
		if len(texts) > 0 {
			return sortedDistinct(texts)
		}
	}
	return nil
}

var faqRe = regexp.MustCompile(`(.*)[?؟](.*)`)

// FAQ returns the question and answer pairs of elements classed faq.
func (d *Document) FAQ() []ezweb.QuestionAnswer {
	seen := make(map[string]bool)
	var faq []ezweb.QuestionAnswer
	for _, text := range selectionTexts(d.Contains("*", "class", "faq")) {
		for _, m := range faqRe.FindAllStringSubmatch(text, -1) {
			q, a := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
			if q == "" || a == "" || seen[q] {
				continue
			}
			seen[q] = true
			faq = append(faq, ezweb.QuestionAnswer{Question: q, Answer: a})
		}
	}
	return faq
}

// fileExtensions are the downloads collected from page anchors.
var fileExtensions = []string{"mp3", "rar", "pdf", "zip"}

// Files returns the absolute URLs of downloadable files linked by the page.
func (d *Document) Files() []string {
	seen := make(map[string]bool)
	var files []string
	for _, ext := range fileExtensions {
		d.Contains("a", "href", "."+ext).Each(func(_ int, a *goquery.Selection) {
			href := d.AbsoluteHref(a, false)
			if href == "" || seen[href] {
				return
			}
			seen[href] = true
			files = append(files, href)
		})
	}
	return files
}

func selectionTexts(sel *goquery.Selection) []string {
	var texts []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if t := ezweb.CleanText(s.Text()); t != "" {
			texts = append(texts, t)
		}
	})
	return texts
}

// textNodes returns the trimmed text nodes under sel in document order.
func textNodes(sel *goquery.Selection) []string {
	var texts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				texts = append(texts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return texts
}
