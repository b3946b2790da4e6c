package fs

import (
	"fmt"
	"strings"

	"github.com/fwojciec/ezweb"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

// Format selects how pages are written.
type Format string

// Supported formats.
const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
)

// ParseFormat returns the Format named s.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatMarkdown, "markdown":
		return FormatMarkdown, nil
	}
	return "", ezweb.Errorf(ezweb.EINVALID, "unknown format %q", s)
}

// Ext returns the file extension of the format.
func (f Format) Ext() string {
	return "." + string(f)
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FormatPageJSON encodes the page as indented JSON.
func FormatPageJSON(page *ezweb.Page) ([]byte, error) {
	b, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// frontmatter is the YAML header of a markdown summary.
type frontmatter struct {
	URL            string   `yaml:"url"`
	Site           string   `yaml:"site,omitempty"`
	Classification string   `yaml:"classification"`
	Possibility    float64  `yaml:"possibility,omitempty"`
	Topics         []string `yaml:"topics,omitempty"`
	Language       string   `yaml:"language,omitempty"`
	Image          string   `yaml:"image,omitempty"`
	Crawled        string   `yaml:"crawled"`
}

// FormatPageMarkdown renders the page as markdown with YAML frontmatter.
func FormatPageMarkdown(page *ezweb.Page) (string, error) {
	header, err := yaml.Marshal(frontmatter{
		URL:            page.URL,
		Site:           page.SiteName,
		Classification: string(page.Classification),
		Possibility:    page.Possibility,
		Topics:         page.Topics,
		Language:       page.Language,
		Image:          page.MainImage,
		Crawled:        page.CrawledAt.Format("2006-01-02"),
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")

	title := page.CanonicalTitle
	if title == "" {
		title = page.Title
	}
	if title != "" {
		fmt.Fprintf(&b, "# %s\n\n", title)
	}

	switch {
	case page.Article != nil:
		writeArticle(&b, page.Article)
	case page.Product != nil:
		writeProduct(&b, page.Product)
	case page.Description != "":
		fmt.Fprintf(&b, "%s\n\n", page.Description)
	}

	if len(page.Links) > 0 {
		b.WriteString("## Links\n\n")
		for _, l := range page.Links {
			fmt.Fprintf(&b, "- %s\n", l)
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n", nil
}

func writeArticle(b *strings.Builder, a *ezweb.ArticleRecord) {
	if a.Excerpt != "" {
		fmt.Fprintf(b, "> %s\n\n", a.Excerpt)
	}
	body := a.Body
	if body == "" {
		body = a.Text
	}
	if body != "" {
		fmt.Fprintf(b, "%s\n\n", strings.TrimSpace(body))
	}
}

func writeProduct(b *strings.Builder, p *ezweb.ProductRecord) {
	if p.SecondTitle != "" {
		fmt.Fprintf(b, "_%s_\n\n", p.SecondTitle)
	}
	if p.Price != nil {
		fmt.Fprintf(b, "**Price:** %s\n\n", p.Price)
	}
	if p.Availability != "" {
		fmt.Fprintf(b, "**Availability:** %s\n\n", p.Availability)
	}
	if len(p.Specs) > 0 {
		b.WriteString("| Key | Value |\n|---|---|\n")
		for _, row := range p.Specs {
			fmt.Fprintf(b, "| %s | %s |\n", escapeCell(row.Key), escapeCell(row.Value))
		}
		b.WriteString("\n")
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
