package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/ezweb"
	"github.com/go-shiori/go-readability"
)

// Ensure Summarizer implements ezweb.Readability at compile time.
var _ ezweb.Readability = (*Summarizer)(nil)

// Summarizer wraps go-readability to produce readable summaries of pages.
type Summarizer struct{}

// NewSummarizer creates a new Summarizer.
func NewSummarizer() *Summarizer {
	return &Summarizer{}
}

// Summarize returns the short title and the cleaned main HTML of rawHTML.
// Relative links in the summary are resolved against pageURL when given.
func (s *Summarizer) Summarize(rawHTML string, pageURL string) (*ezweb.Readable, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, ezweb.Errorf(ezweb.EINVALID, "empty HTML input")
	}

	var base *url.URL
	if pageURL != "" {
		u, err := url.Parse(pageURL)
		if err != nil {
			return nil, ezweb.Errorf(ezweb.EINVALID, "invalid page URL: %v", err)
		}
		base = u
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), base)
	if err != nil {
		return nil, err
	}

	return &ezweb.Readable{
		ShortTitle:  strings.TrimSpace(article.Title),
		SummaryHTML: article.Content,
		Excerpt:     strings.TrimSpace(article.Excerpt),
		Text:        strings.TrimSpace(article.TextContent),
	}, nil
}
