package goquery

import (
	"fmt"

	"github.com/fwojciec/ezweb"
)

// Ensure Analyzer implements ezweb.Analyzer at compile time.
var _ ezweb.Analyzer = (*Analyzer)(nil)

// Analyzer runs the page heuristics in order: fingerprint, title, topics,
// classification, then payload extraction and link ranking.
//
// The text collaborators are optional. Without a TextExtractor products are
// specified from tables only; without Readability and Converter articles
// have no Markdown body.
type Analyzer struct {
	Thresholds    ezweb.Thresholds
	TextExtractor ezweb.TextExtractor
	Readability   ezweb.Readability
	Converter     ezweb.Converter
}

// NewAnalyzer creates an Analyzer using the given thresholds.
func NewAnalyzer(th ezweb.Thresholds) *Analyzer {
	return &Analyzer{Thresholds: th}
}

// Analyze classifies the page and extracts its payload and links.
func (a *Analyzer) Analyze(in ezweb.AnalyzeInput) (*ezweb.Analysis, error) {
	th := a.Thresholds

	doc, err := Parse(in.HTML, in.URL, in.ContentType)
	if err != nil {
		return nil, err
	}
	fp, err := doc.Fingerprint(th)
	if err != nil {
		return nil, err
	}

	siteName := fp.SiteName
	if in.SiteName != "" {
		siteName = in.SiteName
	}
	summary := a.summarizer(in)
	title := doc.ResolveTitle(siteName, th)
	if title == "" {
		// Readability falls back to og:title and headers when <title> is empty.
		if readable, err := summary(); err == nil && readable != nil {
			title = ezweb.CleanTitle(readable.ShortTitle, siteName)
		}
	}

	topics := ezweb.FilterTopics(topicCandidates(in.Topics), siteName, th)
	if len(in.Topics) == 0 {
		topics = doc.Topics(siteName, th)
	}

	res := &ezweb.Analysis{
		Title:          doc.TitleText(),
		CanonicalTitle: title,
		SiteName:       siteName,
		Description:    doc.Description(),
		MainImage:      doc.MainImage(title),
		Language:       doc.Lang(),
		Topics:         topics,
		Classification: ezweb.Unclassified,
		Links:          doc.Links(th),
		Files:          doc.Files(),
		Degraded:       doc.Degraded(),
	}

	switch {
	case fp.Root:
		res.Classification = ezweb.Homepage
	case doc.IsArticle(th):
		article, err := a.article(doc, in, title, topics, summary)
		if err != nil {
			return nil, err
		}
		res.Classification = ezweb.ArticlePage
		res.Article = article
	default:
		pe, err := doc.ExtractProduct(title, a.mainText(in.HTML).Text, th)
		if err != nil {
			return nil, err
		}
		res.Possibility = ezweb.Possibility(pe.Signals, th)
		if ezweb.IsProduct(res.Possibility, th) {
			res.Classification = ezweb.ProductPage
			res.Product = pe.Record
		}
	}
	return res, nil
}

// mainText returns the main text of the page. Extraction failures leave
// the text empty: the heuristics then fall back to the DOM.
func (a *Analyzer) mainText(rawHTML string) *ezweb.MainText {
	if a.TextExtractor == nil {
		return &ezweb.MainText{}
	}
	mt, err := a.TextExtractor.ExtractText(rawHTML)
	if err != nil || mt == nil {
		return &ezweb.MainText{}
	}
	return mt
}

// summarizer returns a func that runs Readability over the page at most
// once. Without Readability it returns a nil summary.
func (a *Analyzer) summarizer(in ezweb.AnalyzeInput) func() (*ezweb.Readable, error) {
	var (
		done     bool
		readable *ezweb.Readable
		err      error
	)
	return func() (*ezweb.Readable, error) {
		if a.Readability == nil {
			return nil, nil
		}
		if !done {
			readable, err = a.Readability.Summarize(in.HTML, in.URL)
			done = true
		}
		return readable, err
	}
}

func (a *Analyzer) article(doc *Document, in ezweb.AnalyzeInput, title string, topics []string, summary func() (*ezweb.Readable, error)) (*ezweb.ArticleRecord, error) {
	rec := doc.ExtractArticle(title, topics)

	mt := a.mainText(in.HTML)
	rec.Text = mt.Text
	rec.Comments = mt.Comments
	if rec.PublishedAt == nil && !mt.Date.IsZero() {
		date := mt.Date
		rec.PublishedAt = &date
	}

	readable, err := summary()
	if err != nil {
		return nil, fmt.Errorf("summarize %s: %w", in.URL, err)
	}
	if readable == nil {
		return rec, nil
	}
	rec.Excerpt = readable.Excerpt
	if rec.Text == "" {
		rec.Text = readable.Text
	}
	if a.Converter != nil && readable.SummaryHTML != "" {
		body, err := a.Converter.Convert(readable.SummaryHTML)
		if err != nil {
			return nil, fmt.Errorf("convert %s: %w", in.URL, err)
		}
		rec.Body = body
	}
	return rec, nil
}

// Inspect reads the site-level hints of a homepage.
func (a *Analyzer) Inspect(rawHTML string, pageURL string) (*ezweb.SourceHints, error) {
	doc, err := Parse(rawHTML, pageURL, "")
	if err != nil {
		return nil, err
	}
	return doc.Inspect(a.Thresholds), nil
}

func topicCandidates(texts []string) []ezweb.TopicCandidate {
	candidates := make([]ezweb.TopicCandidate, len(texts))
	for i, t := range texts {
		candidates[i] = ezweb.TopicCandidate{Text: t, Tag: "feed"}
	}
	return candidates
}
