package mock

import "github.com/fwojciec/ezweb"

var _ ezweb.TextExtractor = (*TextExtractor)(nil)

// TextExtractor is a mock implementation of ezweb.TextExtractor.
type TextExtractor struct {
	ExtractTextFn func(rawHTML string) (*ezweb.MainText, error)
}

func (e *TextExtractor) ExtractText(rawHTML string) (*ezweb.MainText, error) {
	return e.ExtractTextFn(rawHTML)
}

var _ ezweb.Readability = (*Readability)(nil)

// Readability is a mock implementation of ezweb.Readability.
type Readability struct {
	SummarizeFn func(rawHTML string, pageURL string) (*ezweb.Readable, error)
}

func (r *Readability) Summarize(rawHTML string, pageURL string) (*ezweb.Readable, error) {
	return r.SummarizeFn(rawHTML, pageURL)
}

var _ ezweb.Converter = (*Converter)(nil)

// Converter is a mock implementation of ezweb.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
