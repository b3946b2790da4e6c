package ezweb

import "time"

// MainText holds the boilerplate-free text of a page.
type MainText struct {
	Title       string
	Text        string
	Comments    string
	Description string
	SiteName    string

	// Date is the publication date guessed from the page; zero if unknown.
	Date time.Time
}

// TextExtractor extracts the main text of HTML pages, removing boilerplate.
type TextExtractor interface {
	// ExtractText returns the main text of rawHTML.
	ExtractText(rawHTML string) (*MainText, error)
}

// Readable is the readability view of a page.
type Readable struct {
	ShortTitle  string
	SummaryHTML string
	Excerpt     string
	Text        string
}

// Readability produces readability summaries of HTML pages.
type Readability interface {
	// Summarize returns the short title and cleaned main HTML of rawHTML.
	Summarize(rawHTML string, pageURL string) (*Readable, error)
}

// Converter transforms HTML content into Markdown.
type Converter interface {
	Convert(html string) (string, error)
}
