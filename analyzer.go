package ezweb

import "context"

// AnalyzeInput is a fetched page handed to the Analyzer.
type AnalyzeInput struct {
	URL         string
	HTML        string
	ContentType string

	// SiteName overrides the fingerprinted site name when set, typically
	// with the name of an already discovered Source.
	SiteName string

	// Topics override the DOM topics when set, as with feed entry tags.
	Topics []string
}

// Analysis is everything the heuristics decide about one document.
type Analysis struct {
	Title          string
	CanonicalTitle string
	SiteName       string
	Description    string
	MainImage      string
	Language       string
	Topics         []string
	Classification Classification
	Possibility    float64
	Article        *ArticleRecord
	Product        *ProductRecord
	Links          []string
	Files          []string
	Degraded       bool
}

// Analyzer runs the classification and extraction heuristics over HTML.
type Analyzer interface {
	// Analyze classifies the page and extracts its payload and links.
	// Returns EINCONSISTENT when the page contradicts itself, such as a
	// price that names a currency but carries no number.
	Analyze(in AnalyzeInput) (*Analysis, error)

	// Inspect reads the site-level hints of a homepage.
	Inspect(rawHTML string, pageURL string) (*SourceHints, error)
}

// BuildInput identifies a page to build.
type BuildInput struct {
	URL    string
	Topics []string

	// Source, when set, is attached to the page and supplies the site name.
	Source *Source
}

// PageBuilder fetches a URL and turns it into a Page.
type PageBuilder interface {
	Build(ctx context.Context, in BuildInput) (*Page, error)
}
