package trafilatura

import (
	"strings"

	"github.com/fwojciec/ezweb"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure Extractor implements ezweb.TextExtractor at compile time.
var _ ezweb.TextExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract the main text of HTML pages.
type Extractor struct {
	// IncludeTables keeps table text in the main text.
	IncludeTables bool
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText processes raw HTML and returns its main text and comments.
func (e *Extractor) ExtractText(rawHTML string) (*ezweb.MainText, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, ezweb.Errorf(ezweb.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
		ExcludeTables:  !e.IncludeTables,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	return &ezweb.MainText{
		Title:       result.Metadata.Title,
		Text:        contentText(result),
		Comments:    strings.TrimSpace(result.CommentsText),
		Description: result.Metadata.Description,
		SiteName:    result.Metadata.Sitename,
		Date:        result.Metadata.Date,
	}, nil
}

// blockTags end a line of main text.
var blockTags = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Section: true, atom.Article: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Ul: true, atom.Ol: true, atom.Li: true, atom.Dl: true, atom.Dt: true, atom.Dd: true,
	atom.Table: true, atom.Tr: true, atom.Td: true, atom.Th: true,
	atom.Blockquote: true, atom.Pre: true, atom.Figure: true, atom.Figcaption: true, atom.Hr: true,
}

// contentText returns the main text with one line per block element, so
// "key: value" paragraphs stay apart. ContentText joins blocks with spaces.
func contentText(result *trafilatura.ExtractResult) string {
	if result.ContentNode == nil {
		return strings.TrimSpace(result.ContentText)
	}

	var lines []string
	var line strings.Builder
	flush := func() {
		if text := strings.Join(strings.Fields(line.String()), " "); text != "" {
			lines = append(lines, text)
		}
		line.Reset()
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			line.WriteString(n.Data)
			return
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			flush()
			return
		}
		block := n.Type == html.ElementNode && blockTags[n.DataAtom]
		if block {
			flush()
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			flush()
		}
	}
	walk(result.ContentNode)
	flush()

	if len(lines) == 0 {
		return strings.TrimSpace(result.ContentText)
	}
	return strings.Join(lines, "\n")
}
