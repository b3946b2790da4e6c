package crawl

import "github.com/fwojciec/ezweb"

// ContentDiffers compares the main text extracted from HTTP-fetched HTML
// with the text of browser-rendered HTML. Returns true if the rendered text
// is significantly longer (>50%), suggesting JavaScript rendering adds
// meaningful content. Extraction errors also return true.
func ContentDiffers(httpHTML, rodHTML string, extractor ezweb.TextExtractor) bool {
	httpText, err := extractor.ExtractText(httpHTML)
	if err != nil {
		return true
	}

	rodText, err := extractor.ExtractText(rodHTML)
	if err != nil {
		return true
	}

	httpLen := len(httpText.Text)
	rodLen := len(rodText.Text)

	if httpLen == 0 && rodLen > 0 {
		return true
	}

	threshold := float64(httpLen) * 1.5
	return float64(rodLen) > threshold
}
