// Package htmltomarkdown renders article summaries as Markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/strikethrough"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/ezweb"
)

var _ ezweb.Converter = (*Converter)(nil)

// chromeTags never belong in an article body, even when a summary keeps them.
var chromeTags = []string{"nav", "aside", "form", "button", "iframe", "noscript"}

// Converter turns the summary HTML of an article into its Markdown body.
type Converter struct {
	conv *converter.Converter
}

// Option configures a Converter.
type Option func(*converter.Converter)

// WithoutImages drops images from the body. Article images are extracted
// separately, so bodies can stay text only.
func WithoutImages() Option {
	return func(c *converter.Converter) {
		c.Register.TagType("img", converter.TagTypeRemove, converter.PriorityStandard)
		c.Register.TagType("picture", converter.TagTypeRemove, converter.PriorityStandard)
	}
}

// NewConverter creates a Converter for CommonMark with tables and
// strikethrough.
func NewConverter(opts ...Option) *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
			strikethrough.NewStrikethroughPlugin(),
		),
	)
	for _, tag := range chromeTags {
		conv.Register.TagType(tag, converter.TagTypeRemove, converter.PriorityStandard)
	}
	for _, opt := range opts {
		opt(conv)
	}
	return &Converter{conv: conv}
}

// Convert renders html as Markdown. Returns EINVALID for blank input.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", ezweb.Errorf(ezweb.EINVALID, "empty HTML input")
	}

	md, err := c.conv.ConvertString(html)
	if err != nil {
		return "", ezweb.Errorf(ezweb.EINTERNAL, "convert article body: %v", err)
	}
	return strings.TrimSpace(md), nil
}
