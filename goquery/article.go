package goquery

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/fwojciec/ezweb"
)

// ArticleTag returns the <article> element with the most text, or nil.
// Among equally long articles the last one wins.
func (d *Document) ArticleTag() *goquery.Selection {
	var best *goquery.Selection
	bestLen := -1
	d.All("article").Each(func(_ int, s *goquery.Selection) {
		if n := utf8.RuneCountInString(strings.TrimSpace(s.Text())); n >= bestLen {
			best, bestLen = s, n
		}
	})
	return best
}

// PublishedAt returns the parsed article:published_time meta value.
func (d *Document) PublishedAt() *time.Time {
	return d.metaTime("article:published_time")
}

// ModifiedAt returns the parsed article:modified_time meta value.
func (d *Document) ModifiedAt() *time.Time {
	return d.metaTime("article:modified_time")
}

func (d *Document) metaTime(property string) *time.Time {
	raw := d.Meta("property", property)
	if raw == "" {
		return nil
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return nil
	}
	return &t
}

// IsArticle reports whether the page is a genuine article: its main
// <article> holds enough text and a publication or modification date is
// declared.
func (d *Document) IsArticle(th ezweb.Thresholds) bool {
	article := d.ArticleTag()
	if article == nil {
		return false
	}
	if utf8.RuneCountInString(strings.TrimSpace(article.Text())) < th.ArticleMinTextLength {
		return false
	}
	return d.PublishedAt() != nil || d.ModifiedAt() != nil
}

// ArticleImages returns the images of the main article that have both a
// src and an alt text, most similar alt to title first.
func (d *Document) ArticleImages(title string) []ezweb.Image {
	article := d.ArticleTag()
	if article == nil {
		return nil
	}
	type ranked struct {
		img   ezweb.Image
		score int
	}
	var images []ranked
	article.Find("img[src][alt]").Each(func(_ int, s *goquery.Selection) {
		alt, _ := s.Attr("alt")
		alt = strings.TrimSpace(alt)
		src := d.AbsoluteHref(s, false)
		if alt == "" || src == "" {
			return
		}
		images = append(images, ranked{
			img:   ezweb.Image{Src: src, Alt: alt},
			score: ezweb.Similarity(title, alt),
		})
	})
	sort.SliceStable(images, func(i, j int) bool {
		return images[i].score > images[j].score
	})

	out := make([]ezweb.Image, len(images))
	for i, r := range images {
		out[i] = r.img
	}
	return out
}

// MainImage returns og:image when present, else the best article image.
func (d *Document) MainImage(title string) string {
	if og := d.OG("image"); og != "" {
		if abs := d.resolve(og, false); abs != "" {
			return abs
		}
		return og
	}
	if images := d.ArticleImages(title); len(images) > 0 {
		return images[0].Src
	}
	return ""
}

// Headlines returns the <h2> texts of the main article in document order.
func (d *Document) Headlines() []string {
	article := d.ArticleTag()
	if article == nil {
		return nil
	}
	var headlines []string
	article.Find("h2").Each(func(_ int, s *goquery.Selection) {
		if text := ezweb.CleanText(s.Text()); text != "" {
			headlines = append(headlines, text)
		}
	})
	return headlines
}

// ExtractArticle returns the DOM part of the article record. Body, text
// and comments come from the text extractors and are filled by the Analyzer.
func (d *Document) ExtractArticle(title string, topics []string) *ezweb.ArticleRecord {
	images := d.ArticleImages(title)
	return &ezweb.ArticleRecord{
		Title:       title,
		Headlines:   d.Headlines(),
		Images:      images,
		MainImage:   d.MainImage(title),
		Topics:      topics,
		PublishedAt: d.PublishedAt(),
		ModifiedAt:  d.ModifiedAt(),
	}
}
