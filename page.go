package ezweb

import (
	"context"
	"sync"
	"time"
)

// Classification is the kind of page decided by the classifiers.
type Classification string

// Page classifications.
const (
	Homepage     Classification = "homepage"
	ArticlePage  Classification = "article"
	ProductPage  Classification = "product"
	Unclassified Classification = "unclassified"
)

// Page is one crawled, parsed and classified URL.
//
// A Page is immutable once built, except for its children which are
// populated at most once by SetChildren.
type Page struct {
	ID             string         `json:"id"`
	URL            string         `json:"url"`
	Host           string         `json:"host"`
	Title          string         `json:"title,omitempty"`
	CanonicalTitle string         `json:"canonical_title,omitempty"`
	SiteName       string         `json:"site_name,omitempty"`
	Description    string         `json:"description,omitempty"`
	MainImage      string         `json:"main_image,omitempty"`
	Language       string         `json:"language,omitempty"`
	Topics         []string       `json:"topics,omitempty"`
	Classification Classification `json:"classification"`
	Possibility    float64        `json:"possibility"`
	Article        *ArticleRecord `json:"article,omitempty"`
	Product        *ProductRecord `json:"product,omitempty"`
	Links          []string       `json:"links,omitempty"`
	Files          []string       `json:"files,omitempty"`
	ContentHash    string         `json:"content_hash"`
	Degraded       bool           `json:"degraded,omitempty"`
	Duration       time.Duration  `json:"duration"`
	CrawledAt      time.Time      `json:"crawled_at"`

	// Source is shared by every page of the same host.
	Source *Source `json:"source,omitempty"`

	mu       sync.Mutex
	children []*Page
	expanded bool
}

// Validate returns an error if the page contains invalid fields.
func (p *Page) Validate() error {
	if p.URL == "" {
		return Errorf(EINVALID, "page URL required")
	}
	if p.Article != nil && p.Product != nil {
		return Errorf(EINVALID, "page %s carries both an article and a product", p.URL)
	}
	return nil
}

// Payload returns the extracted article or product record, or nil.
func (p *Page) Payload() any {
	switch {
	case p.Article != nil:
		return p.Article
	case p.Product != nil:
		return p.Product
	}
	return nil
}

// Children returns the expanded child pages and whether expansion happened.
func (p *Page) Children() ([]*Page, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.children, p.expanded
}

// SetChildren stores the child pages. Only the first call has an effect;
// it reports whether the children were stored.
func (p *Page) SetChildren(children []*Page) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.expanded {
		return false
	}
	p.children = children
	p.expanded = true
	return true
}

// Image is an image reference extracted from a page.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// ArticleRecord is the payload of an article page.
type ArticleRecord struct {
	Title       string     `json:"title,omitempty"`
	Headlines   []string   `json:"headlines,omitempty"`
	Body        string     `json:"body,omitempty"` // Markdown
	Text        string     `json:"text,omitempty"`
	Comments    string     `json:"comments,omitempty"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Images      []Image    `json:"images,omitempty"`
	MainImage   string     `json:"main_image,omitempty"`
	Topics      []string   `json:"topics,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	ModifiedAt  *time.Time `json:"modified_at,omitempty"`
}

// CardInfo identifies the element chosen as the main product container.
type CardInfo struct {
	Tag   string `json:"tag"`
	Class string `json:"class,omitempty"`
	ID    string `json:"id,omitempty"`
	Score int    `json:"score"`
}

// QuestionAnswer is one entry of a FAQ block.
type QuestionAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ProviderInfo describes the seller behind a product page.
type ProviderInfo struct {
	Addresses []string         `json:"addresses,omitempty"`
	FAQ       []QuestionAnswer `json:"faq,omitempty"`
}

// ProductRecord is the payload of a product page.
type ProductRecord struct {
	Title        string       `json:"title,omitempty"`
	SecondTitle  string       `json:"second_title,omitempty"`
	Price        *PriceRecord `json:"price,omitempty"`
	Availability string       `json:"availability,omitempty"`
	Specs        []SpecRow    `json:"specs,omitempty"`
	Images       []string     `json:"images,omitempty"`
	Card         *CardInfo    `json:"card,omitempty"`
	Provider     ProviderInfo `json:"provider"`
}

// PageFilter represents a filter passed to FindPages.
type PageFilter struct {
	Host           *string
	Classification *Classification

	// Limit and Offset page through results; zero means no bound.
	Limit  int
	Offset int
}

// PageService persists built pages.
type PageService interface {
	// CreatePage stores a page. Storing a URL twice replaces the old row.
	CreatePage(ctx context.Context, page *Page) error

	// FindPageByURL returns the stored page for a URL.
	// Returns ENOTFOUND if the page does not exist.
	FindPageByURL(ctx context.Context, url string) (*Page, error)

	// FindPages returns pages matching the filter, newest first.
	FindPages(ctx context.Context, filter PageFilter) ([]*Page, error)
}

// PageStore persists page summaries with atomic semantics.
// Save writes to a temporary location; Commit makes changes permanent;
// Abort discards pending changes.
type PageStore interface {
	Save(ctx context.Context, page *Page) error
	Commit() error
	Abort() error
}
