package mock

import (
	"context"

	"github.com/fwojciec/ezweb"
)

var _ ezweb.PageService = (*PageService)(nil)

// PageService is a mock implementation of ezweb.PageService.
type PageService struct {
	CreatePageFn    func(ctx context.Context, page *ezweb.Page) error
	FindPageByURLFn func(ctx context.Context, url string) (*ezweb.Page, error)
	FindPagesFn     func(ctx context.Context, filter ezweb.PageFilter) ([]*ezweb.Page, error)
}

func (s *PageService) CreatePage(ctx context.Context, page *ezweb.Page) error {
	return s.CreatePageFn(ctx, page)
}

func (s *PageService) FindPageByURL(ctx context.Context, url string) (*ezweb.Page, error) {
	return s.FindPageByURLFn(ctx, url)
}

func (s *PageService) FindPages(ctx context.Context, filter ezweb.PageFilter) ([]*ezweb.Page, error) {
	return s.FindPagesFn(ctx, filter)
}

var _ ezweb.SourceService = (*SourceService)(nil)

// SourceService is a mock implementation of ezweb.SourceService.
type SourceService struct {
	CreateSourceFn     func(ctx context.Context, src *ezweb.Source) error
	FindSourceByHostFn func(ctx context.Context, host string) (*ezweb.Source, error)
}

func (s *SourceService) CreateSource(ctx context.Context, src *ezweb.Source) error {
	return s.CreateSourceFn(ctx, src)
}

func (s *SourceService) FindSourceByHost(ctx context.Context, host string) (*ezweb.Source, error) {
	return s.FindSourceByHostFn(ctx, host)
}
