package mock

import (
	"context"

	"github.com/fwojciec/ezweb"
)

var _ ezweb.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of ezweb.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*ezweb.Response, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*ezweb.Response, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}
