package crawl

import (
	"context"
	"errors"
	"sync"

	"github.com/fwojciec/ezweb"
)

var _ ezweb.Fetcher = (*AutoFetcher)(nil)

// AutoFetcher picks between a plain HTTP fetcher and a rendering fetcher
// per host. The first page of a host is fetched both ways; the rendered
// version is used for the host from then on only if ContentDiffers says
// rendering adds content.
type AutoFetcher struct {
	HTTP      ezweb.Fetcher
	Rod       ezweb.Fetcher
	Extractor ezweb.TextExtractor

	mu     sync.Mutex
	render map[string]bool
}

// Fetch retrieves url with the fetcher chosen for its host.
func (f *AutoFetcher) Fetch(ctx context.Context, url string) (*ezweb.Response, error) {
	host := ezweb.Host(url)
	if render, ok := f.decision(host); ok {
		if render {
			return f.Rod.Fetch(ctx, url)
		}
		return f.HTTP.Fetch(ctx, url)
	}

	resp, err := f.HTTP.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	rendered, err := f.Rod.Fetch(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		f.decide(host, false)
		return resp, nil
	}

	if ContentDiffers(resp.Body, rendered.Body, f.Extractor) {
		f.decide(host, true)
		return rendered, nil
	}
	f.decide(host, false)
	return resp, nil
}

// Close releases both fetchers.
func (f *AutoFetcher) Close() error {
	return errors.Join(f.HTTP.Close(), f.Rod.Close())
}

func (f *AutoFetcher) decision(host string) (render bool, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	render, ok = f.render[host]
	return render, ok
}

func (f *AutoFetcher) decide(host string, render bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.render == nil {
		f.render = make(map[string]bool)
	}
	if _, ok := f.render[host]; !ok {
		f.render[host] = render
	}
}
