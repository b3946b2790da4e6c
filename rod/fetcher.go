// Package rod provides a JavaScript-rendering ezweb.Fetcher backed by a
// headless Chrome browser.
package rod

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/fwojciec/ezweb"
)

// DefaultFetchTimeout bounds a single page render.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements ezweb.Fetcher at compile time.
var _ ezweb.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using Chrome browser automation.
// The browser is recycled by a BrowserManager to bound memory use.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager *BrowserManager
	timeout time.Duration
	closed  atomic.Bool
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*fetcherConfig)

type fetcherConfig struct {
	timeout    time.Duration
	managerOps []ManagerOption
}

// WithFetchTimeout bounds each Fetch call.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(c *fetcherConfig) {
		c.timeout = d
	}
}

// WithManagerOptions configures the underlying BrowserManager.
func WithManagerOptions(opts ...ManagerOption) FetcherOption {
	return func(c *fetcherConfig) {
		c.managerOps = append(c.managerOps, opts...)
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...FetcherOption) (*Fetcher, error) {
	cfg := fetcherConfig{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	manager, err := NewBrowserManager(cfg.managerOps...)
	if err != nil {
		return nil, err
	}
	return &Fetcher{manager: manager, timeout: cfg.timeout}, nil
}

// Fetch navigates to the URL and returns the rendered HTML. The rendered
// document is serialized as UTF-8 whatever the original encoding was.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*ezweb.Response, error) {
	if f.closed.Load() {
		return nil, ezweb.Errorf(ezweb.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	begin := time.Now()
	page, release, err := f.manager.OpenPage()
	if err != nil {
		if ezweb.ErrorCode(err) == ezweb.EINVALID {
			return nil, err
		}
		return nil, ezweb.Errorf(ezweb.EFETCH, "open page for %s: %v", url, err)
	}
	defer release()

	// Set context for all subsequent operations
	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return nil, f.fetchError(ctx, url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, f.fetchError(ctx, url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, f.fetchError(ctx, url, err)
	}

	finalURL := url
	if info, err := page.Info(); err == nil && info.URL != "" {
		finalURL = info.URL
	}

	return &ezweb.Response{
		URL:     finalURL,
		Status:  http.StatusOK,
		Header:  http.Header{"Content-Type": []string{"text/html; charset=utf-8"}},
		Body:    html,
		Elapsed: time.Since(begin),
	}, nil
}

// fetchError keeps context errors as is and wraps the rest as EFETCH.
func (f *Fetcher) fetchError(ctx context.Context, url string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return ezweb.Errorf(ezweb.EFETCH, "render %s: %v", url, err)
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// Stats reports the renders served by the current browser and how many
// times the browser was replaced.
func (f *Fetcher) Stats() (served, recycled int) {
	return f.manager.Stats()
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}
