package ezweb

import (
	"context"
	"net/http"
	"time"
)

// Response is the result of a successful fetch.
type Response struct {
	// URL is the final URL after redirects.
	URL     string
	Status  int
	Header  http.Header
	Body    string
	Elapsed time.Duration
}

// ContentType returns the Content-Type header of the response.
func (r *Response) ContentType() string {
	if r.Header == nil {
		return ""
	}
	return r.Header.Get("Content-Type")
}

// Fetcher retrieves pages.
// Implementations may use browser automation to handle JavaScript-rendered content.
type Fetcher interface {
	// Fetch retrieves the URL. Non-2xx responses and network failures are
	// returned as EFETCH errors and are not retried.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*Response, error)

	// Close releases resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}
