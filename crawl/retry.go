package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/ezweb"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (*ezweb.Response, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetryDelays calls fetch until it succeeds, waiting delays[i]
// before retry i+1. An empty delays slice means a single attempt. The last
// error is returned once the delays run out.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger LogFunc, delays []time.Duration) (*ezweb.Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := fetch(ctx, url)
		if err == nil {
			return resp, nil
		}
		if !retryable(err) || attempt == len(delays) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if logger != nil {
			logger("retry %s in %s (attempt %d of %d): %v", url, delays[attempt], attempt+2, len(delays)+1, err)
		}
		if err := sleep(ctx, delays[attempt]); err != nil {
			return nil, err
		}
	}
}

// retryable reports whether another attempt could succeed. Invalid
// requests fail the same way every time. A per-fetch timeout is retried
// as long as ctx itself is alive.
func retryable(err error) bool {
	return ezweb.ErrorCode(err) != ezweb.EINVALID
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
