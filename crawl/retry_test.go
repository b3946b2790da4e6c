package crawl_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fwojciec/ezweb"
	"github.com/fwojciec/ezweb/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWithRetryDelays(t *testing.T) {
	t.Parallel()

	delays := []time.Duration{time.Millisecond, time.Millisecond}

	t.Run("returns the first success", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		var logged []string
		resp, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com/",
			func(_ context.Context, url string) (*ezweb.Response, error) {
				attempts++
				if attempts == 1 {
					return nil, ezweb.Errorf(ezweb.EFETCH, "connection reset")
				}
				return &ezweb.Response{URL: url, Body: "ok"}, nil
			},
			func(format string, args ...any) { logged = append(logged, format) },
			delays)

		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Body)
		assert.Equal(t, 2, attempts)
		assert.Len(t, logged, 1)
	})

	t.Run("gives up after all delays", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com/",
			func(_ context.Context, _ string) (*ezweb.Response, error) {
				attempts++
				return nil, ezweb.Errorf(ezweb.EFETCH, "status 503")
			}, nil, delays)

		assert.Equal(t, ezweb.EFETCH, ezweb.ErrorCode(err))
		assert.Equal(t, 3, attempts)
	})

	t.Run("never retries invalid requests", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		_, err := crawl.FetchWithRetryDelays(context.Background(), "::",
			func(_ context.Context, _ string) (*ezweb.Response, error) {
				attempts++
				return nil, ezweb.Errorf(ezweb.EINVALID, "malformed URL")
			}, nil, delays)

		assert.Equal(t, ezweb.EINVALID, ezweb.ErrorCode(err))
		assert.Equal(t, 1, attempts)
	})

	t.Run("empty delays mean a single attempt", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com/",
			func(_ context.Context, _ string) (*ezweb.Response, error) {
				attempts++
				return nil, ezweb.Errorf(ezweb.EFETCH, "status 500")
			}, nil, []time.Duration{})

		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("stops waiting when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		_, err := crawl.FetchWithRetryDelays(ctx, "https://example.com/",
			func(_ context.Context, _ string) (*ezweb.Response, error) {
				cancel()
				return nil, ezweb.Errorf(ezweb.EFETCH, "status 500")
			}, nil, []time.Duration{time.Hour})

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFetchWithRetryDelays_RetriesPerFetchTimeouts(t *testing.T) {
	t.Parallel()

	attempts := 0
	var logged []string
	resp, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com/slow",
		func(_ context.Context, url string) (*ezweb.Response, error) {
			attempts++
			if attempts < 3 {
				return nil, context.DeadlineExceeded
			}
			return &ezweb.Response{URL: url}, nil
		},
		func(format string, args ...any) { logged = append(logged, fmt.Sprintf(format, args...)) },
		[]time.Duration{time.Millisecond, time.Millisecond})

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/slow", resp.URL)
	assert.Equal(t, 3, attempts)
	require.Len(t, logged, 2)
	assert.Equal(t, "retry https://example.com/slow in 1ms (attempt 3 of 3): context deadline exceeded", logged[1])
}
