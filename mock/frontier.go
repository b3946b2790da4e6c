package mock

import (
	"context"

	"github.com/fwojciec/ezweb"
)

var _ ezweb.URLFrontier = (*URLFrontier)(nil)

// URLFrontier is a mock implementation of ezweb.URLFrontier.
type URLFrontier struct {
	PushFn func(link ezweb.QueuedLink) bool
	PopFn  func() (ezweb.QueuedLink, bool)
	LenFn  func() int
	SeenFn func(url string) bool
}

func (f *URLFrontier) Push(link ezweb.QueuedLink) bool {
	return f.PushFn(link)
}

func (f *URLFrontier) Pop() (ezweb.QueuedLink, bool) {
	return f.PopFn()
}

func (f *URLFrontier) Len() int {
	return f.LenFn()
}

func (f *URLFrontier) Seen(url string) bool {
	return f.SeenFn(url)
}

var _ ezweb.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of ezweb.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
