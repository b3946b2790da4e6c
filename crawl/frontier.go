package crawl

import (
	"container/heap"
	"strings"
	"sync"

	"github.com/fwojciec/ezweb"
	"github.com/fwojciec/ezweb/bloom"
)

// Compile-time interface verification.
var _ ezweb.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory crawl queue with Bloom filter deduplication.
// Shallower links are popped first; links of the same level come out in
// push order. It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue *linkHeap
	seq   uint64
}

// NewFrontier creates a new Frontier sized for n expected URLs
// with the given false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	h := &linkHeap{}
	heap.Init(h)
	return &Frontier{
		seen:  bloom.NewFilter(n, fpRate),
		queue: h,
	}
}

// Push adds a link to the frontier.
// Returns false if the URL has already been seen.
// URLs sharing a bloom.Key, such as those differing only by fragment, are
// considered duplicates.
func (f *Frontier) Push(link ezweb.QueuedLink) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.seen.Visit(link.URL) {
		return false
	}

	link.URL = stripFragment(link.URL)
	heap.Push(f.queue, queued{link: link, seq: f.seq})
	f.seq++
	return true
}

// Pop returns the next link, shallowest level first.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (ezweb.QueuedLink, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queue.Len() == 0 {
		return ezweb.QueuedLink{}, false
	}
	q, _ := heap.Pop(f.queue).(queued)
	return q.link, true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// Seen returns true if the URL has been processed or queued.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Seen(rawURL)
}

func stripFragment(url string) string {
	if idx := strings.Index(url, "#"); idx != -1 {
		return url[:idx]
	}
	return url
}

type queued struct {
	link ezweb.QueuedLink
	seq  uint64
}

// linkHeap orders queued links by level, then by push order.
type linkHeap []queued

func (h linkHeap) Len() int { return len(h) }

func (h linkHeap) Less(i, j int) bool {
	if h[i].link.Level != h[j].link.Level {
		return h[i].link.Level < h[j].link.Level
	}
	return h[i].seq < h[j].seq
}

func (h linkHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *linkHeap) Push(x any) {
	q, _ := x.(queued)
	*h = append(*h, q)
}

func (h *linkHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
