package crawl

import (
	"container/heap"
	"strings"
	"sync"

	"github.com/fwojciec/shopcrawl"
	"github.com/fwojciec/shopcrawl/bloom"
)

// Compile-time interface verification.
var _ shopcrawl.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory pagination frontier with a priority queue and
// Bloom filter deduplication. An explicit rel="next" candidate is popped
// before next-link conventions, load-more affordances and numbered links;
// numbered links pop in page order. It is safe for concurrent use.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue *linkHeap
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

// Push adds a pagination candidate to the frontier.
// Returns false if the URL has already been seen. URL fragments are
// stripped before deduplication - URLs differing only by fragment are
// considered duplicates.
func (f *Frontier) Push(link shopcrawl.PageLink) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	url := stripFragment(link.URL)
	if f.seen.Test(url) {
		return false
	}
	f.seen.Add(url)

	link.URL = url
	heap.Push(f.queue, link)
	return true
}

// Pop returns the next candidate by pagination-method priority.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (shopcrawl.PageLink, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queue.Len() == 0 {
		return shopcrawl.PageLink{}, false
	}
	link, _ := heap.Pop(f.queue).(shopcrawl.PageLink)
	return link, true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// Seen returns true if the URL has been processed or queued.
// URL fragments are stripped before checking.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Test(stripFragment(rawURL))
}

func stripFragment(url string) string {
	if idx := strings.Index(url, "#"); idx != -1 {
		return url[:idx]
	}
	return url
}

// methodPriority ranks pagination methods; higher pops first.
var methodPriority = map[shopcrawl.PaginationMethod]int{
	shopcrawl.PaginationRelNext:  4,
	shopcrawl.PaginationNextLink: 3,
	shopcrawl.PaginationLoadMore: 2,
	shopcrawl.PaginationNumbered: 1,
}

// linkHeap implements heap.Interface for PageLink priority queue.
type linkHeap []shopcrawl.PageLink

func (h linkHeap) Len() int { return len(h) }

// Less orders by method priority (max-heap), then by page number so
// numbered candidates are crawled in order.
func (h linkHeap) Less(i, j int) bool {
	pi, pj := methodPriority[h[i].Method], methodPriority[h[j].Method]
	if pi != pj {
		return pi > pj
	}
	return h[i].Number < h[j].Number
}

func (h linkHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *linkHeap) Push(x any) {
	link, _ := x.(shopcrawl.PageLink)
	*h = append(*h, link)
}

func (h *linkHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
