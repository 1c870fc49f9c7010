package crawl_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/shopcrawl"
	"github.com/fwojciec/shopcrawl/crawl"
	"github.com/stretchr/testify/assert"
)

func TestFrontier_Push_rejects_duplicate_URLs(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	link := shopcrawl.PageLink{
		URL:    "https://shop.example.com/collections/all?page=2",
		Method: shopcrawl.PaginationRelNext,
	}

	ok := f.Push(link)
	assert.True(t, ok, "first push should succeed")

	ok = f.Push(link)
	assert.False(t, ok, "duplicate URL should be rejected")
}

func TestFrontier_Push_treats_fragment_variants_as_duplicates(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	ok := f.Push(shopcrawl.PageLink{URL: "https://shop.example.com/collections/all?page=2", Method: shopcrawl.PaginationNumbered, Number: 2})
	assert.True(t, ok)

	ok = f.Push(shopcrawl.PageLink{URL: "https://shop.example.com/collections/all?page=2#main", Method: shopcrawl.PaginationNumbered, Number: 2})
	assert.False(t, ok, "URLs differing only by fragment are duplicates")
}

func TestFrontier_Pop_returns_highest_priority_method_first(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	// Push in reverse priority order
	f.Push(shopcrawl.PageLink{URL: "https://shop.example.com/c?page=7", Method: shopcrawl.PaginationNumbered, Number: 7})
	f.Push(shopcrawl.PageLink{URL: "https://shop.example.com/c/load-more", Method: shopcrawl.PaginationLoadMore})
	f.Push(shopcrawl.PageLink{URL: "https://shop.example.com/c/next", Method: shopcrawl.PaginationNextLink})
	f.Push(shopcrawl.PageLink{URL: "https://shop.example.com/c/rel-next", Method: shopcrawl.PaginationRelNext})

	link, ok := f.Pop()
	assert.True(t, ok)
	assert.Equal(t, shopcrawl.PaginationRelNext, link.Method)

	link, ok = f.Pop()
	assert.True(t, ok)
	assert.Equal(t, shopcrawl.PaginationNextLink, link.Method)

	link, ok = f.Pop()
	assert.True(t, ok)
	assert.Equal(t, shopcrawl.PaginationLoadMore, link.Method)

	link, ok = f.Pop()
	assert.True(t, ok)
	assert.Equal(t, shopcrawl.PaginationNumbered, link.Method)

	_, ok = f.Pop()
	assert.False(t, ok, "pop on empty frontier should return false")
}

func TestFrontier_Pop_orders_numbered_pages_ascending(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	f.Push(shopcrawl.PageLink{URL: "https://shop.example.com/c?page=5", Method: shopcrawl.PaginationNumbered, Number: 5})
	f.Push(shopcrawl.PageLink{URL: "https://shop.example.com/c?page=2", Method: shopcrawl.PaginationNumbered, Number: 2})
	f.Push(shopcrawl.PageLink{URL: "https://shop.example.com/c?page=3", Method: shopcrawl.PaginationNumbered, Number: 3})

	for _, want := range []int{2, 3, 5} {
		link, ok := f.Pop()
		assert.True(t, ok)
		assert.Equal(t, want, link.Number)
	}
}

func TestFrontier_Len_tracks_queue_size(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	assert.Equal(t, 0, f.Len(), "new frontier should be empty")

	f.Push(shopcrawl.PageLink{URL: "https://shop.example.com/a", Method: shopcrawl.PaginationNextLink})
	assert.Equal(t, 1, f.Len())

	f.Push(shopcrawl.PageLink{URL: "https://shop.example.com/b", Method: shopcrawl.PaginationNextLink})
	assert.Equal(t, 2, f.Len())

	f.Pop()
	assert.Equal(t, 1, f.Len())

	f.Pop()
	assert.Equal(t, 0, f.Len())
}

func TestFrontier_Seen_tracks_all_pushed_URLs(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	assert.False(t, f.Seen("https://shop.example.com/page"), "unseen URL should return false")

	f.Push(shopcrawl.PageLink{URL: "https://shop.example.com/page", Method: shopcrawl.PaginationNextLink})

	assert.True(t, f.Seen("https://shop.example.com/page"), "pushed URL should be seen")

	// Popped URLs stay seen; that is what prevents pagination loops.
	f.Pop()
	assert.True(t, f.Seen("https://shop.example.com/page"), "popped URL should still be seen")
}

func TestFrontier_concurrent_access(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(10000, 0.01)

	const numGoroutines = 10
	const numOpsPerGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines * 2) // pushers + poppers

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numOpsPerGoroutine; j++ {
				url := fmt.Sprintf("https://shop.example.com/%d/%d", id, j)
				f.Push(shopcrawl.PageLink{URL: url, Method: shopcrawl.PaginationNumbered, Number: j})
			}
		}(i)
	}

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < numOpsPerGoroutine; j++ {
				f.Pop()
				f.Len()
			}
		}()
	}

	wg.Wait()

	for i := 0; i < numGoroutines; i++ {
		for j := 0; j < numOpsPerGoroutine; j++ {
			url := fmt.Sprintf("https://shop.example.com/%d/%d", i, j)
			assert.True(t, f.Seen(url), "pushed URL %s should be seen", url)
		}
	}
}
