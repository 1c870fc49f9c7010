package goquery_test

import (
	"testing"

	"github.com/fwojciec/shopcrawl"
	"github.com/fwojciec/shopcrawl/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ shopcrawl.PaginationDetector = (*goquery.PaginationDetector)(nil)

func TestPaginationDetector_DetectPagination(t *testing.T) {
	t.Parallel()

	detector := goquery.NewPaginationDetector()
	baseURL := "https://example.com/collections/all"

	t.Run("rel next wins over everything else", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
		<link rel="next" href="/collections/all?page=2">
		</head><body>
		<div class="pagination"><a class="next" href="/collections/all?page=3">Next</a></div>
		</body></html>`

		p, err := detector.DetectPagination(html, baseURL)
		require.NoError(t, err)
		require.Len(t, p.Candidates, 1)
		assert.Equal(t, "https://example.com/collections/all?page=2", p.Candidates[0].URL)
		assert.Equal(t, shopcrawl.PaginationRelNext, p.Candidates[0].Method)
	})

	t.Run("falls back to next link conventions", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
		<nav class="woocommerce-pagination"><a class="next" href="/shop/page/2/">→</a></nav>
		</body></html>`

		p, err := detector.DetectPagination(html, "https://example.com/shop/")
		require.NoError(t, err)
		require.Len(t, p.Candidates, 1)
		assert.Equal(t, "https://example.com/shop/page/2/", p.Candidates[0].URL)
		assert.Equal(t, shopcrawl.PaginationNextLink, p.Candidates[0].Method)
	})

	t.Run("recognizes next by anchor text", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><a href="?page=2">Next »</a></body></html>`

		p, err := detector.DetectPagination(html, baseURL)
		require.NoError(t, err)
		require.Len(t, p.Candidates, 1)
		assert.Equal(t, shopcrawl.PaginationNextLink, p.Candidates[0].Method)
	})

	t.Run("follows load more affordances", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
		<button class="load-more" data-next-url="/collections/all?page=2">Load more</button>
		</body></html>`

		p, err := detector.DetectPagination(html, baseURL)
		require.NoError(t, err)
		require.Len(t, p.Candidates, 1)
		assert.Equal(t, shopcrawl.PaginationLoadMore, p.Candidates[0].Method)
		assert.Equal(t, "https://example.com/collections/all?page=2", p.Candidates[0].URL)
	})

	t.Run("enumerates numbered page links and reports total", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><ul class="page-numbers">
		<li><a href="?page=1">1</a></li>
		<li><a href="?page=2">2</a></li>
		<li><a href="?page=7">7</a></li>
		</ul></body></html>`

		p, err := detector.DetectPagination(html, baseURL)
		require.NoError(t, err)
		require.Len(t, p.Candidates, 3)
		assert.Equal(t, 7, p.TotalPages)
		assert.Equal(t, shopcrawl.PaginationNumbered, p.Candidates[0].Method)
	})

	t.Run("filters external hosts", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><link rel="next" href="https://evil.example.net/page/2"></head></html>`

		p, err := detector.DetectPagination(html, baseURL)
		require.NoError(t, err)
		assert.Empty(t, p.Candidates)
	})

	t.Run("no pagination yields no candidates and no error", func(t *testing.T) {
		t.Parallel()

		p, err := detector.DetectPagination("<html><body><p>only page</p></body></html>", baseURL)
		require.NoError(t, err)
		assert.Empty(t, p.Candidates)
		assert.Zero(t, p.TotalPages)
	})
}
