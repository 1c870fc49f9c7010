package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/shopcrawl"
	main "github.com/fwojciec/shopcrawl/cmd/shopcrawl"
	"github.com/fwojciec/shopcrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints discovered URLs", func(t *testing.T) {
		t.Parallel()

		sitemaps := &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, baseURL string, _ *shopcrawl.URLFilter) ([]string, error) {
				assert.Equal(t, "https://shop.example.com", baseURL)
				return []string{
					"https://shop.example.com/products/anvil",
					"https://shop.example.com/products/hammer",
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   stderr,
			Sitemaps: sitemaps,
		}

		cmd := &main.DiscoverCmd{URL: "https://shop.example.com"}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "https://shop.example.com/products/anvil")
		assert.Contains(t, stdout.String(), "https://shop.example.com/products/hammer")
		assert.Empty(t, stderr.String())
	})

	t.Run("passes include and exclude filters to the sitemap service", func(t *testing.T) {
		t.Parallel()

		var receivedFilter *shopcrawl.URLFilter
		sitemaps := &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, _ string, filter *shopcrawl.URLFilter) ([]string, error) {
				receivedFilter = filter
				return []string{"https://shop.example.com/products/anvil"}, nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   stderr,
			Sitemaps: sitemaps,
		}

		cmd := &main.DiscoverCmd{
			URL:     "https://shop.example.com",
			Filter:  []string{"/products/"},
			Exclude: []string{"test-"},
		}

		err := cmd.Run(deps)

		require.NoError(t, err)
		require.NotNil(t, receivedFilter)
		require.Len(t, receivedFilter.Include, 1)
		assert.Equal(t, "/products/", receivedFilter.Include[0].String())
		require.Len(t, receivedFilter.Exclude, 1)
		assert.Equal(t, "test-", receivedFilter.Exclude[0].String())
	})

	t.Run("returns error for invalid filter regex", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
		}

		cmd := &main.DiscoverCmd{
			URL:    "https://shop.example.com",
			Filter: []string{"[invalid"},
		}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "invalid")
		assert.Empty(t, stdout.String())
	})

	t.Run("returns error when discovery fails", func(t *testing.T) {
		t.Parallel()

		sitemaps := &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, _ string, _ *shopcrawl.URLFilter) ([]string, error) {
				return nil, shopcrawl.Errorf(shopcrawl.EUNAVAILABLE, "sitemap not reachable")
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   stderr,
			Sitemaps: sitemaps,
		}

		cmd := &main.DiscoverCmd{URL: "https://shop.example.com"}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
		assert.Contains(t, stderr.String(), "sitemap not reachable")
		assert.Empty(t, stdout.String())
	})

	t.Run("shows message when no URLs discovered", func(t *testing.T) {
		t.Parallel()

		sitemaps := &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, _ string, _ *shopcrawl.URLFilter) ([]string, error) {
				return nil, nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   stderr,
			Sitemaps: sitemaps,
		}

		cmd := &main.DiscoverCmd{URL: "https://shop.example.com"}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No URLs discovered")
	})
}
