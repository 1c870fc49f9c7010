package main

import (
	"fmt"
	"sync"

	"github.com/fwojciec/shopcrawl"
	"github.com/fwojciec/shopcrawl/crawl"
	"golang.org/x/sync/errgroup"
)

// Run executes the crawl command. Each start URL is crawled in its own
// goroutine; pages within a site are visited sequentially by the
// crawler itself.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	if deps.Crawler == nil {
		err := shopcrawl.Errorf(shopcrawl.EINTERNAL, "crawler not configured")
		fmt.Fprintf(deps.Stderr, "error: %s\n", shopcrawl.ErrorMessage(err))
		return err
	}

	var (
		mu       sync.Mutex
		products []*shopcrawl.Product
		visited  int
		failed   int
	)

	g, ctx := errgroup.WithContext(deps.Ctx)
	for _, startURL := range c.URLs {
		g.Go(func() error {
			opts := crawl.Options{
				MaxPages: c.MaxPages,
				Delay:    c.Delay,
				OnProgress: func(p crawl.Progress) {
					if p.Err == nil {
						return
					}
					mu.Lock()
					fmt.Fprintf(deps.Stderr, "  fetch %s: %v\n", p.URL, p.Err)
					mu.Unlock()
				},
			}

			summary, err := deps.Crawler.Crawl(ctx, startURL, opts)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			products = append(products, summary.Products...)
			visited += summary.PagesVisited
			failed += summary.PagesFailed

			if summary.Aborted {
				fmt.Fprintf(deps.Stderr, "aborted %s: %s\n", startURL, summary.AbortReason)
			} else {
				fmt.Fprintf(deps.Stdout, "crawled %s: %d pages, %d products\n",
					startURL, summary.PagesVisited, summary.ProductsFound)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", shopcrawl.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Scraped %d products from %d pages (%d failed)\n",
		len(products), visited, failed)

	if deps.Products != nil {
		if err := deps.Products.WriteProducts(products); err != nil {
			fmt.Fprintf(deps.Stderr, "error writing products: %v\n", err)
			return err
		}
		if c.Out != "" {
			fmt.Fprintf(deps.Stdout, "Wrote %s\n", c.Out)
		}
	}

	return nil
}
