// Package crawl orchestrates multi-page traversal of storefront
// listings. It coordinates fetching, platform detection, extraction,
// normalization, pattern learning and pagination for one site at a
// time; independent sites may be crawled concurrently with separate
// Crawl invocations.
package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/shopcrawl"
	"golang.org/x/net/publicsuffix"
)

// Frontier sizing for pagination deduplication.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.01
)

// Crawler drives the per-site crawl loop. Pages are processed
// sequentially; only fetching and pattern persistence perform I/O.
type Crawler struct {
	Fetcher    shopcrawl.Fetcher
	Detector   shopcrawl.PlatformDetector
	Extractor  shopcrawl.Extractor
	Normalizer shopcrawl.Normalizer
	Learner    shopcrawl.Learner
	Paginator  shopcrawl.PaginationDetector
	Limiter    shopcrawl.DomainLimiter
	// RetryDelays is the per-page retry schedule. Nil means
	// DefaultRetryDelays; tests inject zero delays.
	RetryDelays []time.Duration
	Logger      *slog.Logger
}

// Progress reports one page-fetch attempt, success or failure.
type Progress struct {
	CurrentPage int
	// TotalPages is 0 until a page exposes a count.
	TotalPages int
	URL        string
	Err        error
}

// Options configures a single crawl run.
type Options struct {
	// MaxPages is the required upper bound on pages visited. The
	// budget guarantees termination even on sites with unbounded
	// pagination.
	MaxPages int

	// Delay is the politeness pause between page iterations, applied
	// in addition to the domain rate limit.
	Delay time.Duration

	// OnPageScraped fires once per successfully processed page with
	// the number of new unique products it contributed, zero included.
	OnPageScraped func(newProducts int)

	// OnProgress fires once per page-fetch attempt, success or failure.
	OnProgress func(p Progress)
}

// Summary is the terminal outcome of a crawl run.
type Summary struct {
	// Products is the deduplicated output set in discovery order.
	Products []*shopcrawl.Product

	PagesVisited  int
	PagesFailed   int
	ProductsFound int

	// Aborted is true only when the caller canceled the run. Budget
	// exhaustion and pagination exhaustion are normal completion.
	Aborted     bool
	AbortReason string
}

// Crawl traverses the listing starting at startURL until pagination is
// exhausted, the page budget runs out or the context is canceled. Page
// failures are isolated: a bad page is counted and skipped, never
// aborting the run. The only errors returned are invalid-input errors
// detected before the first fetch.
func (c *Crawler) Crawl(ctx context.Context, startURL string, opts Options) (*Summary, error) {
	if opts.MaxPages <= 0 {
		return nil, shopcrawl.Errorf(shopcrawl.EINVALID, "max pages must be positive")
	}
	start, err := url.Parse(startURL)
	if err != nil || start.Host == "" {
		return nil, shopcrawl.Errorf(shopcrawl.EINVALID, "invalid start url %q", startURL)
	}
	domain := RegistrableDomain(start.Host)
	logger := c.logger()

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	frontier.Push(shopcrawl.PageLink{URL: startURL, Method: shopcrawl.PaginationRelNext})

	summary := &Summary{}
	dedup := make(map[string]bool)
	totalPages := 0

	for summary.PagesVisited+summary.PagesFailed < opts.MaxPages {
		link, ok := frontier.Pop()
		if !ok {
			break
		}

		if ctx.Err() != nil {
			summary.Aborted = true
			summary.AbortReason = ctx.Err().Error()
			break
		}

		if c.Limiter != nil {
			if err := c.Limiter.Wait(ctx, start.Host); err != nil {
				summary.Aborted = true
				summary.AbortReason = err.Error()
				break
			}
		}

		page, ok := c.fetchPage(ctx, link.URL, opts, &totalPages, summary)
		if !ok {
			if ctx.Err() != nil {
				summary.Aborted = true
				summary.AbortReason = ctx.Err().Error()
				break
			}
			summary.PagesFailed++
			logger.Warn("page skipped after retries", "url", link.URL)
			continue
		}
		summary.PagesVisited++

		detection := c.Detector.Detect(page)
		pctx := shopcrawl.PageContext{Domain: domain, Detection: detection}

		newProducts := c.processPage(ctx, page, pctx, dedup, summary)

		if opts.OnPageScraped != nil {
			opts.OnPageScraped(newProducts)
		}

		c.queueNextPages(frontier, page, start.Host, &totalPages, logger)

		if opts.Delay > 0 && frontier.Len() > 0 {
			select {
			case <-ctx.Done():
				summary.Aborted = true
				summary.AbortReason = ctx.Err().Error()
				return summary, nil
			case <-time.After(opts.Delay):
			}
		}
	}

	return summary, nil
}

// fetchPage fetches one URL within the per-page retry budget, reporting
// each attempt through OnProgress.
func (c *Crawler) fetchPage(ctx context.Context, pageURL string, opts Options, totalPages *int, summary *Summary) (shopcrawl.RawPage, bool) {
	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	currentPage := summary.PagesVisited + summary.PagesFailed + 1
	onAttempt := func(url string, attempt int, err error) {
		if opts.OnProgress != nil {
			opts.OnProgress(Progress{
				CurrentPage: currentPage,
				TotalPages:  *totalPages,
				URL:         url,
				Err:         err,
			})
		}
		if err != nil {
			c.logger().Debug("fetch attempt failed", "url", url, "attempt", attempt, "error", err)
		}
	}

	html, err := FetchWithRetryDelays(ctx, pageURL, c.Fetcher.Fetch, onAttempt, delays)
	if err != nil {
		return shopcrawl.RawPage{}, false
	}
	return shopcrawl.RawPage{URL: pageURL, HTML: html, FetchedAt: time.Now()}, true
}

// processPage runs extraction and normalization for one fetched page
// and folds new unique products into the summary. Returns the number
// of products the page contributed.
func (c *Crawler) processPage(ctx context.Context, page shopcrawl.RawPage, pctx shopcrawl.PageContext, dedup map[string]bool, summary *Summary) int {
	logger := c.logger()

	result := c.Extractor.Extract(ctx, page, pctx)
	for _, msg := range result.Errors {
		logger.Debug("extraction issue", "url", page.URL, "issue", msg)
	}
	if !result.Usable() {
		return 0
	}

	newProducts := 0
	for _, fields := range result.Items {
		product, err := c.Normalizer.Normalize(fields, page.URL)
		if err != nil {
			logger.Debug("item rejected", "url", page.URL, "error", err)
			continue
		}

		key := product.DedupKey()
		if dedup[key] {
			continue
		}
		dedup[key] = true

		summary.Products = append(summary.Products, product)
		summary.ProductsFound++
		newProducts++
	}

	// Learning is fire-and-forget: a store failure never fails the page.
	if c.Learner != nil && newProducts > 0 {
		if err := c.Learner.Learn(ctx, pctx.Domain, pctx.Detection.Platform, result); err != nil {
			logger.Warn("pattern not learned", "domain", pctx.Domain, "error", err)
		}
	}

	return newProducts
}

// queueNextPages detects pagination on the page and queues same-host
// candidates. Detection failure terminates pagination gracefully for
// this branch rather than aborting the run.
func (c *Crawler) queueNextPages(frontier *Frontier, page shopcrawl.RawPage, host string, totalPages *int, logger *slog.Logger) {
	if c.Paginator == nil {
		return
	}

	pagination, err := c.Paginator.DetectPagination(page.HTML, page.URL)
	if err != nil {
		logger.Debug("pagination detection failed", "url", page.URL, "error", err)
		return
	}
	if pagination.TotalPages > *totalPages {
		*totalPages = pagination.TotalPages
	}

	for _, candidate := range pagination.Candidates {
		u, err := url.Parse(candidate.URL)
		if err != nil || u.Host != host {
			continue
		}
		frontier.Push(candidate)
	}
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// RegistrableDomain reduces a host to its registrable domain
// (eTLD+1), the key space patterns are stored under. Hosts without a
// public suffix (localhost, IPs) are returned as-is.
func RegistrableDomain(host string) string {
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}
