// Package mock provides mock implementations of shopcrawl interfaces
// for testing.
package mock

import (
	"context"

	"github.com/fwojciec/shopcrawl"
)

var _ shopcrawl.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of shopcrawl.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ shopcrawl.PlatformDetector = (*PlatformDetector)(nil)

// PlatformDetector is a mock implementation of shopcrawl.PlatformDetector.
type PlatformDetector struct {
	DetectFn func(page shopcrawl.RawPage) shopcrawl.Detection
}

func (d *PlatformDetector) Detect(page shopcrawl.RawPage) shopcrawl.Detection {
	return d.DetectFn(page)
}

var _ shopcrawl.Strategy = (*Strategy)(nil)

// Strategy is a mock implementation of shopcrawl.Strategy.
type Strategy struct {
	MethodFn  func() shopcrawl.ExtractionMethod
	AttemptFn func(page shopcrawl.RawPage, pctx shopcrawl.PageContext) (*shopcrawl.ExtractionResult, error)
}

func (s *Strategy) Method() shopcrawl.ExtractionMethod {
	return s.MethodFn()
}

func (s *Strategy) Attempt(page shopcrawl.RawPage, pctx shopcrawl.PageContext) (*shopcrawl.ExtractionResult, error) {
	return s.AttemptFn(page, pctx)
}

var _ shopcrawl.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of shopcrawl.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, page shopcrawl.RawPage, pctx shopcrawl.PageContext) *shopcrawl.ExtractionResult
}

func (e *Extractor) Extract(ctx context.Context, page shopcrawl.RawPage, pctx shopcrawl.PageContext) *shopcrawl.ExtractionResult {
	return e.ExtractFn(ctx, page, pctx)
}

var _ shopcrawl.Normalizer = (*Normalizer)(nil)

// Normalizer is a mock implementation of shopcrawl.Normalizer.
type Normalizer struct {
	NormalizeFn func(fields shopcrawl.FieldSet, sourceURL string) (*shopcrawl.Product, error)
}

func (n *Normalizer) Normalize(fields shopcrawl.FieldSet, sourceURL string) (*shopcrawl.Product, error) {
	return n.NormalizeFn(fields, sourceURL)
}

var _ shopcrawl.Learner = (*Learner)(nil)

// Learner is a mock implementation of shopcrawl.Learner.
type Learner struct {
	LearnFn func(ctx context.Context, domain string, platform shopcrawl.Platform, result *shopcrawl.ExtractionResult) error
}

func (l *Learner) Learn(ctx context.Context, domain string, platform shopcrawl.Platform, result *shopcrawl.ExtractionResult) error {
	return l.LearnFn(ctx, domain, platform, result)
}

var _ shopcrawl.PaginationDetector = (*PaginationDetector)(nil)

// PaginationDetector is a mock implementation of shopcrawl.PaginationDetector.
type PaginationDetector struct {
	DetectPaginationFn func(html string, baseURL string) (shopcrawl.Pagination, error)
}

func (d *PaginationDetector) DetectPagination(html string, baseURL string) (shopcrawl.Pagination, error) {
	return d.DetectPaginationFn(html, baseURL)
}

var _ shopcrawl.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of shopcrawl.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if l.WaitFn == nil {
		return nil
	}
	return l.WaitFn(ctx, domain)
}

var _ shopcrawl.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of shopcrawl.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *shopcrawl.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *shopcrawl.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}

var _ shopcrawl.ProductWriter = (*ProductWriter)(nil)

// ProductWriter is a mock implementation of shopcrawl.ProductWriter.
type ProductWriter struct {
	WriteProductsFn func(products []*shopcrawl.Product) error
}

func (w *ProductWriter) WriteProducts(products []*shopcrawl.Product) error {
	return w.WriteProductsFn(products)
}
