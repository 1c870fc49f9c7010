package shopcrawl

import (
	"context"
	"time"
)

// RawPage represents a page as delivered by the fetcher. The pipeline
// treats it as opaque input and never mutates it.
type RawPage struct {
	URL       string
	HTML      string
	FetchedAt time.Time
}

// Fetcher retrieves HTML from URLs. The pipeline itself contains no
// network code; implementations may use plain HTTP or browser automation
// to handle JavaScript-rendered storefronts.
type Fetcher interface {
	// Fetch retrieves the page at url and returns its HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}
