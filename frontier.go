package shopcrawl

import "context"

// URLFrontier manages the queue of pagination candidates with
// deduplication. Once a URL has been pushed it is never accepted again,
// which is what prevents infinite pagination loops.
type URLFrontier interface {
	// Push adds a pagination candidate to the frontier.
	// Returns false if the URL has already been seen.
	Push(link PageLink) bool

	// Pop returns the next URL by pagination-method priority.
	// Returns false if the frontier is empty.
	Pop() (PageLink, bool)

	// Len returns the number of URLs waiting in the queue.
	Len() int

	// Seen returns true if the URL has been processed or queued.
	Seen(url string) bool
}

// DomainLimiter provides per-domain politeness rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
