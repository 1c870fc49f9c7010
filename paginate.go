package shopcrawl

// PaginationMethod identifies how a next-page candidate was found.
// Methods double as crawl priorities: an explicit rel="next" beats a
// load-more affordance, which beats enumerated page numbers.
type PaginationMethod string

// Pagination detection methods in priority order.
const (
	PaginationRelNext  PaginationMethod = "rel_next"
	PaginationNextLink PaginationMethod = "next_link"
	PaginationLoadMore PaginationMethod = "load_more"
	PaginationNumbered PaginationMethod = "numbered"
)

// PageLink is a pagination candidate discovered on a page.
type PageLink struct {
	URL    string
	Method PaginationMethod
	// Number is the page number for numbered links, 0 otherwise.
	Number int
}

// Pagination is the outcome of pagination detection for one page.
type Pagination struct {
	// Candidates are next-page URLs in discovery order. Empty means
	// the listing is exhausted (not an error).
	Candidates []PageLink

	// TotalPages is the page count when the markup exposes one,
	// 0 when unknown.
	TotalPages int
}

// PaginationDetector finds next-page candidates in listing markup.
// Detection methods are tried in priority order and the first that
// matches wins; when none match the crawler finishes gracefully after
// the current page rather than guessing a URL.
type PaginationDetector interface {
	DetectPagination(html string, baseURL string) (Pagination, error)
}
