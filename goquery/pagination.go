package goquery

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/shopcrawl"
)

// Compile-time interface verification.
var _ shopcrawl.PaginationDetector = (*PaginationDetector)(nil)

// PaginationDetector finds next-page candidates in listing markup.
// Detection methods run in priority order - rel="next" metadata,
// next-link conventions, load-more affordances, numbered page links -
// and the first method that matches wins. When none match, the result
// carries no candidates and the crawler finishes after the current
// page.
type PaginationDetector struct{}

// NewPaginationDetector creates a new PaginationDetector.
func NewPaginationDetector() *PaginationDetector {
	return &PaginationDetector{}
}

// Anchor text that conventionally marks a next-page link.
var nextLinkText = regexp.MustCompile(`(?i)^(next|next page|older|more|»|›|→)\s*(»|›|→)?$`)

// Selectors that conventionally mark a next-page link.
const nextLinkSelectors = ".pagination a.next, a.next_page, .next a[href], " +
	".woocommerce-pagination a.next, a.pagination__next, .pages-item-next a, " +
	"a[aria-label='Next'], a[aria-label='Next page']"

// Selectors for load-more affordances. The target URL hides in an href
// or a data attribute depending on the theme.
const loadMoreSelectors = "a.load-more, button.load-more, a.infinite-more-link, " +
	"[data-load-more], [data-next-url], [data-next-page]"

// Selectors for numbered page-link blocks.
const numberedSelectors = ".pagination a[href], ul.page-numbers a[href], " +
	".woocommerce-pagination a[href], .pages-items a[href], nav.pagination a[href]"

// DetectPagination returns the next-page candidates for a listing page.
func (d *PaginationDetector) DetectPagination(html string, baseURL string) (shopcrawl.Pagination, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return shopcrawl.Pagination{}, shopcrawl.Errorf(shopcrawl.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return shopcrawl.Pagination{}, shopcrawl.Errorf(shopcrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	for _, detect := range []func(*goquery.Document, *url.URL) shopcrawl.Pagination{
		d.detectRelNext,
		d.detectNextLink,
		d.detectLoadMore,
		d.detectNumbered,
	} {
		if p := detect(doc, base); len(p.Candidates) > 0 {
			return p, nil
		}
	}

	return shopcrawl.Pagination{}, nil
}

// detectRelNext checks for explicit rel="next" metadata, the strongest
// pagination signal a page can carry.
func (d *PaginationDetector) detectRelNext(doc *goquery.Document, base *url.URL) shopcrawl.Pagination {
	var p shopcrawl.Pagination
	doc.Find("link[rel='next'], a[rel='next']").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, exists := sel.Attr("href")
		if !exists || isNonHTTPLink(href) {
			return true
		}
		if resolved := resolveURL(base, href); resolved != "" && isSameHost(base, resolved) {
			p.Candidates = append(p.Candidates, shopcrawl.PageLink{
				URL:    resolved,
				Method: shopcrawl.PaginationRelNext,
			})
			return false
		}
		return true
	})
	return p
}

// detectNextLink checks common "next page" link conventions: dedicated
// classes first, then anchors whose text reads like a next link.
func (d *PaginationDetector) detectNextLink(doc *goquery.Document, base *url.URL) shopcrawl.Pagination {
	var p shopcrawl.Pagination

	add := func(sel *goquery.Selection) bool {
		href, exists := sel.Attr("href")
		if !exists || isNonHTTPLink(href) {
			return false
		}
		resolved := resolveURL(base, href)
		if resolved == "" || !isSameHost(base, resolved) {
			return false
		}
		p.Candidates = append(p.Candidates, shopcrawl.PageLink{
			URL:    resolved,
			Method: shopcrawl.PaginationNextLink,
		})
		return true
	}

	found := false
	doc.Find(nextLinkSelectors).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		found = add(sel)
		return !found
	})
	if found {
		return p
	}

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if !nextLinkText.MatchString(cleanText(sel.Text())) {
			return true
		}
		return !add(sel)
	})
	return p
}

// detectLoadMore simulates a "load more" affordance by following the
// URL it would have requested.
func (d *PaginationDetector) detectLoadMore(doc *goquery.Document, base *url.URL) shopcrawl.Pagination {
	var p shopcrawl.Pagination
	doc.Find(loadMoreSelectors).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		for _, attr := range []string{"data-next-url", "data-next-page", "data-load-more", "href"} {
			href, exists := sel.Attr(attr)
			if !exists || href == "" || href == "true" || isNonHTTPLink(href) {
				continue
			}
			if resolved := resolveURL(base, href); resolved != "" && isSameHost(base, resolved) {
				p.Candidates = append(p.Candidates, shopcrawl.PageLink{
					URL:    resolved,
					Method: shopcrawl.PaginationLoadMore,
				})
				return false
			}
		}
		return true
	})
	return p
}

// detectNumbered enumerates numbered page links. All candidates are
// returned (the frontier deduplicates) and the highest number seen
// doubles as the total page count.
func (d *PaginationDetector) detectNumbered(doc *goquery.Document, base *url.URL) shopcrawl.Pagination {
	var p shopcrawl.Pagination
	seen := map[string]bool{}

	doc.Find(numberedSelectors).Each(func(_ int, sel *goquery.Selection) {
		number, err := strconv.Atoi(cleanText(sel.Text()))
		if err != nil || number <= 0 {
			return
		}
		href, exists := sel.Attr("href")
		if !exists || isNonHTTPLink(href) {
			return
		}
		resolved := resolveURL(base, href)
		if resolved == "" || !isSameHost(base, resolved) || seen[resolved] {
			return
		}
		seen[resolved] = true
		p.Candidates = append(p.Candidates, shopcrawl.PageLink{
			URL:    resolved,
			Method: shopcrawl.PaginationNumbered,
			Number: number,
		})
		if number > p.TotalPages {
			p.TotalPages = number
		}
	})
	return p
}
