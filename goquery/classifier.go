package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/shopcrawl"
)

// URL path segments that identify page types. The URL is a
// higher-confidence signal than page content, so it is checked first
// and wins ties.
var (
	productPathMarkers  = []string{"/products/", "/product/", "/item/", "/p/", "/dp/"}
	listingPathMarkers  = []string{"/collections/", "/collection/", "/category/", "/product-category/", "/c/", "/shop/", "/catalog/"}
	cartPathMarkers     = []string{"/cart", "/basket", "/bag"}
	checkoutPathMarkers = []string{"/checkout"}
	searchPathMarkers   = []string{"/search"}
	searchQueryParams   = []string{"q", "s", "query", "keyword"}
)

// classifyPage determines the page type. URL-pattern matching runs
// first; content heuristics (add-to-cart affordance, repeated product
// summary blocks) are the fallback when the URL is ambiguous.
func classifyPage(doc *goquery.Document, rawURL string) shopcrawl.PageType {
	if pt, ok := classifyByURL(rawURL); ok {
		return pt
	}
	return classifyByContent(doc)
}

// classifyByURL matches known path segments and query parameters.
// The second return value is false when the URL is ambiguous.
func classifyByURL(rawURL string) (shopcrawl.PageType, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return shopcrawl.PageTypeOther, false
	}

	path := strings.ToLower(u.Path)
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}

	// Checkout before cart: many carts live under /checkout/cart.
	for _, m := range checkoutPathMarkers {
		if strings.Contains(path, m) {
			return shopcrawl.PageTypeCheckout, true
		}
	}
	for _, m := range cartPathMarkers {
		if strings.Contains(path, m+"/") {
			return shopcrawl.PageTypeCart, true
		}
	}
	for _, m := range searchPathMarkers {
		if strings.Contains(path, m) {
			return shopcrawl.PageTypeSearch, true
		}
	}
	query := u.Query()
	for _, param := range searchQueryParams {
		if query.Get(param) != "" {
			return shopcrawl.PageTypeSearch, true
		}
	}

	// Product markers beat listing markers: Shopify product URLs live
	// under /collections/<name>/products/<handle>.
	for _, m := range productPathMarkers {
		if strings.Contains(path, m) {
			return shopcrawl.PageTypeProduct, true
		}
	}
	for _, m := range listingPathMarkers {
		if strings.Contains(path, m) {
			return shopcrawl.PageTypeListing, true
		}
	}

	return shopcrawl.PageTypeOther, false
}

// Add-to-cart affordances that mark a single-product page.
const addToCartSelectors = "form[action*='/cart/add'], button[name='add'], .add_to_cart_button, " +
	".single_add_to_cart_button, #product-addtocart-button, button.add-to-cart, [data-add-to-cart]"

// Repeated product summary blocks that mark a listing page.
const productCardSelectors = "li.product, .product-card, .product-item, .grid__item, " +
	".product-grid-item, [data-product-id], article.product"

// classifyByContent falls back to markup heuristics when the URL gave
// no signal.
func classifyByContent(doc *goquery.Document) shopcrawl.PageType {
	cards := doc.Find(productCardSelectors).Length()
	hasCartForm := doc.Find(addToCartSelectors).Length() > 0

	// A page with several product cards is a listing even if one card
	// carries an add-to-cart button.
	if cards >= 3 {
		return shopcrawl.PageTypeListing
	}
	if hasCartForm {
		return shopcrawl.PageTypeProduct
	}
	// A lone Product structured-data scope is a product page too.
	if doc.Find("[itemtype*='schema.org/Product']").Length() == 1 {
		return shopcrawl.PageTypeProduct
	}

	return shopcrawl.PageTypeOther
}
