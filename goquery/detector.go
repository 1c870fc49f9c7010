// Package goquery provides goquery-based implementations of the
// shopcrawl detection, extraction and pagination interfaces.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/shopcrawl"
)

// Compile-time interface verification.
var _ shopcrawl.PlatformDetector = (*Detector)(nil)

// Detector identifies storefront platforms and page types from HTML
// content and URL structure. It checks a prioritized list of platform
// signatures: meta generator tags first (most reliable when present),
// then platform-specific asset paths, script globals and markup
// markers, then structured-data vendor hints.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect analyzes a page and returns its platform and page type.
// It never fails: unparsable or unrecognizable input degrades to
// PlatformUnknown/PageTypeOther.
func (d *Detector) Detect(page shopcrawl.RawPage) shopcrawl.Detection {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return shopcrawl.Detection{Platform: shopcrawl.PlatformUnknown, PageType: shopcrawl.PageTypeOther}
	}

	platform, confidence := d.detectPlatform(doc)
	pageType := classifyPage(doc, page.URL)

	return shopcrawl.Detection{
		Platform:   platform,
		Confidence: confidence,
		PageType:   pageType,
	}
}

// detectPlatform checks platform signatures in priority order; the
// first matching signature wins.
func (d *Detector) detectPlatform(doc *goquery.Document) (shopcrawl.Platform, float64) {
	// Meta generator tags first - most reliable when present.
	if platform := d.detectFromMetaGenerator(doc); platform != shopcrawl.PlatformUnknown {
		return platform, 0.95
	}

	// Shopify markers: the CDN asset prefix and the window.Shopify
	// script global are present on every themed storefront.
	if d.hasAssetPrefix(doc, "cdn.shopify.com") ||
		d.hasAssetPrefix(doc, "/cdn/shop/") ||
		d.hasScriptGlobal(doc, "window.Shopify") ||
		d.hasScriptGlobal(doc, "Shopify.theme") {
		return shopcrawl.PlatformShopify, 0.9
	}

	// WooCommerce markers: body classes and the plugin asset path.
	if d.hasBodyClass(doc, "woocommerce") ||
		d.hasBodyClass(doc, "woocommerce-page") ||
		d.hasAssetPrefix(doc, "wp-content/plugins/woocommerce") {
		return shopcrawl.PlatformWooCommerce, 0.9
	}

	// Magento markers: x-magento-init blocks are unique to Magento 2,
	// Mage.Cookies to Magento 1.
	if doc.Find("script[type='text/x-magento-init']").Length() > 0 ||
		doc.Find("[data-mage-init]").Length() > 0 ||
		d.hasScriptGlobal(doc, "Mage.Cookies") ||
		d.hasBodyClass(doc, "catalog-product-view") {
		return shopcrawl.PlatformMagento, 0.9
	}

	// Generic schema.org: no vendor identified but the page carries
	// Product structured data, so structured extraction will work.
	if hasProductJSONLD(doc) || doc.Find("[itemtype*='schema.org/Product']").Length() > 0 {
		return shopcrawl.PlatformSchemaOrg, 0.6
	}

	return shopcrawl.PlatformUnknown, 0
}

// detectFromMetaGenerator checks the meta generator tag for platform
// identification.
func (d *Detector) detectFromMetaGenerator(doc *goquery.Document) shopcrawl.Platform {
	generator := ""
	doc.Find("meta[name='generator']").Each(func(_ int, s *goquery.Selection) {
		if content, exists := s.Attr("content"); exists {
			generator = strings.ToLower(content)
		}
	})

	if generator == "" {
		return shopcrawl.PlatformUnknown
	}

	switch {
	case strings.Contains(generator, "woocommerce"):
		return shopcrawl.PlatformWooCommerce
	case strings.Contains(generator, "shopify"):
		return shopcrawl.PlatformShopify
	case strings.Contains(generator, "magento"):
		return shopcrawl.PlatformMagento
	}

	return shopcrawl.PlatformUnknown
}

// hasAssetPrefix checks script and stylesheet sources for a known
// platform asset-path prefix.
func (d *Detector) hasAssetPrefix(doc *goquery.Document, prefix string) bool {
	found := false
	doc.Find("script[src], link[href], img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, attr := range []string{"src", "href"} {
			if v, exists := s.Attr(attr); exists && strings.Contains(v, prefix) {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

// hasScriptGlobal checks inline scripts for a platform-specific global
// variable assignment.
func (d *Detector) hasScriptGlobal(doc *goquery.Document, name string) bool {
	found := false
	doc.Find("script:not([src])").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(s.Text(), name) {
			found = true
			return false
		}
		return true
	})
	return found
}

// hasBodyClass checks whether the body element carries the class.
func (d *Detector) hasBodyClass(doc *goquery.Document, class string) bool {
	body := doc.Find("body").First()
	v, exists := body.Attr("class")
	if !exists {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// hasProductJSONLD reports whether any JSON-LD block mentions a Product
// type. This is a cheap textual probe; the structured-data strategy
// does the real parsing.
func hasProductJSONLD(doc *goquery.Document) bool {
	found := false
	doc.Find("script[type='application/ld+json']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(s.Text(), `"Product"`) {
			found = true
			return false
		}
		return true
	})
	return found
}
