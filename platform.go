package shopcrawl

// Platform identifies a storefront platform.
type Platform string

// Supported storefront platforms.
const (
	PlatformUnknown     Platform = ""
	PlatformShopify     Platform = "shopify"
	PlatformWooCommerce Platform = "woocommerce"
	PlatformMagento     Platform = "magento"
	PlatformSchemaOrg   Platform = "schemaorg"
)

// PageType classifies what kind of storefront page was fetched.
// It drives which extraction path runs: single-product extraction
// for product pages, card extraction for listing and search pages.
type PageType string

// Recognized page types.
const (
	PageTypeProduct  PageType = "product"
	PageTypeListing  PageType = "listing"
	PageTypeSearch   PageType = "search"
	PageTypeCart     PageType = "cart"
	PageTypeCheckout PageType = "checkout"
	PageTypeOther    PageType = "other"
)

// Detection holds the outcome of platform and page-type classification
// for a single page. Confidence is in [0,1].
type Detection struct {
	Platform   Platform
	Confidence float64
	PageType   PageType
}

// PlatformDetector identifies the storefront platform and page type from
// page markup and URL. Detection never fails: unrecognizable input
// degrades to PlatformUnknown/PageTypeOther rather than erroring.
type PlatformDetector interface {
	Detect(page RawPage) Detection
}
