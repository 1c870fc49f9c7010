package shopcrawl

import (
	"fmt"
	"strings"
	"unicode"
)

// StockStatus is the canonical availability state of a product.
type StockStatus string

// Recognized stock states. Free text that cannot be mapped to one of
// these always normalizes to StockUnknown, never to a guessed positive
// state.
const (
	StockInStock    StockStatus = "in_stock"
	StockOutOfStock StockStatus = "out_of_stock"
	StockLimited    StockStatus = "limited"
	StockPreorder   StockStatus = "preorder"
	StockBackorder  StockStatus = "backorder"
	StockUnknown    StockStatus = "unknown"
)

// Price is a normalized product price.
//
// Amount is nil when the source text was unparsable, which downstream
// consumers must distinguish from a literal zero ("free").
type Price struct {
	Amount      *float64 `json:"amount"`
	Currency    string   `json:"currency"`
	IsRange     bool     `json:"isRange"`
	IncludesTax *bool    `json:"includesTax"`
}

// Availability is the normalized stock state of a product. Quantity is
// nil unless the source text carried an explicit count (e.g. "3 left").
type Availability struct {
	Status   StockStatus `json:"status"`
	Quantity *int        `json:"quantity"`
}

// Specification is a single "Key: Value" product attribute. Products
// carry specifications as a slice to preserve source order.
type Specification struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// VariantRef points at a product variant (a size/color option of the
// same listing).
type VariantRef struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
	SKU  string `json:"sku,omitempty"`
}

// Product is the pipeline's primary output: a normalized product record.
type Product struct {
	Name           string          `json:"name"`
	Price          Price           `json:"price"`
	SKU            string          `json:"sku,omitempty"`
	Availability   Availability    `json:"availability"`
	Specifications []Specification `json:"specifications,omitempty"`
	Images         []string        `json:"images,omitempty"`
	Variants       []VariantRef    `json:"variants,omitempty"`
	SourceURL      string          `json:"sourceUrl"`
	PageID         string          `json:"pageId,omitempty"`
}

// Validate returns an error if the product cannot be emitted.
// A non-empty name is mandatory: extraction results without one are
// failures, not partial products.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return Errorf(EINVALID, "product name required")
	}
	return nil
}

// DedupKey returns the key used to detect the same product across pages.
// The SKU wins when present; otherwise the key is the case-folded name
// combined with the price amount. Products sharing a key are merged, not
// duplicated, in crawl output.
func (p *Product) DedupKey() string {
	if sku := strings.TrimSpace(p.SKU); sku != "" {
		return "sku:" + strings.ToLower(sku)
	}
	key := "name:" + foldKey(p.Name)
	if p.Price.Amount != nil {
		key += fmt.Sprintf("|%.2f", *p.Price.Amount)
	}
	return key
}

// foldKey lowercases and collapses whitespace and punctuation runs so
// cosmetic differences between listings don't defeat deduplication.
func foldKey(s string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// Normalizer turns a raw extracted field set into a canonical Product.
// It never panics and degrades field by field: irrecoverable fields are
// left absent (nil) rather than rejecting the whole record. The only
// error condition is a missing name (EINVALID).
type Normalizer interface {
	Normalize(fields FieldSet, sourceURL string) (*Product, error)
}

// ProductWriter hands finished products off to the content consumer.
type ProductWriter interface {
	WriteProducts(products []*Product) error
}
