// Package normalize turns raw extracted field values into canonical
// product records. Everything here is pure string processing: messy
// price text, free-text stock phrases, "Key: Value" specification
// lines and title-concatenated names go in, typed fields come out.
//
// Normalization never rejects a whole record for a bad field. Fields
// that cannot be parsed are left absent (nil) so downstream consumers
// can tell "unknown" from "zero". The only hard requirement is a
// non-empty name.
package normalize

import (
	"strings"

	"github.com/fwojciec/shopcrawl"
)

// Compile-time interface verification.
var _ shopcrawl.Normalizer = (*Normalizer)(nil)

// Normalizer implements shopcrawl.Normalizer.
type Normalizer struct{}

// NewNormalizer creates a new Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize converts a raw field set into a Product. It returns
// EINVALID when the field set carries no usable name; every other
// degradation is absorbed into the record.
func (n *Normalizer) Normalize(fields shopcrawl.FieldSet, sourceURL string) (*shopcrawl.Product, error) {
	name, err := CleanName(fields.First(shopcrawl.FieldName))
	if err != nil {
		return nil, err
	}

	product := &shopcrawl.Product{
		Name:      name,
		SKU:       strings.TrimSpace(fields.First(shopcrawl.FieldSKU)),
		SourceURL: sourceURL,
	}
	if u := fields.First(shopcrawl.FieldURL); u != "" {
		product.SourceURL = u
	}

	product.Price = ParsePrice(fields.First(shopcrawl.FieldPrice), fields.First(shopcrawl.FieldCurrency))
	product.Availability = ParseAvailability(fields.First(shopcrawl.FieldAvailability))
	product.Specifications = ParseSpecs(fields[shopcrawl.FieldSpec])
	product.Images = dedupeStrings(fields[shopcrawl.FieldImage])

	for _, v := range fields[shopcrawl.FieldVariant] {
		if v = strings.TrimSpace(v); v != "" {
			product.Variants = append(product.Variants, shopcrawl.VariantRef{Name: v})
		}
	}

	return product, nil
}

// dedupeStrings removes duplicates while preserving order.
func dedupeStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
