package goquery

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/shopcrawl"
)

// Compile-time interface verification.
var _ shopcrawl.Strategy = (*StructuredDataStrategy)(nil)

// StructuredDataStrategy extracts products from embedded JSON-LD
// blocks. It understands Product entities, ItemList entities wrapping
// them (listing pages), and @graph containers. Malformed blocks are
// recorded and skipped; the strategy only fails when no block yields a
// product.
type StructuredDataStrategy struct{}

// NewStructuredDataStrategy creates a new StructuredDataStrategy.
func NewStructuredDataStrategy() *StructuredDataStrategy {
	return &StructuredDataStrategy{}
}

// Method returns the strategy identifier.
func (s *StructuredDataStrategy) Method() shopcrawl.ExtractionMethod {
	return shopcrawl.MethodStructuredData
}

// Attempt parses all JSON-LD blocks on the page and collects Product
// entities. Returns (nil, nil) when the page carries no JSON-LD at all.
func (s *StructuredDataStrategy) Attempt(page shopcrawl.RawPage, _ shopcrawl.PageContext) (*shopcrawl.ExtractionResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return nil, shopcrawl.Errorf(shopcrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	blocks := doc.Find("script[type='application/ld+json']")
	if blocks.Length() == 0 {
		return nil, nil
	}

	result := &shopcrawl.ExtractionResult{
		Method:     shopcrawl.MethodStructuredData,
		Confidence: 0.9,
		Provenance: map[string]string{},
	}

	blocks.Each(func(i int, sel *goquery.Selection) {
		var node any
		if err := json.Unmarshal([]byte(sel.Text()), &node); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("json-ld block %d: %v", i, err))
			return
		}
		walkJSONLD(node, func(product map[string]any) {
			if fields := productFields(product); len(fields) > 0 {
				result.Items = append(result.Items, fields)
			}
		})
	})

	if len(result.Items) == 0 {
		if len(result.Errors) > 0 {
			return nil, shopcrawl.Errorf(shopcrawl.EINVALID, "all json-ld blocks malformed: %s", strings.Join(result.Errors, "; "))
		}
		return nil, nil
	}

	for field := range result.Items[0] {
		result.Provenance[field] = "jsonld:" + field
	}
	return result, nil
}

// walkJSONLD visits every Product entity reachable from the node:
// top-level objects and arrays, @graph containers, and ItemList
// elements.
func walkJSONLD(node any, visit func(map[string]any)) {
	switch v := node.(type) {
	case []any:
		for _, item := range v {
			walkJSONLD(item, visit)
		}
	case map[string]any:
		switch {
		case hasType(v, "Product"):
			visit(v)
		case hasType(v, "ItemList"):
			if elements, ok := v["itemListElement"].([]any); ok {
				for _, el := range elements {
					walkJSONLD(el, visit)
				}
			}
		case hasType(v, "ListItem"):
			walkJSONLD(v["item"], visit)
		}
		if graph, ok := v["@graph"]; ok {
			walkJSONLD(graph, visit)
		}
	}
}

// hasType checks the @type of a JSON-LD node, which may be a string or
// an array of strings.
func hasType(node map[string]any, want string) bool {
	switch t := node["@type"].(type) {
	case string:
		return t == want
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

// productFields flattens a Product entity into a raw field set.
func productFields(product map[string]any) shopcrawl.FieldSet {
	fields := shopcrawl.FieldSet{}

	fields.Add(shopcrawl.FieldName, jsonString(product["name"]))
	fields.Add(shopcrawl.FieldSKU, jsonString(product["sku"]))
	fields.Add(shopcrawl.FieldDescription, jsonString(product["description"]))
	fields.Add(shopcrawl.FieldURL, jsonString(product["url"]))

	switch img := product["image"].(type) {
	case string:
		fields.Add(shopcrawl.FieldImage, img)
	case []any:
		for _, v := range img {
			fields.Add(shopcrawl.FieldImage, jsonString(v))
		}
	case map[string]any:
		fields.Add(shopcrawl.FieldImage, jsonString(img["url"]))
	}

	addOfferFields(fields, product["offers"])

	return fields
}

// addOfferFields pulls price, currency and availability from an Offer
// or AggregateOffer node. AggregateOffer price bounds are emitted as a
// range string so the normalizer can flag IsRange.
func addOfferFields(fields shopcrawl.FieldSet, offers any) {
	switch v := offers.(type) {
	case []any:
		if len(v) > 0 {
			addOfferFields(fields, v[0])
		}
	case map[string]any:
		low := jsonString(v["lowPrice"])
		high := jsonString(v["highPrice"])
		switch {
		case low != "" && high != "" && low != high:
			fields.Add(shopcrawl.FieldPrice, low+" - "+high)
		case low != "":
			fields.Add(shopcrawl.FieldPrice, low)
		default:
			fields.Add(shopcrawl.FieldPrice, jsonString(v["price"]))
		}
		fields.Add(shopcrawl.FieldCurrency, jsonString(v["priceCurrency"]))
		fields.Add(shopcrawl.FieldAvailability, jsonString(v["availability"]))
	}
}

// jsonString renders a JSON scalar as a string. Numbers keep their
// minimal representation; anything else yields "".
func jsonString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		if s == float64(int64(s)) {
			return fmt.Sprintf("%d", int64(s))
		}
		return fmt.Sprintf("%g", s)
	case bool:
		return fmt.Sprintf("%t", s)
	}
	return ""
}
