package goquery

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/shopcrawl"
)

// Compile-time interface verification.
var _ shopcrawl.PatternApplier = (*PatternApplier)(nil)

// PatternApplier executes a learned pattern's selector rules against a
// page. Because rules are derived from extraction provenance they come
// in four forms: plain CSS selectors, "attr:SELECTOR@ATTR" attribute
// reads, "itemprop:NAME" microdata lookups, and "jsonld:FIELD"
// structured-data lookups. The reserved "__item" rule names the
// repeated card container on listing pages.
type PatternApplier struct{}

// NewPatternApplier creates a new PatternApplier.
func NewPatternApplier() *PatternApplier {
	return &PatternApplier{}
}

// Apply runs the pattern's rules and returns the extracted field sets.
// The result confidence is the pattern's stored confidence; whether the
// application counts as a success is the chain's call (it checks the
// minimum field set and reports back to the store).
func (a *PatternApplier) Apply(page shopcrawl.RawPage, p *shopcrawl.Pattern) (*shopcrawl.ExtractionResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return nil, shopcrawl.Errorf(shopcrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	result := &shopcrawl.ExtractionResult{
		Method:     shopcrawl.MethodLearnedPattern,
		Confidence: p.Confidence,
		Provenance: p.Rules,
	}

	// jsonld rules all resolve from one structured-data pass.
	var jsonldFields shopcrawl.FieldSet
	for _, rule := range p.Rules {
		if strings.HasPrefix(rule, "jsonld:") {
			jsonldFields = firstJSONLDProduct(doc)
			break
		}
	}

	if itemSel, ok := p.Rules["__item"]; ok {
		doc.Find(itemSel).Each(func(_ int, card *goquery.Selection) {
			fields := applyRules(card, p.Rules, jsonldFields)
			if len(fields) > 0 {
				result.Items = append(result.Items, fields)
			}
		})
	} else {
		fields := applyRules(doc.Selection, p.Rules, jsonldFields)
		if len(fields) > 0 {
			result.Items = append(result.Items, fields)
		}
	}

	return result, nil
}

// applyRules evaluates every rule within the scope and collects the
// resulting fields.
func applyRules(scope *goquery.Selection, rules map[string]string, jsonldFields shopcrawl.FieldSet) shopcrawl.FieldSet {
	fields := shopcrawl.FieldSet{}

	for field, rule := range rules {
		if field == "__item" {
			continue
		}
		switch {
		case strings.HasPrefix(rule, "jsonld:"):
			prop := strings.TrimPrefix(rule, "jsonld:")
			for _, v := range jsonldFields[prop] {
				fields.Add(field, v)
			}
		case strings.HasPrefix(rule, "itemprop:"):
			prop := strings.TrimPrefix(rule, "itemprop:")
			fields.Add(field, itempropValue(scope, prop))
		case strings.HasPrefix(rule, "attr:"):
			sel, attr, ok := splitAttrRule(rule)
			if !ok {
				continue
			}
			scope.Find(sel).Each(func(_ int, el *goquery.Selection) {
				if v, exists := el.Attr(attr); exists {
					fields.Add(field, strings.TrimSpace(v))
				}
			})
		default:
			fields.Add(field, cleanText(scope.Find(rule).First().Text()))
		}
	}

	return fields
}

// splitAttrRule parses "attr:SELECTOR@ATTR" into its parts.
func splitAttrRule(rule string) (selector, attr string, ok bool) {
	body := strings.TrimPrefix(rule, "attr:")
	idx := strings.LastIndex(body, "@")
	if idx <= 0 || idx == len(body)-1 {
		return "", "", false
	}
	return body[:idx], body[idx+1:], true
}

// firstJSONLDProduct returns the field set of the first Product entity
// found in the page's JSON-LD blocks, or nil.
func firstJSONLDProduct(doc *goquery.Document) shopcrawl.FieldSet {
	var fields shopcrawl.FieldSet
	doc.Find("script[type='application/ld+json']").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var node any
		if err := json.Unmarshal([]byte(sel.Text()), &node); err != nil {
			return true
		}
		walkJSONLD(node, func(product map[string]any) {
			if fields == nil {
				fields = productFields(product)
			}
		})
		return fields == nil
	})
	return fields
}
