package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/shopcrawl"
)

// Compile-time interface verification.
var _ shopcrawl.Strategy = (*MicrodataStrategy)(nil)

// MicrodataStrategy extracts products from schema.org microdata:
// itemscope/itemprop attributes annotating the visible markup. Each
// Product itemscope on the page yields one item, so listing pages with
// annotated cards come out as multiple products.
type MicrodataStrategy struct{}

// NewMicrodataStrategy creates a new MicrodataStrategy.
func NewMicrodataStrategy() *MicrodataStrategy {
	return &MicrodataStrategy{}
}

// Method returns the strategy identifier.
func (s *MicrodataStrategy) Method() shopcrawl.ExtractionMethod {
	return shopcrawl.MethodMicrodata
}

// Attempt collects all schema.org/Product scopes on the page.
// Returns (nil, nil) when the page carries none.
func (s *MicrodataStrategy) Attempt(page shopcrawl.RawPage, _ shopcrawl.PageContext) (*shopcrawl.ExtractionResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return nil, shopcrawl.Errorf(shopcrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	scopes := doc.Find("[itemscope][itemtype*='schema.org/Product']")
	if scopes.Length() == 0 {
		return nil, nil
	}

	result := &shopcrawl.ExtractionResult{
		Method:     shopcrawl.MethodMicrodata,
		Confidence: 0.8,
		Provenance: map[string]string{},
	}

	scopes.Each(func(_ int, scope *goquery.Selection) {
		fields := shopcrawl.FieldSet{}

		fields.Add(shopcrawl.FieldName, itempropValue(scope, "name"))
		fields.Add(shopcrawl.FieldSKU, itempropValue(scope, "sku"))
		fields.Add(shopcrawl.FieldPrice, itempropValue(scope, "price"))
		fields.Add(shopcrawl.FieldCurrency, itempropValue(scope, "priceCurrency"))
		fields.Add(shopcrawl.FieldAvailability, itempropValue(scope, "availability"))
		scope.Find("[itemprop='image']").Each(func(_ int, img *goquery.Selection) {
			fields.Add(shopcrawl.FieldImage, itempropContent(img))
		})

		if len(fields) > 0 {
			result.Items = append(result.Items, fields)
		}
	})

	if len(result.Items) == 0 {
		return nil, nil
	}

	for field := range result.Items[0] {
		result.Provenance[field] = "itemprop:" + microdataProp(field)
	}
	return result, nil
}

// microdataProp maps a shopcrawl field name back to its itemprop name.
func microdataProp(field string) string {
	switch field {
	case shopcrawl.FieldCurrency:
		return "priceCurrency"
	default:
		return field
	}
}

// itempropValue returns the value of the first matching itemprop inside
// the scope.
func itempropValue(scope *goquery.Selection, prop string) string {
	return itempropContent(scope.Find("[itemprop='" + prop + "']").First())
}

// itempropContent resolves a microdata value per the HTML microdata
// rules: content/datetime attributes first, then element-specific value
// attributes, then text.
func itempropContent(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	for _, attr := range []string{"content", "datetime"} {
		if v, exists := sel.Attr(attr); exists && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	switch goquery.NodeName(sel) {
	case "img", "source":
		if v, exists := sel.Attr("src"); exists {
			return strings.TrimSpace(v)
		}
	case "a", "link", "area":
		if v, exists := sel.Attr("href"); exists {
			return strings.TrimSpace(v)
		}
	case "meta":
		return ""
	case "data", "meter", "input":
		if v, exists := sel.Attr("value"); exists {
			return strings.TrimSpace(v)
		}
	}
	return cleanText(sel.Text())
}
