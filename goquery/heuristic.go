package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/shopcrawl"
)

// Compile-time interface verification.
var _ shopcrawl.Strategy = (*HeuristicStrategy)(nil)

// HeuristicStrategy extracts products via conventional CSS selectors
// for common storefront themes. It is the last resort when no
// structured signal exists, so its confidence is the lowest in the
// chain. The selector that actually matched each field is recorded in
// the result provenance, which is what the pattern learner stores.
type HeuristicStrategy struct{}

// NewHeuristicStrategy creates a new HeuristicStrategy.
func NewHeuristicStrategy() *HeuristicStrategy {
	return &HeuristicStrategy{}
}

// Method returns the strategy identifier.
func (s *HeuristicStrategy) Method() shopcrawl.ExtractionMethod {
	return shopcrawl.MethodDOMHeuristic
}

// Field selector conventions, most specific first. The WooCommerce and
// Shopify theme classes dominate because those platforms dominate the
// long tail of storefronts.
var (
	nameSelectors = []string{
		"h1.product_title",
		"h1.product-title",
		".product__title h1",
		"h1[itemprop='name']",
		".product-info h1",
		"h1",
	}
	priceSelectors = []string{
		".price ins .woocommerce-Price-amount",
		".price .woocommerce-Price-amount",
		".product__price",
		".price-item--regular",
		".product-price",
		"span.price",
		"p.price",
		".price",
		"[class*='price']",
	}
	skuSelectors = []string{
		".product_meta .sku",
		"span.sku",
		".product-sku",
		"[data-product-sku]",
		"#sku",
	}
	availabilitySelectors = []string{
		".stock",
		".availability",
		".product-availability",
		".product__inventory",
		".in-stock, .out-of-stock",
	}
	imageSelectors = []string{
		".woocommerce-product-gallery img",
		".product__media img",
		".product-gallery img",
		".product-image img",
	}
	specTableSelectors = []string{
		"table.shop_attributes tr",
		"table.product-specs tr",
		"table.specifications tr",
		".product-attributes tr",
	}
	cardSelectors = []string{
		"li.product",
		".product-card",
		".product-item",
		".grid__item",
		".product-grid-item",
		"[data-product-id]",
		"article.product",
	}
	cardNameSelectors = []string{
		".woocommerce-loop-product__title",
		".product-title",
		".card__heading",
		"h2",
		"h3",
	}
)

// Attempt runs card extraction on listing/search pages and single
// product extraction otherwise. Returns (nil, nil) when nothing
// resembling a product is found.
func (s *HeuristicStrategy) Attempt(page shopcrawl.RawPage, pctx shopcrawl.PageContext) (*shopcrawl.ExtractionResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return nil, shopcrawl.Errorf(shopcrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	switch pctx.Detection.PageType {
	case shopcrawl.PageTypeListing, shopcrawl.PageTypeSearch:
		return s.extractCards(doc, page.URL)
	default:
		return s.extractProduct(doc)
	}
}

// extractProduct pulls fields for a single-product page.
func (s *HeuristicStrategy) extractProduct(doc *goquery.Document) (*shopcrawl.ExtractionResult, error) {
	fields := shopcrawl.FieldSet{}
	provenance := map[string]string{}

	pick := func(field string, selectors []string) {
		for _, sel := range selectors {
			if text := cleanText(doc.Find(sel).First().Text()); text != "" {
				fields.Add(field, text)
				provenance[field] = sel
				return
			}
		}
	}

	pick(shopcrawl.FieldName, nameSelectors)
	pick(shopcrawl.FieldPrice, priceSelectors)
	pick(shopcrawl.FieldSKU, skuSelectors)
	pick(shopcrawl.FieldAvailability, availabilitySelectors)

	for _, sel := range imageSelectors {
		imgs := doc.Find(sel)
		if imgs.Length() == 0 {
			continue
		}
		imgs.Each(func(_ int, img *goquery.Selection) {
			if src, exists := img.Attr("src"); exists {
				fields.Add(shopcrawl.FieldImage, strings.TrimSpace(src))
			}
		})
		provenance[shopcrawl.FieldImage] = "attr:" + sel + "@src"
		break
	}

	for _, sel := range specTableSelectors {
		rows := doc.Find(sel)
		if rows.Length() == 0 {
			continue
		}
		rows.Each(func(_ int, row *goquery.Selection) {
			key := cleanText(row.Find("th").First().Text())
			value := cleanText(row.Find("td").First().Text())
			if key != "" && value != "" {
				fields.Add(shopcrawl.FieldSpec, key+": "+value)
			}
		})
		provenance[shopcrawl.FieldSpec] = sel
		break
	}

	if fields.First(shopcrawl.FieldName) == "" {
		return nil, nil
	}

	return &shopcrawl.ExtractionResult{
		Items:      []shopcrawl.FieldSet{fields},
		Method:     shopcrawl.MethodDOMHeuristic,
		Confidence: 0.5,
		Provenance: provenance,
	}, nil
}

// extractCards pulls one field set per product summary block on a
// listing page. A selector must match at least two blocks to count as
// the card convention for the page.
func (s *HeuristicStrategy) extractCards(doc *goquery.Document, baseURL string) (*shopcrawl.ExtractionResult, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, shopcrawl.Errorf(shopcrawl.EINVALID, "invalid base URL: %v", err)
	}

	var cards *goquery.Selection
	var cardSel string
	for _, sel := range cardSelectors {
		if found := doc.Find(sel); found.Length() >= 2 {
			cards, cardSel = found, sel
			break
		}
	}
	if cards == nil {
		return nil, nil
	}

	result := &shopcrawl.ExtractionResult{
		Method:     shopcrawl.MethodDOMHeuristic,
		Confidence: 0.5,
		Provenance: map[string]string{"__item": cardSel},
	}

	cards.Each(func(_ int, card *goquery.Selection) {
		fields := shopcrawl.FieldSet{}

		for _, sel := range cardNameSelectors {
			if text := cleanText(card.Find(sel).First().Text()); text != "" {
				fields.Add(shopcrawl.FieldName, text)
				result.Provenance[shopcrawl.FieldName] = sel
				break
			}
		}
		for _, sel := range priceSelectors {
			if text := cleanText(card.Find(sel).First().Text()); text != "" {
				fields.Add(shopcrawl.FieldPrice, text)
				result.Provenance[shopcrawl.FieldPrice] = sel
				break
			}
		}
		if href, exists := card.Find("a[href]").First().Attr("href"); exists && !isNonHTTPLink(href) {
			if resolved := resolveURL(base, href); resolved != "" {
				fields.Add(shopcrawl.FieldURL, resolved)
				result.Provenance[shopcrawl.FieldURL] = "attr:a[href]@href"
			}
		}
		if src, exists := card.Find("img").First().Attr("src"); exists {
			fields.Add(shopcrawl.FieldImage, strings.TrimSpace(src))
			result.Provenance[shopcrawl.FieldImage] = "attr:img@src"
		}

		if fields.First(shopcrawl.FieldName) != "" {
			result.Items = append(result.Items, fields)
		}
	})

	if len(result.Items) == 0 {
		return nil, nil
	}
	return result, nil
}
