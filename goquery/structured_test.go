package goquery_test

import (
	"testing"

	"github.com/fwojciec/shopcrawl"
	"github.com/fwojciec/shopcrawl/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ shopcrawl.Strategy = (*goquery.StructuredDataStrategy)(nil)

func TestStructuredDataStrategy_Attempt(t *testing.T) {
	t.Parallel()

	strategy := goquery.NewStructuredDataStrategy()
	page := func(html string) shopcrawl.RawPage {
		return shopcrawl.RawPage{URL: "https://example.com/products/widget", HTML: html}
	}

	t.Run("extracts a product entity", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><script type="application/ld+json">
		{
			"@context": "https://schema.org",
			"@type": "Product",
			"name": "Blue Widget",
			"sku": "ABC-123",
			"image": ["https://example.com/a.jpg", "https://example.com/b.jpg"],
			"offers": {
				"@type": "Offer",
				"price": "19.99",
				"priceCurrency": "USD",
				"availability": "https://schema.org/InStock"
			}
		}
		</script></head><body></body></html>`

		result, err := strategy.Attempt(page(html), shopcrawl.PageContext{})
		require.NoError(t, err)
		require.NotNil(t, result)
		require.Len(t, result.Items, 1)

		item := result.Items[0]
		assert.Equal(t, "Blue Widget", item.First(shopcrawl.FieldName))
		assert.Equal(t, "ABC-123", item.First(shopcrawl.FieldSKU))
		assert.Equal(t, "19.99", item.First(shopcrawl.FieldPrice))
		assert.Equal(t, "USD", item.First(shopcrawl.FieldCurrency))
		assert.Equal(t, "https://schema.org/InStock", item.First(shopcrawl.FieldAvailability))
		assert.Len(t, item[shopcrawl.FieldImage], 2)
		assert.Equal(t, shopcrawl.MethodStructuredData, result.Method)
		assert.Equal(t, "jsonld:name", result.Provenance[shopcrawl.FieldName])
	})

	t.Run("extracts every product from an item list", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><script type="application/ld+json">
		{
			"@type": "ItemList",
			"itemListElement": [
				{"@type": "ListItem", "position": 1, "item": {"@type": "Product", "name": "Widget A", "offers": {"price": 5}}},
				{"@type": "ListItem", "position": 2, "item": {"@type": "Product", "name": "Widget B", "offers": {"price": 7.5}}}
			]
		}
		</script></body></html>`

		result, err := strategy.Attempt(page(html), shopcrawl.PageContext{})
		require.NoError(t, err)
		require.NotNil(t, result)
		require.Len(t, result.Items, 2)
		assert.Equal(t, "Widget A", result.Items[0].First(shopcrawl.FieldName))
		assert.Equal(t, "5", result.Items[0].First(shopcrawl.FieldPrice))
		assert.Equal(t, "7.5", result.Items[1].First(shopcrawl.FieldPrice))
	})

	t.Run("finds products inside @graph containers", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><script type="application/ld+json">
		{"@graph": [{"@type": "WebSite", "name": "Shop"}, {"@type": "Product", "name": "Graph Widget"}]}
		</script></body></html>`

		result, err := strategy.Attempt(page(html), shopcrawl.PageContext{})
		require.NoError(t, err)
		require.NotNil(t, result)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "Graph Widget", result.Items[0].First(shopcrawl.FieldName))
	})

	t.Run("renders aggregate offer bounds as a range", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><script type="application/ld+json">
		{"@type": "Product", "name": "Widget", "offers": {"@type": "AggregateOffer", "lowPrice": "25", "highPrice": "40", "priceCurrency": "GBP"}}
		</script></body></html>`

		result, err := strategy.Attempt(page(html), shopcrawl.PageContext{})
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, "25 - 40", result.Items[0].First(shopcrawl.FieldPrice))
		assert.Equal(t, "GBP", result.Items[0].First(shopcrawl.FieldCurrency))
	})

	t.Run("skips malformed blocks and keeps good ones", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
		<script type="application/ld+json">{not json</script>
		<script type="application/ld+json">{"@type": "Product", "name": "Survivor"}</script>
		</body></html>`

		result, err := strategy.Attempt(page(html), shopcrawl.PageContext{})
		require.NoError(t, err)
		require.NotNil(t, result)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "Survivor", result.Items[0].First(shopcrawl.FieldName))
		assert.Len(t, result.Errors, 1)
	})

	t.Run("errors when every block is malformed", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><script type="application/ld+json">{broken</script></body></html>`

		result, err := strategy.Attempt(page(html), shopcrawl.PageContext{})
		require.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, shopcrawl.EINVALID, shopcrawl.ErrorCode(err))
	})

	t.Run("does not apply to pages without json-ld", func(t *testing.T) {
		t.Parallel()

		result, err := strategy.Attempt(page("<html><body><h1>Widget</h1></body></html>"), shopcrawl.PageContext{})
		require.NoError(t, err)
		assert.Nil(t, result)
	})
}
