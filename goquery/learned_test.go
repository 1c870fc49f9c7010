package goquery_test

import (
	"testing"

	"github.com/fwojciec/shopcrawl"
	"github.com/fwojciec/shopcrawl/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ shopcrawl.PatternApplier = (*goquery.PatternApplier)(nil)

func TestPatternApplier_Apply(t *testing.T) {
	t.Parallel()

	applier := goquery.NewPatternApplier()

	t.Run("applies css selector rules", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
		<h1 class="product_title">Blue Widget</h1>
		<span class="price">$19.99</span>
		</body></html>`
		pattern := &shopcrawl.Pattern{
			Domain:     "example.com",
			Confidence: 0.8,
			Rules: map[string]string{
				shopcrawl.FieldName:  "h1.product_title",
				shopcrawl.FieldPrice: ".price",
			},
		}

		result, err := applier.Apply(shopcrawl.RawPage{HTML: html}, pattern)
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "Blue Widget", result.Items[0].First(shopcrawl.FieldName))
		assert.Equal(t, "$19.99", result.Items[0].First(shopcrawl.FieldPrice))
		assert.Equal(t, shopcrawl.MethodLearnedPattern, result.Method)
		assert.InDelta(t, 0.8, result.Confidence, 0.001)
	})

	t.Run("applies attr and itemprop rules", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
		<span itemprop="name">Widget</span>
		<img class="gallery" src="https://example.com/a.jpg">
		<img class="gallery" src="https://example.com/b.jpg">
		</body></html>`
		pattern := &shopcrawl.Pattern{
			Domain:     "example.com",
			Confidence: 0.6,
			Rules: map[string]string{
				shopcrawl.FieldName:  "itemprop:name",
				shopcrawl.FieldImage: "attr:img.gallery@src",
			},
		}

		result, err := applier.Apply(shopcrawl.RawPage{HTML: html}, pattern)
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "Widget", result.Items[0].First(shopcrawl.FieldName))
		assert.Len(t, result.Items[0][shopcrawl.FieldImage], 2)
	})

	t.Run("applies jsonld rules", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><script type="application/ld+json">
		{"@type": "Product", "name": "JSON Widget", "offers": {"price": "42.00", "priceCurrency": "EUR"}}
		</script></body></html>`
		pattern := &shopcrawl.Pattern{
			Domain:     "example.com",
			Confidence: 0.9,
			Rules: map[string]string{
				shopcrawl.FieldName:     "jsonld:name",
				shopcrawl.FieldPrice:    "jsonld:price",
				shopcrawl.FieldCurrency: "jsonld:currency",
			},
		}

		result, err := applier.Apply(shopcrawl.RawPage{HTML: html}, pattern)
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "JSON Widget", result.Items[0].First(shopcrawl.FieldName))
		assert.Equal(t, "42.00", result.Items[0].First(shopcrawl.FieldPrice))
		assert.Equal(t, "EUR", result.Items[0].First(shopcrawl.FieldCurrency))
	})

	t.Run("iterates item containers on listings", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
		<div class="card"><h2>A</h2><span class="price">$1</span></div>
		<div class="card"><h2>B</h2><span class="price">$2</span></div>
		</body></html>`
		pattern := &shopcrawl.Pattern{
			Domain:     "example.com",
			Confidence: 0.7,
			Rules: map[string]string{
				"__item":             ".card",
				shopcrawl.FieldName:  "h2",
				shopcrawl.FieldPrice: ".price",
			},
		}

		result, err := applier.Apply(shopcrawl.RawPage{HTML: html}, pattern)
		require.NoError(t, err)
		require.Len(t, result.Items, 2)
		assert.Equal(t, "A", result.Items[0].First(shopcrawl.FieldName))
		assert.Equal(t, "$2", result.Items[1].First(shopcrawl.FieldPrice))
	})

	t.Run("stale rules yield an unusable result, not an error", func(t *testing.T) {
		t.Parallel()

		pattern := &shopcrawl.Pattern{
			Domain:     "example.com",
			Confidence: 0.7,
			Rules:      map[string]string{shopcrawl.FieldName: ".gone"},
		}

		result, err := applier.Apply(shopcrawl.RawPage{HTML: "<html><body></body></html>"}, pattern)
		require.NoError(t, err)
		assert.False(t, result.Usable())
	})
}
