package extract_test

import (
	"context"
	"testing"

	"github.com/fwojciec/shopcrawl"
	"github.com/fwojciec/shopcrawl/extract"
	"github.com/fwojciec/shopcrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLearner_Learn(t *testing.T) {
	t.Parallel()

	usable := &shopcrawl.ExtractionResult{
		Items:      []shopcrawl.FieldSet{{shopcrawl.FieldName: {"Widget"}}},
		Method:     shopcrawl.MethodDOMHeuristic,
		Confidence: 0.5,
		Provenance: map[string]string{
			shopcrawl.FieldName:  "h1.product-title",
			shopcrawl.FieldPrice: ".price",
		},
	}

	t.Run("derives a pattern from extraction provenance", func(t *testing.T) {
		t.Parallel()

		var merged *shopcrawl.Pattern
		store := &mock.PatternStore{
			MergeFn: func(ctx context.Context, p *shopcrawl.Pattern) error {
				merged = p
				return nil
			},
		}

		learner := extract.NewLearner(store)
		err := learner.Learn(context.Background(), "example.com", shopcrawl.PlatformWooCommerce, usable)
		require.NoError(t, err)

		require.NotNil(t, merged)
		assert.Equal(t, "example.com", merged.Domain)
		assert.Equal(t, shopcrawl.PlatformWooCommerce, merged.Platform)
		assert.Equal(t, usable.Provenance, merged.Rules)
		assert.Equal(t, 0.5, merged.Confidence)
		assert.Equal(t, 1, merged.SuccessCount)
		assert.Equal(t, 1, merged.TotalAttempts)
		assert.False(t, merged.CreatedAt.IsZero())
	})

	t.Run("ignores learned pattern results", func(t *testing.T) {
		t.Parallel()

		store := &mock.PatternStore{
			MergeFn: func(ctx context.Context, p *shopcrawl.Pattern) error {
				t.Fatal("learned pattern results must not be re-learned")
				return nil
			},
		}

		fromPattern := *usable
		fromPattern.Method = shopcrawl.MethodLearnedPattern

		learner := extract.NewLearner(store)
		require.NoError(t, learner.Learn(context.Background(), "example.com", shopcrawl.PlatformShopify, &fromPattern))
	})

	t.Run("ignores unusable results and results without provenance", func(t *testing.T) {
		t.Parallel()

		store := &mock.PatternStore{
			MergeFn: func(ctx context.Context, p *shopcrawl.Pattern) error {
				t.Fatal("nothing to learn from")
				return nil
			},
		}
		learner := extract.NewLearner(store)

		empty := &shopcrawl.ExtractionResult{Method: shopcrawl.MethodStructuredData}
		require.NoError(t, learner.Learn(context.Background(), "example.com", shopcrawl.PlatformShopify, empty))

		noProvenance := &shopcrawl.ExtractionResult{
			Items:  []shopcrawl.FieldSet{{shopcrawl.FieldName: {"Widget"}}},
			Method: shopcrawl.MethodStructuredData,
		}
		require.NoError(t, learner.Learn(context.Background(), "example.com", shopcrawl.PlatformShopify, noProvenance))
	})

	t.Run("propagates store failures for the caller to log", func(t *testing.T) {
		t.Parallel()

		store := &mock.PatternStore{
			MergeFn: func(ctx context.Context, p *shopcrawl.Pattern) error {
				return shopcrawl.Errorf(shopcrawl.EINTERNAL, "database is locked")
			},
		}

		learner := extract.NewLearner(store)
		err := learner.Learn(context.Background(), "example.com", shopcrawl.PlatformShopify, usable)
		require.Error(t, err)
		assert.Equal(t, shopcrawl.EINTERNAL, shopcrawl.ErrorCode(err))
	})
}
