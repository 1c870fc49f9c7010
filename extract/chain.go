// Package extract provides the extraction strategy chain and the
// pattern learner. The chain tries strategies in fixed priority order -
// learned pattern, structured data, microdata, DOM heuristic - and
// stops at the first one producing the required minimum field set.
package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fwojciec/shopcrawl"
)

// Compile-time interface verification.
var _ shopcrawl.Extractor = (*Chain)(nil)

// Chain runs extraction strategies against a page in priority order.
//
// The learned-pattern step is gated on the pattern store: a stored
// pattern is only applied when its confidence clears MinConfidence,
// and every application is reported back via RecordUse. Store failures
// are non-fatal - the chain behaves as if no learned pattern exists
// and falls through to the remaining strategies.
type Chain struct {
	Store      shopcrawl.PatternStore
	Applier    shopcrawl.PatternApplier
	Strategies []shopcrawl.Strategy
	Logger     *slog.Logger

	// MinConfidence gates learned patterns. Zero means
	// shopcrawl.MinUsableConfidence.
	MinConfidence float64
}

// Extract runs the chain. Per-strategy failures are caught, recorded
// in the result and never propagated: a page where every strategy
// fails yields an empty result, not an error.
func (c *Chain) Extract(ctx context.Context, page shopcrawl.RawPage, pctx shopcrawl.PageContext) *shopcrawl.ExtractionResult {
	var errs []string

	if result := c.tryLearned(ctx, page, pctx, &errs); result != nil {
		result.Errors = append(errs, result.Errors...)
		return result
	}

	for _, strategy := range c.Strategies {
		result, err := strategy.Attempt(page, pctx)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %s", strategy.Method(), shopcrawl.ErrorMessage(err)))
			continue
		}
		if !result.Usable() {
			continue
		}
		result.Errors = append(errs, result.Errors...)
		return result
	}

	return &shopcrawl.ExtractionResult{Errors: errs}
}

// tryLearned looks up and applies a learned pattern. Returns nil when
// no usable pattern exists or the application failed, letting the
// chain fall through.
func (c *Chain) tryLearned(ctx context.Context, page shopcrawl.RawPage, pctx shopcrawl.PageContext, errs *[]string) *shopcrawl.ExtractionResult {
	if c.Store == nil || c.Applier == nil {
		return nil
	}

	pattern := c.recommend(ctx, pctx)
	if pattern == nil {
		return nil
	}

	result, err := c.Applier.Apply(page, pattern)
	success := err == nil && result.Usable()

	if recordErr := c.Store.RecordUse(ctx, pattern.ID, success); recordErr != nil {
		c.logger().Warn("pattern use not recorded", "pattern", pattern.ID, "error", recordErr)
	}

	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: %s", shopcrawl.MethodLearnedPattern, shopcrawl.ErrorMessage(err)))
		return nil
	}
	if !success {
		*errs = append(*errs, fmt.Sprintf("%s: pattern %s produced no usable fields", shopcrawl.MethodLearnedPattern, pattern.ID))
		return nil
	}
	return result
}

// recommend fetches the best usable pattern for the page's domain,
// falling back to cross-domain recommendation by platform for domains
// the store has never seen.
func (c *Chain) recommend(ctx context.Context, pctx shopcrawl.PageContext) *shopcrawl.Pattern {
	min := c.MinConfidence
	if min == 0 {
		min = shopcrawl.MinUsableConfidence
	}

	pattern, err := c.Store.Recommend(ctx, pctx.Domain, pctx.Detection.Platform)
	if err != nil && shopcrawl.ErrorCode(err) != shopcrawl.ENOTFOUND {
		// Store failure degrades to "no learned pattern available".
		c.logger().Warn("pattern store lookup failed", "domain", pctx.Domain, "error", err)
		return nil
	}
	if pattern != nil && pattern.Confidence >= min {
		return pattern
	}

	if pctx.Detection.Platform == shopcrawl.PlatformUnknown {
		return nil
	}
	patterns, err := c.Store.RecommendByPlatform(ctx, pctx.Detection.Platform)
	if err != nil {
		if shopcrawl.ErrorCode(err) != shopcrawl.ENOTFOUND {
			c.logger().Warn("pattern store lookup failed", "platform", pctx.Detection.Platform, "error", err)
		}
		return nil
	}
	for _, p := range patterns {
		if p.Confidence >= min {
			return p
		}
	}
	return nil
}

func (c *Chain) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
