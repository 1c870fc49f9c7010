package extract

import (
	"context"
	"maps"
	"time"

	"github.com/fwojciec/shopcrawl"
)

// Compile-time interface verification.
var _ shopcrawl.Learner = (*Learner)(nil)

// Learner derives selector rule sets from successful non-learned
// extractions and stores them as patterns. The store handles merging:
// a rule set already known for the domain and platform is reinforced
// with a confidence-weighted average rather than duplicated.
type Learner struct {
	Store shopcrawl.PatternStore
}

// NewLearner creates a new Learner backed by the store.
func NewLearner(store shopcrawl.PatternStore) *Learner {
	return &Learner{Store: store}
}

// Learn records how the extraction located its fields. Results from
// the learned-pattern strategy itself are ignored (RecordUse already
// reinforced them), as are results without provenance to learn from.
func (l *Learner) Learn(ctx context.Context, domain string, platform shopcrawl.Platform, result *shopcrawl.ExtractionResult) error {
	if l.Store == nil || !result.Usable() {
		return nil
	}
	if result.Method == shopcrawl.MethodLearnedPattern {
		return nil
	}
	if len(result.Provenance) == 0 || domain == "" {
		return nil
	}

	now := time.Now().UTC()
	pattern := &shopcrawl.Pattern{
		Domain:        domain,
		Platform:      platform,
		Rules:         maps.Clone(result.Provenance),
		Confidence:    result.Confidence,
		SuccessCount:  1,
		TotalAttempts: 1,
		CreatedAt:     now,
		LastUsedAt:    now,
	}
	if err := pattern.Validate(); err != nil {
		return err
	}

	return l.Store.Merge(ctx, pattern)
}
