package mock

import (
	"context"

	"github.com/fwojciec/shopcrawl"
)

var _ shopcrawl.PatternStore = (*PatternStore)(nil)

// PatternStore is a mock implementation of shopcrawl.PatternStore.
type PatternStore struct {
	MergeFn               func(ctx context.Context, p *shopcrawl.Pattern) error
	RecommendFn           func(ctx context.Context, domain string, platform shopcrawl.Platform) (*shopcrawl.Pattern, error)
	RecommendByPlatformFn func(ctx context.Context, platform shopcrawl.Platform) ([]*shopcrawl.Pattern, error)
	RecordUseFn           func(ctx context.Context, id string, success bool) error
}

func (s *PatternStore) Merge(ctx context.Context, p *shopcrawl.Pattern) error {
	return s.MergeFn(ctx, p)
}

func (s *PatternStore) Recommend(ctx context.Context, domain string, platform shopcrawl.Platform) (*shopcrawl.Pattern, error) {
	return s.RecommendFn(ctx, domain, platform)
}

func (s *PatternStore) RecommendByPlatform(ctx context.Context, platform shopcrawl.Platform) ([]*shopcrawl.Pattern, error) {
	return s.RecommendByPlatformFn(ctx, platform)
}

func (s *PatternStore) RecordUse(ctx context.Context, id string, success bool) error {
	return s.RecordUseFn(ctx, id, success)
}

var _ shopcrawl.PatternApplier = (*PatternApplier)(nil)

// PatternApplier is a mock implementation of shopcrawl.PatternApplier.
type PatternApplier struct {
	ApplyFn func(page shopcrawl.RawPage, p *shopcrawl.Pattern) (*shopcrawl.ExtractionResult, error)
}

func (a *PatternApplier) Apply(page shopcrawl.RawPage, p *shopcrawl.Pattern) (*shopcrawl.ExtractionResult, error) {
	return a.ApplyFn(page, p)
}
