package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/shopcrawl"
)

// Ensure LoggingPatternStore implements shopcrawl.PatternStore.
var _ shopcrawl.PatternStore = (*LoggingPatternStore)(nil)

// LoggingPatternStore wraps a PatternStore with logging. Store errors
// are non-fatal to extraction, so this decorator is where they become
// visible.
type LoggingPatternStore struct {
	next   shopcrawl.PatternStore
	logger *slog.Logger
}

// NewLoggingPatternStore creates a new LoggingPatternStore.
func NewLoggingPatternStore(next shopcrawl.PatternStore, logger *slog.Logger) *LoggingPatternStore {
	return &LoggingPatternStore{next: next, logger: logger}
}

// Merge delegates to the wrapped store and logs the operation.
func (s *LoggingPatternStore) Merge(ctx context.Context, p *shopcrawl.Pattern) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("pattern merge",
			"domain", p.Domain,
			"platform", string(p.Platform),
			"confidence", p.Confidence,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Merge(ctx, p)
}

// Recommend delegates to the wrapped store. Lookup misses are logged at
// debug level; they are routine, not failures.
func (s *LoggingPatternStore) Recommend(ctx context.Context, domain string, platform shopcrawl.Platform) (p *shopcrawl.Pattern, err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		if shopcrawl.ErrorCode(err) == shopcrawl.ENOTFOUND {
			level = slog.LevelDebug
		}
		attrs := []any{
			"domain", domain,
			"platform", string(platform),
			"duration", time.Since(begin),
			"err", err,
		}
		if p != nil {
			attrs = append(attrs, "confidence", p.Confidence)
		}
		s.logger.Log(ctx, level, "pattern recommend", attrs...)
	}(time.Now())
	return s.next.Recommend(ctx, domain, platform)
}

// RecommendByPlatform delegates to the wrapped store.
func (s *LoggingPatternStore) RecommendByPlatform(ctx context.Context, platform shopcrawl.Platform) (patterns []*shopcrawl.Pattern, err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		if shopcrawl.ErrorCode(err) == shopcrawl.ENOTFOUND {
			level = slog.LevelDebug
		}
		s.logger.Log(ctx, level, "pattern recommend by platform",
			"platform", string(platform),
			"count", len(patterns),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.RecommendByPlatform(ctx, platform)
}

// RecordUse delegates to the wrapped store and logs the operation.
func (s *LoggingPatternStore) RecordUse(ctx context.Context, id string, success bool) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("pattern use",
			"pattern", id,
			"success", success,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.RecordUse(ctx, id, success)
}
