package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/shopcrawl"
	"github.com/google/uuid"
)

// Reinforcement steps applied on every recorded pattern use. The
// asymmetry makes failures pull confidence down faster than successes
// push it up.
const (
	successStep = 0.05
	failureStep = 0.10
)

// Compile-time interface verification.
var _ shopcrawl.PatternStore = (*PatternService)(nil)

// PatternService implements shopcrawl.PatternStore using SQLite.
// Confidence bounds and counter monotonicity are enforced inside single
// UPDATE statements, so concurrent site crawls writing to different
// domains never need application-level locks.
type PatternService struct {
	db *DB
}

// NewPatternService creates a new PatternService.
func NewPatternService(db *DB) *PatternService {
	return &PatternService{db: db}
}

// Merge creates the pattern, or folds it into the existing pattern for
// the same (domain, platform, rule set) using a confidence-weighted
// average. Counters accumulate, never reset.
func (s *PatternService) Merge(ctx context.Context, p *shopcrawl.Pattern) error {
	if err := p.Validate(); err != nil {
		return err
	}

	rules, err := json.Marshal(p.Rules)
	if err != nil {
		return shopcrawl.Errorf(shopcrawl.EINVALID, "unencodable selector rules")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	id := uuid.New().String()

	// The weighted average and counter accumulation live in the upsert
	// itself so the read-modify-write is atomic per pattern.
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO patterns (id, domain, platform, rule_set_id, rules, confidence, success_count, total_attempts, created_at, last_used_at)
		VALUES (?, ?, ?, ?, ?, ?, 1, 1, ?, ?)
		ON CONFLICT(domain, platform, rule_set_id) DO UPDATE SET
			confidence = (confidence * total_attempts + excluded.confidence) / (total_attempts + 1),
			success_count = success_count + 1,
			total_attempts = total_attempts + 1,
			last_used_at = excluded.last_used_at
	`, id, p.Domain, string(p.Platform), p.RuleSetID(), string(rules), p.Confidence, now, now)
	if err != nil {
		return fmt.Errorf("failed to merge pattern: %w", err)
	}

	return nil
}

// Recommend returns the highest-confidence pattern for the domain and
// platform, ties broken by more recent last use.
func (s *PatternService) Recommend(ctx context.Context, domain string, platform shopcrawl.Platform) (*shopcrawl.Pattern, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, domain, platform, rules, confidence, success_count, total_attempts, created_at, last_used_at
		FROM patterns
		WHERE domain = ? AND platform = ?
		ORDER BY confidence DESC, last_used_at DESC
		LIMIT 1
	`, domain, string(platform))

	p, err := scanPattern(row)
	if err == sql.ErrNoRows {
		return nil, shopcrawl.Errorf(shopcrawl.ENOTFOUND, "no pattern for domain")
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// RecommendByPlatform returns all patterns for a platform across
// domains, sorted by descending confidence then recency.
func (s *PatternService) RecommendByPlatform(ctx context.Context, platform shopcrawl.Platform) ([]*shopcrawl.Pattern, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, domain, platform, rules, confidence, success_count, total_attempts, created_at, last_used_at
		FROM patterns
		WHERE platform = ?
		ORDER BY confidence DESC, last_used_at DESC
	`, string(platform))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patterns []*shopcrawl.Pattern
	for rows.Next() {
		p, err := scanPattern(rows)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		return nil, shopcrawl.Errorf(shopcrawl.ENOTFOUND, "no patterns for platform")
	}
	return patterns, nil
}

// RecordUse registers one application of the pattern. Attempts always
// increment; success nudges confidence up, failure nudges it down. The
// clamp to [0,1] happens in the same UPDATE as the nudge.
func (s *PatternService) RecordUse(ctx context.Context, id string, success bool) error {
	delta := -failureStep
	successInc := 0
	if success {
		delta = successStep
		successInc = 1
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `
		UPDATE patterns SET
			confidence = MIN(1.0, MAX(0.0, confidence + ?)),
			success_count = success_count + ?,
			total_attempts = total_attempts + 1,
			last_used_at = ?
		WHERE id = ?
	`, delta, successInc, now, id)
	if err != nil {
		return fmt.Errorf("failed to record pattern use: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return shopcrawl.Errorf(shopcrawl.ENOTFOUND, "pattern not found")
	}
	return nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPattern(sc scanner) (*shopcrawl.Pattern, error) {
	var p shopcrawl.Pattern
	var platform, rules, createdAt, lastUsedAt string

	if err := sc.Scan(&p.ID, &p.Domain, &platform, &rules, &p.Confidence,
		&p.SuccessCount, &p.TotalAttempts, &createdAt, &lastUsedAt); err != nil {
		return nil, err
	}

	p.Platform = shopcrawl.Platform(platform)
	if err := json.Unmarshal([]byte(rules), &p.Rules); err != nil {
		return nil, fmt.Errorf("failed to decode selector rules: %w", err)
	}

	var err error
	if p.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if p.LastUsedAt, err = parseRFC3339(lastUsedAt, "last_used_at"); err != nil {
		return nil, err
	}

	return &p, nil
}
