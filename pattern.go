package shopcrawl

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// MinUsableConfidence is the threshold below which a learned pattern is
// skipped by the extraction chain. Low-confidence patterns are never
// deleted; they simply sort below this line until reinforced.
const MinUsableConfidence = 0.5

// Pattern is a learned, per-domain selector rule set. It is the only
// durable state the pipeline owns.
type Pattern struct {
	ID            string            `json:"id"`
	Domain        string            `json:"domain"`
	Platform      Platform          `json:"platform"`
	Rules         map[string]string `json:"rules"` // field name -> selector expression
	Confidence    float64           `json:"confidence"`
	SuccessCount  int               `json:"successCount"`
	TotalAttempts int               `json:"totalAttempts"`
	CreatedAt     time.Time         `json:"createdAt"`
	LastUsedAt    time.Time         `json:"lastUsedAt"`
}

// Validate returns an error if the pattern contains invalid fields.
func (p *Pattern) Validate() error {
	if p.Domain == "" {
		return Errorf(EINVALID, "pattern domain required")
	}
	if len(p.Rules) == 0 {
		return Errorf(EINVALID, "pattern requires at least one selector rule")
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		return Errorf(EINVALID, "pattern confidence must be within [0,1]")
	}
	return nil
}

// RuleSetID returns a stable identifier for the rule set: an xxhash of
// the sorted field=selector pairs. Two patterns merge only when their
// rule-set IDs match exactly.
func (p *Pattern) RuleSetID() string {
	fields := make([]string, 0, len(p.Rules))
	for field := range p.Rules {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var b strings.Builder
	for _, field := range fields {
		b.WriteString(field)
		b.WriteByte('=')
		b.WriteString(p.Rules[field])
		b.WriteByte('\n')
	}
	return fmt.Sprintf("%016x", xxhash.Sum64String(b.String()))
}

// PatternApplier applies a learned pattern's selector rules to a page.
// Rule expressions mirror extraction provenance: plain CSS selectors,
// "attr:SELECTOR@ATTR" attribute reads, "itemprop:NAME" microdata
// lookups and "jsonld:FIELD" structured-data lookups. The reserved
// "__item" rule names the repeated container on listing pages.
type PatternApplier interface {
	Apply(page RawPage, p *Pattern) (*ExtractionResult, error)
}

// PatternStore persists learned extraction patterns. Implementations
// must enforce the confidence bound [0,1] and monotonic counters via
// atomic read-modify-write at persistence time; multiple site crawls
// may write concurrently for different domains.
//
// Store failures are non-fatal to extraction: callers degrade to "no
// learned pattern available" and fall through to the other strategies.
type PatternStore interface {
	// Merge creates the pattern, or folds it into an existing pattern
	// for the same (domain, platform, rule set) using a
	// confidence-weighted average. Counters accumulate, never reset.
	Merge(ctx context.Context, p *Pattern) error

	// Recommend returns the highest-confidence pattern for the domain
	// and platform, or ENOTFOUND if none exists. Ties are broken by
	// more recent last use.
	Recommend(ctx context.Context, domain string, platform Platform) (*Pattern, error)

	// RecommendByPlatform returns all patterns for a platform across
	// domains, sorted by descending confidence then recency. Used for
	// never-seen domains of a known platform.
	RecommendByPlatform(ctx context.Context, platform Platform) ([]*Pattern, error)

	// RecordUse registers that the chain applied the pattern to a
	// page. Attempts always increment; success additionally increments
	// the success count and nudges confidence up, failure nudges it
	// down. Confidence stays within [0,1] at all times.
	RecordUse(ctx context.Context, id string, success bool) error
}
