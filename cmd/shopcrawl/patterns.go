package main

import (
	"fmt"
	"sort"

	"github.com/fwojciec/shopcrawl"
)

// knownPlatforms enumerates the platform key space the pattern store is
// queried under, the unknown platform included.
var knownPlatforms = []shopcrawl.Platform{
	shopcrawl.PlatformShopify,
	shopcrawl.PlatformWooCommerce,
	shopcrawl.PlatformMagento,
	shopcrawl.PlatformSchemaOrg,
	shopcrawl.PlatformUnknown,
}

// Run executes the patterns command.
func (c *PatternsCmd) Run(deps *Dependencies) error {
	var matched []*shopcrawl.Pattern
	for _, platform := range knownPlatforms {
		patterns, err := deps.Patterns.RecommendByPlatform(deps.Ctx, platform)
		if err != nil {
			if shopcrawl.ErrorCode(err) == shopcrawl.ENOTFOUND {
				continue
			}
			fmt.Fprintf(deps.Stderr, "error: %s\n", shopcrawl.ErrorMessage(err))
			return err
		}
		for _, p := range patterns {
			if p.Domain == c.Domain {
				matched = append(matched, p)
			}
		}
	}

	if len(matched) == 0 {
		fmt.Fprintf(deps.Stdout, "No learned patterns for %s.\n", c.Domain)
		return nil
	}

	for _, p := range matched {
		platform := string(p.Platform)
		if p.Platform == shopcrawl.PlatformUnknown {
			platform = "unknown"
		}
		fmt.Fprintf(deps.Stdout, "%s  %-12s  confidence %.2f  %d/%d successes  last used %s\n",
			p.ID, platform, p.Confidence, p.SuccessCount, p.TotalAttempts,
			p.LastUsedAt.Format("2006-01-02"))
		fields := make([]string, 0, len(p.Rules))
		for field := range p.Rules {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			fmt.Fprintf(deps.Stdout, "  %s: %s\n", field, p.Rules[field])
		}
	}

	return nil
}
