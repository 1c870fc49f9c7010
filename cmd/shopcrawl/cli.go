package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/shopcrawl"
	"github.com/fwojciec/shopcrawl/crawl"
	"github.com/fwojciec/shopcrawl/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	DB       *sqlite.DB
	Patterns shopcrawl.PatternStore
	Sitemaps shopcrawl.SitemapService
	Fetcher  shopcrawl.Fetcher
	Detector shopcrawl.PlatformDetector
	Crawler  *crawl.Crawler
	Products shopcrawl.ProductWriter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Crawl    CrawlCmd    `cmd:"" help:"Crawl product listings starting from one or more URLs"`
	Discover DiscoverCmd `cmd:"" help:"Preview URLs discovered from a site's sitemap"`
	Detect   DetectCmd   `cmd:"" help:"Detect the storefront platform and page type of a URL"`
	Patterns PatternsCmd `cmd:"" help:"List learned extraction patterns for a domain"`

	DB      string `help:"SQLite pattern database path"`
	Verbose bool   `short:"v" help:"Enable debug logging"`
}

// CrawlCmd is the "crawl" subcommand. Sites are crawled concurrently;
// pages within a site are visited sequentially.
type CrawlCmd struct {
	URLs     []string      `arg:"" help:"Listing URLs to start from"`
	MaxPages int           `default:"50" help:"Page budget per site"`
	Delay    time.Duration `default:"1s" help:"Pause between pages of the same site"`
	Out      string        `short:"o" help:"Write products as NDJSON to this file"`
	Render   bool          `help:"Render pages in headless Chrome"`
}

// DiscoverCmd is the "discover" subcommand.
type DiscoverCmd struct {
	URL     string   `arg:"" help:"Site URL"`
	Filter  []string `short:"F" name:"filter" help:"Include URLs matching regex (repeatable)"`
	Exclude []string `short:"X" name:"exclude" help:"Exclude URLs matching regex (repeatable)"`
}

// DetectCmd is the "detect" subcommand.
type DetectCmd struct {
	URL    string `arg:"" help:"Page URL"`
	Render bool   `help:"Render the page in headless Chrome"`
}

// PatternsCmd is the "patterns" subcommand.
type PatternsCmd struct {
	Domain string `arg:"" help:"Registrable domain (e.g. example.com)"`
}
