package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/shopcrawl"
	"github.com/fwojciec/shopcrawl/crawl"
	"github.com/fwojciec/shopcrawl/extract"
	"github.com/fwojciec/shopcrawl/fs"
	"github.com/fwojciec/shopcrawl/goquery"
	shophttp "github.com/fwojciec/shopcrawl/http"
	"github.com/fwojciec/shopcrawl/normalize"
	"github.com/fwojciec/shopcrawl/rod"
	shopslog "github.com/fwojciec/shopcrawl/slog"
	"github.com/fwojciec/shopcrawl/sqlite"
)

// requestsPerSecond is the per-domain rate limit applied during crawls.
const requestsPerSecond = 1.0

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Pattern store for end-to-end testing.
	Patterns shopcrawl.PatternStore
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("shopcrawl"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'shopcrawl --help' to see available commands")
	}

	if first := args[0]; first == "help" || first == "--help" || first == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	// Open database for commands that touch the pattern store
	if cli.DB != "" {
		m.DBPath = cli.DB
	}
	if cmd == "crawl" || cmd == "patterns" {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set SHOPCRAWL_DB or pass --db to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()

		m.Patterns = shopslog.NewLoggingPatternStore(sqlite.NewPatternService(m.DB), logger)
		deps.DB = m.DB
		deps.Patterns = m.Patterns
	}

	deps.Sitemaps = shopslog.NewLoggingSitemapService(shophttp.NewSitemapService(nil), logger)
	deps.Detector = shopslog.NewLoggingDetector(goquery.NewDetector(), logger)

	// Wire the fetcher for commands that hit the network
	if cmd == "crawl" || cmd == "detect" {
		render := (cmd == "crawl" && cli.Crawl.Render) || (cmd == "detect" && cli.Detect.Render)

		var fetcher shopcrawl.Fetcher
		if render {
			rodFetcher, err := rod.NewFetcher()
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --render")
				return fmt.Errorf("failed to start browser: %w", err)
			}
			fetcher = rodFetcher
		} else {
			fetcher = shophttp.NewFetcher()
		}
		deps.Fetcher = shopslog.NewLoggingFetcher(fetcher, logger)
		defer deps.Fetcher.Close()
	}

	if cmd == "crawl" {
		chain := &extract.Chain{
			Store:   deps.Patterns,
			Applier: goquery.NewPatternApplier(),
			Strategies: []shopcrawl.Strategy{
				goquery.NewStructuredDataStrategy(),
				goquery.NewMicrodataStrategy(),
				goquery.NewHeuristicStrategy(),
			},
			Logger: logger,
		}

		deps.Crawler = &crawl.Crawler{
			Fetcher:    deps.Fetcher,
			Detector:   deps.Detector,
			Extractor:  chain,
			Normalizer: normalize.NewNormalizer(),
			Learner:    extract.NewLearner(deps.Patterns),
			Paginator:  goquery.NewPaginationDetector(),
			Limiter:    crawl.NewDomainLimiter(requestsPerSecond),
			Logger:     logger,
		}

		if cli.Crawl.Out != "" {
			deps.Products = fs.NewWriter(cli.Crawl.Out)
		}
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("SHOPCRAWL_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "shopcrawl.db"
	}
	dir := filepath.Join(home, ".shopcrawl")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "shopcrawl.db")
}
