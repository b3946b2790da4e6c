package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/ezweb"
	"github.com/fwojciec/ezweb/crawl"
	"github.com/fwojciec/ezweb/gofeed"
	"github.com/fwojciec/ezweb/goquery"
	"github.com/fwojciec/ezweb/htmltomarkdown"
	ezhttp "github.com/fwojciec/ezweb/http"
	"github.com/fwojciec/ezweb/readability"
	"github.com/fwojciec/ezweb/rod"
	ezslog "github.com/fwojciec/ezweb/slog"
	"github.com/fwojciec/ezweb/sqlite"
	"github.com/fwojciec/ezweb/trafilatura"
	"github.com/fwojciec/ezweb/yaml"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database used by the page and source services. Only opened
	// when a database path is given.
	DB *sqlite.DB

	// Fetcher used by every command that downloads pages.
	Fetcher ezweb.Fetcher
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var err error
	if m.Fetcher != nil {
		err = m.Fetcher.Close()
	}
	if m.DB != nil {
		if dbErr := m.DB.Close(); err == nil {
			err = dbErr
		}
	}
	return err
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("ezweb"),
		kong.Description("Classify web pages and extract articles, products and links"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'ezweb --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	thresholds := ezweb.DefaultThresholds()
	if cli.Thresholds != "" {
		thresholds, err = yaml.LoadThresholdsFile(cli.Thresholds)
		if err != nil {
			return fmt.Errorf("failed to load thresholds: %w", err)
		}
	}
	if err := thresholds.Validate(); err != nil {
		return fmt.Errorf("invalid thresholds: %w", err)
	}

	deps := &Dependencies{
		Ctx:         ctx,
		Stdout:      stdout,
		Stderr:      stderr,
		Concurrency: cli.Concurrency,
	}

	sitemaps := ezhttp.NewSitemapService(&http.Client{Timeout: cli.Timeout})
	sitemaps.DirectSegments = thresholds.DirectSitemapSegments
	sitemaps.Logger = logger
	deps.Sitemaps = ezslog.NewLoggingSitemapService(sitemaps, logger)

	// Listing a sitemap needs neither a browser nor a database.
	if cmd == "sitemap" {
		return kongCtx.Run(deps)
	}

	defer m.Close()

	var sources ezweb.SourceService
	if cli.DB != "" {
		m.DB = sqlite.NewDB(cli.DB)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintln(stderr, "Hint: Set EZWEB_DB or --db to use a different database path")
			return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		sources = sqlite.NewSourceService(m.DB)
		deps.Pages = sqlite.NewPageService(m.DB)
	}

	extractor := trafilatura.NewExtractor()
	fetcher, err := m.newFetcher(cli, stderr, extractor)
	if err != nil {
		return err
	}
	m.Fetcher = fetcher
	deps.Fetcher = ezslog.NewLoggingFetcher(fetcher, logger)

	analyzer := ezslog.NewLoggingAnalyzer(&goquery.Analyzer{
		Thresholds:    thresholds,
		TextExtractor: extractor,
		Readability:   readability.NewSummarizer(),
		Converter:     htmltomarkdown.NewConverter(),
	}, logger)
	deps.Feeds = ezslog.NewLoggingFeedParser(gofeed.NewParser(), logger)

	deps.Sources = ezslog.NewLoggingSourceDiscoverer(&crawl.SourceDiscoverer{
		Fetcher:  deps.Fetcher,
		Analyzer: analyzer,
		Sitemaps: deps.Sitemaps,
		Feeds:    deps.Feeds,
		Sources:  sources,
	}, logger)

	deps.Builder = ezslog.NewLoggingPageBuilder(&crawl.Builder{
		Fetcher:     deps.Fetcher,
		Analyzer:    analyzer,
		RateLimiter: crawl.NewDomainLimiter(cli.RPS),
		Logger: func(format string, args ...any) {
			logger.Warn(fmt.Sprintf(format, args...))
		},
	}, logger)

	return kongCtx.Run(deps)
}

// newFetcher returns the fetcher selected by --render. The browser is only
// launched for the rod and auto modes.
func (m *Main) newFetcher(cli *CLI, stderr io.Writer, extractor ezweb.TextExtractor) (ezweb.Fetcher, error) {
	httpOpts := []ezhttp.Option{ezhttp.WithTimeout(cli.Timeout)}
	if cli.UserAgent != "" {
		httpOpts = append(httpOpts, ezhttp.WithUserAgent(cli.UserAgent))
	}
	httpFetcher := ezhttp.NewFetcher(httpOpts...)
	if cli.Render == RenderHTTP {
		return httpFetcher, nil
	}

	var managerOpts []rod.ManagerOption
	if cli.UserAgent != "" {
		managerOpts = append(managerOpts, rod.WithUserAgent(cli.UserAgent))
	}
	if cli.BrowserBin != "" {
		managerOpts = append(managerOpts, rod.WithBrowserBin(cli.BrowserBin))
	}
	if cli.NoSandbox {
		managerOpts = append(managerOpts, rod.WithNoSandbox())
	}
	rodFetcher, err := rod.NewFetcher(
		rod.WithFetchTimeout(cli.Timeout),
		rod.WithManagerOptions(managerOpts...),
	)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or use --render http")
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	if cli.Render == RenderRod {
		return rodFetcher, nil
	}
	return &crawl.AutoFetcher{HTTP: httpFetcher, Rod: rodFetcher, Extractor: extractor}, nil
}
