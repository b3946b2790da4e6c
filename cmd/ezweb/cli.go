package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/ezweb"
)

// Render modes accepted by --render.
const (
	RenderHTTP = "http"
	RenderRod  = "rod"
	RenderAuto = "auto"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Fetcher  ezweb.Fetcher
	Feeds    ezweb.FeedParser
	Sitemaps ezweb.SitemapService
	Sources  ezweb.SourceDiscoverer
	Builder  ezweb.PageBuilder

	// Pages is nil unless a database is configured.
	Pages ezweb.PageService

	// Concurrency bounds the pages built in parallel.
	Concurrency int
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Timeout     time.Duration `short:"t" default:"10s" help:"Fetch timeout per page"`
	Concurrency int           `short:"c" default:"10" help:"Concurrent page builds"`
	RPS         float64       `default:"2" help:"Requests per second per host (0 disables limiting)"`
	Render      string        `enum:"http,rod,auto" default:"http" help:"How pages are fetched: http, rod (headless Chrome) or auto"`
	UserAgent   string        `name:"user-agent" help:"User-Agent sent with every request"`
	BrowserBin  string        `name:"browser-bin" env:"EZWEB_BROWSER" help:"Chrome binary used by the rod and auto render modes"`
	NoSandbox   bool          `name:"no-sandbox" help:"Disable the Chrome sandbox"`
	Thresholds  string        `type:"existingfile" help:"YAML file overriding the heuristic thresholds"`
	DB          string        `env:"EZWEB_DB" help:"SQLite database storing built pages and sources"`
	Verbose     bool          `short:"v" help:"Log debug output to stderr"`

	Page     PageCmd     `cmd:"" help:"Build, classify and print one page"`
	Source   SourceCmd   `cmd:"" help:"Discover the name, favicon, feed and sitemap of a site"`
	Sitemap  SitemapCmd  `cmd:"" help:"List the links of a site's sitemap"`
	Feed     FeedCmd     `cmd:"" help:"Build the pages listed by a site's feed"`
	Children ChildrenCmd `cmd:"" help:"Build the pages a page links to"`
	Crawl    CrawlCmd    `cmd:"" help:"Walk a site level by level"`
}

// PageCmd is the "page" subcommand.
type PageCmd struct {
	URL    string `arg:"" help:"Page URL"`
	JSON   bool   `help:"Print the page as JSON"`
	Save   string `placeholder:"DIR" help:"Write the page into DIR, replacing its contents"`
	Format string `enum:"md,json" default:"md" help:"File format used by --save (md, json)"`
}

// SourceCmd is the "source" subcommand.
type SourceCmd struct {
	URL string `arg:"" help:"Any URL of the site"`
}

// SitemapCmd is the "sitemap" subcommand.
type SitemapCmd struct {
	URL      string   `arg:"" help:"Any URL of the site"`
	Contain  []string `short:"k" help:"Keep links whose first path segments contain the keyword (repeatable)"`
	Products bool     `help:"Keep product links" xor:"preset"`
	Articles bool     `help:"Keep article links" xor:"preset"`
}

// FeedCmd is the "feed" subcommand.
type FeedCmd struct {
	URL   string `arg:"" help:"Any URL of the site"`
	Limit int    `short:"n" default:"20" help:"Maximum feed entries to build (0 for all)"`
}

// ChildrenCmd is the "children" subcommand.
type ChildrenCmd struct {
	URL        string   `arg:"" help:"Page URL"`
	Limit      int      `short:"n" default:"20" help:"Maximum links to build (0 for all)"`
	Sequential bool     `help:"Build one link at a time and report every failure"`
	Include    []string `short:"I" help:"Only build links matching the regex (repeatable)"`
	Exclude    []string `short:"X" help:"Skip links matching the regex (repeatable)"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL      string   `arg:"" help:"Start URL"`
	Depth    int      `short:"d" default:"2" help:"Maximum link hops from the start page"`
	MaxPages int      `name:"max-pages" default:"100" help:"Maximum pages to build"`
	Out      string   `short:"o" placeholder:"DIR" help:"Write every page into DIR, replacing its contents"`
	Format   string   `enum:"md,json" default:"md" help:"File format used by --out (md, json)"`
	Include  []string `short:"I" help:"Only follow links matching the regex (repeatable)"`
	Exclude  []string `short:"X" help:"Skip links matching the regex (repeatable)"`
}
