package main

import (
	"context"
	"io"

	"github.com/fwojciec/techdocs"
	"github.com/fwojciec/techdocs/crawl"
	"github.com/fwojciec/techdocs/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx          context.Context
	Stdout       io.Writer
	Stderr       io.Writer
	DB           *sqlite.DB
	Technologies techdocs.TechnologyService
	Versions     techdocs.VersionService
	Resources    techdocs.ResourceService
	Snippets     techdocs.SnippetService
	Settings     techdocs.SettingsService
	Sitemaps     techdocs.SitemapService
	Search       techdocs.SearchService
	Crawler      *crawl.Service
	Scheduler    *crawl.Scheduler
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Tech      TechCmd      `cmd:"" help:"Manage technologies"`
	Version   VersionCmd   `cmd:"" help:"Manage technology versions"`
	Crawl     CrawlCmd     `cmd:"" help:"Crawl documentation for a technology version"`
	Stop      StopCmd      `cmd:"" help:"Stop active crawl jobs"`
	Resources ResourcesCmd `cmd:"" help:"List resources for a version"`
	Filters   FiltersCmd   `cmd:"" help:"Manage and apply crawl filters"`
	Refine    RefineCmd    `cmd:"" help:"Clean up converted markdown with an AI model"`
	Snippets  SnippetsCmd  `cmd:"" help:"Extract searchable snippets from refined markdown"`
	Search    SearchCmd    `cmd:"" help:"Search snippets semantically"`
	Export    ExportCmd    `cmd:"" help:"Export a version's markdown to a directory"`
}

// TechCmd groups technology management subcommands.
type TechCmd struct {
	Add    TechAddCmd    `cmd:"" help:"Register a technology"`
	List   TechListCmd   `cmd:"" help:"List registered technologies"`
	Delete TechDeleteCmd `cmd:"" help:"Delete a technology and everything under it"`
}

// TechAddCmd is the "tech add" subcommand.
type TechAddCmd struct {
	Name     string `arg:"" help:"Technology name"`
	Language string `short:"l" help:"Primary programming language"`
}

// TechListCmd is the "tech list" subcommand.
type TechListCmd struct{}

// TechDeleteCmd is the "tech delete" subcommand.
type TechDeleteCmd struct {
	ID    string `arg:"" help:"Technology ID"`
	Force bool   `help:"Confirm deletion"`
}

// VersionCmd groups version management subcommands.
type VersionCmd struct {
	Add    VersionAddCmd    `cmd:"" help:"Register a version of a technology"`
	List   VersionListCmd   `cmd:"" help:"List versions of a technology"`
	Delete VersionDeleteCmd `cmd:"" help:"Delete a version and its resources"`
}

// VersionAddCmd is the "version add" subcommand.
type VersionAddCmd struct {
	TechnologyID string `arg:"" help:"Technology ID"`
	Name         string `arg:"" help:"Version name (e.g. 18.2)"`
}

// VersionListCmd is the "version list" subcommand.
type VersionListCmd struct {
	TechnologyID string `arg:"" help:"Technology ID"`
}

// VersionDeleteCmd is the "version delete" subcommand.
type VersionDeleteCmd struct {
	ID    string `arg:"" help:"Version ID"`
	Force bool   `help:"Confirm deletion"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	TechnologyID  string   `arg:"" help:"Technology ID"`
	VersionID     string   `arg:"" help:"Version ID"`
	URL           string   `arg:"" help:"Start URL"`
	Prefix        string   `short:"p" help:"Restrict crawling to URLs matching this prefix"`
	AntiPath      []string `name:"anti-path" help:"Exclude URLs matching this path (repeatable)"`
	AntiKeyword   []string `name:"anti-keyword" help:"Exclude URLs containing this keyword (repeatable)"`
	SkipProcessed bool     `help:"Skip URLs whose resources are already processed"`
	Workers       int      `short:"c" default:"5" help:"Concurrent worker limit"`
	Rate          float64  `default:"1.0" help:"Max requests per second per domain"`
	Extractor     string   `default:"trafilatura" enum:"trafilatura,readability" help:"Content extraction engine"`
	Sitemap       bool     `help:"Seed the crawl from the site's sitemap as well"`
}

// StopCmd is the "stop" subcommand.
type StopCmd struct {
	TechnologyID string `arg:"" optional:"" help:"Technology ID"`
	VersionID    string `arg:"" optional:"" help:"Version ID"`
	All          bool   `help:"Stop every active crawl job"`
}

// ResourcesCmd is the "resources" subcommand.
type ResourcesCmd struct {
	VersionID string `arg:"" help:"Version ID"`
}

// FiltersCmd groups filter subcommands.
type FiltersCmd struct {
	Set   FiltersSetCmd   `cmd:"" help:"Save filter settings for a version"`
	Apply FiltersApplyCmd `cmd:"" help:"Re-apply saved filters to discovered resources"`
}

// FiltersSetCmd is the "filters set" subcommand.
type FiltersSetCmd struct {
	VersionID     string   `arg:"" help:"Version ID"`
	Prefix        string   `short:"p" help:"Restrict crawling to URLs matching this prefix"`
	AntiPath      []string `name:"anti-path" help:"Exclude URLs matching this path (repeatable)"`
	AntiKeyword   []string `name:"anti-keyword" help:"Exclude URLs containing this keyword (repeatable)"`
	SkipProcessed bool     `help:"Skip URLs whose resources are already processed"`
}

// FiltersApplyCmd is the "filters apply" subcommand.
type FiltersApplyCmd struct {
	VersionID string `arg:"" help:"Version ID"`
}

// RefineCmd is the "refine" subcommand.
type RefineCmd struct {
	VersionID string `arg:"" help:"Version ID"`
	Workers   int    `short:"c" default:"3" help:"Concurrent worker limit"`
}

// SnippetsCmd is the "snippets" subcommand.
type SnippetsCmd struct {
	VersionID string `arg:"" help:"Version ID"`
	Workers   int    `short:"c" default:"3" help:"Concurrent worker limit"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query        string `arg:"" help:"Search query"`
	TechnologyID string `short:"t" help:"Restrict to a technology"`
	VersionID    string `short:"v" help:"Restrict to a version"`
	Limit        int    `short:"n" default:"10" help:"Max results"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	VersionID string `arg:"" help:"Version ID"`
	Dir       string `arg:"" help:"Output directory"`
}
