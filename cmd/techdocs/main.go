package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"google.golang.org/genai"

	"github.com/fwojciec/techdocs"
	"github.com/fwojciec/techdocs/crawl"
	"github.com/fwojciec/techdocs/gemini"
	"github.com/fwojciec/techdocs/goquery"
	"github.com/fwojciec/techdocs/htmltomarkdown"
	techhttp "github.com/fwojciec/techdocs/http"
	"github.com/fwojciec/techdocs/readability"
	"github.com/fwojciec/techdocs/rod"
	techslog "github.com/fwojciec/techdocs/slog"
	"github.com/fwojciec/techdocs/sqlite"
	"github.com/fwojciec/techdocs/trafilatura"
)

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
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("techdocs"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'techdocs --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set TECHDOCS_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	// Wire core services into dependencies
	deps.DB = m.DB
	deps.Technologies = sqlite.NewTechnologyService(m.DB)
	deps.Versions = sqlite.NewVersionService(m.DB)
	deps.Resources = sqlite.NewResourceService(m.DB)
	deps.Snippets = sqlite.NewSnippetService(m.DB)
	deps.Settings = sqlite.NewSettingsService(m.DB)

	logger := slog.New(slog.NewTextHandler(stderr, nil))
	events := techslog.NewEventSink(nil, logger)
	deps.Sitemaps = techslog.NewLoggingSitemapService(techhttp.NewSitemapService(nil), logger)

	// Wire command-specific dependencies based on command
	if cmd == "crawl" {
		fetcher, err := rod.NewFetcher()
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		polite := techhttp.NewPoliteFetcher(rod.NewLoggingFetcher(fetcher, logger), nil)
		defer polite.Close()

		var extractor techdocs.Extractor
		if cli.Crawl.Extractor == "readability" {
			extractor = readability.NewExtractor()
		} else {
			extractor = trafilatura.NewExtractor()
		}

		registry := crawl.NewRegistry()
		frontier := &crawl.Frontier{
			Resources: deps.Resources,
			Fetcher:   polite,
			Extractor: extractor,
			Converter: htmltomarkdown.NewConverter(),
			Links:     goquery.NewLinkExtractor(),
			Cache:     crawl.NewURLCache(),
			Registry:  registry,
			Events:    events,
			Limiter:   crawl.NewDomainLimiter(cli.Crawl.Rate),
		}

		scheduler := crawl.NewScheduler(cli.Crawl.Workers, &crawl.Dispatcher{Frontier: frontier}, events)
		frontier.Scheduler = scheduler

		deps.Scheduler = scheduler
		deps.Crawler = &crawl.Service{
			Scheduler: scheduler,
			Registry:  registry,
			Resources: deps.Resources,
			Settings:  deps.Settings,
			Events:    events,
		}
	}

	if cmd == "stop" {
		// No fetch pipeline needed; stopping only needs the registry and
		// task bookkeeping.
		scheduler := crawl.NewScheduler(1, nil, events)
		deps.Scheduler = scheduler
		deps.Crawler = &crawl.Service{
			Scheduler: scheduler,
			Registry:  crawl.NewRegistry(),
			Resources: deps.Resources,
			Settings:  deps.Settings,
			Events:    events,
		}
	}

	if cmd == "refine" || cmd == "snippets" {
		client, err := geminiClient(ctx, stderr)
		if err != nil {
			return err
		}

		counter, err := gemini.NewTokenCounter(tokenizerModel)
		if err != nil {
			return fmt.Errorf("failed to create token counter: %w", err)
		}

		processor := &crawl.Processor{
			Resources: deps.Resources,
			Snippets:  deps.Snippets,
			Refiner:   gemini.NewRefiner(client),
			Extractor: gemini.NewSnippetExtractor(client, counter),
			Embedder:  gemini.NewEmbedder(client),
			Events:    events,
		}

		workers := cli.Refine.Workers
		if cmd == "snippets" {
			workers = cli.Snippets.Workers
		}

		scheduler := crawl.NewScheduler(workers, &crawl.Dispatcher{Processor: processor}, events)
		deps.Scheduler = scheduler
		deps.Crawler = &crawl.Service{
			Scheduler: scheduler,
			Registry:  crawl.NewRegistry(),
			Resources: deps.Resources,
			Settings:  deps.Settings,
			Events:    events,
		}
	}

	if cmd == "search" {
		client, err := geminiClient(ctx, stderr)
		if err != nil {
			return err
		}
		deps.Search = sqlite.NewSearchService(m.DB, deps.Snippets, gemini.NewEmbedder(client))
	}

	return kongCtx.Run(deps)
}

// tokenizerModel is used for token counting in snippet extraction.
const tokenizerModel = "gemini-2.5-flash"

func geminiClient(ctx context.Context, stderr io.Writer) (*genai.Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return nil, fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}
	return client, nil
}

func defaultDBPath() string {
	if path := os.Getenv("TECHDOCS_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "techdocs.db"
	}
	dir := filepath.Join(home, ".techdocs")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "techdocs.db")
}
