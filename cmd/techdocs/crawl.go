package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/techdocs"
)

// drainPollInterval is how often waitForDrain checks the scheduler queue.
const drainPollInterval = 200 * time.Millisecond

// Run executes the "crawl" command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	if _, err := deps.Versions.FindVersionByID(deps.Ctx, c.VersionID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", techdocs.ErrorMessage(err))
		return err
	}

	// Persist the filters so later 'filters apply' runs use the same scope.
	if err := deps.Settings.SaveSettings(deps.Ctx, &techdocs.CrawlSettings{
		VersionID:     c.VersionID,
		PrefixPath:    c.Prefix,
		AntiPaths:     c.AntiPath,
		AntiKeywords:  c.AntiKeyword,
		SkipProcessed: c.SkipProcessed,
	}); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", techdocs.ErrorMessage(err))
		return err
	}

	deps.Scheduler.Open(deps.Ctx)
	defer deps.Scheduler.Close()

	cfg := techdocs.CrawlConfig{
		TechnologyID:  c.TechnologyID,
		VersionID:     c.VersionID,
		StartURL:      c.URL,
		PrefixPath:    c.Prefix,
		AntiPaths:     c.AntiPath,
		AntiKeywords:  c.AntiKeyword,
		SkipProcessed: c.SkipProcessed,
	}

	if _, err := deps.Crawler.SubmitCrawl(deps.Ctx, cfg); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", techdocs.ErrorMessage(err))
		return err
	}

	// Sitemap seeding widens the frontier beyond what link expansion alone
	// reaches. Every in-scope sitemap URL becomes an extra seed; submission
	// is idempotent so overlap with discovered links is harmless.
	if c.Sitemap {
		urls, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, c.URL)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "warning: sitemap discovery failed: %s\n", techdocs.ErrorMessage(err))
		}
		seeded := 0
		for _, u := range urls {
			if !techdocs.ShouldCrawl(u, c.Prefix, c.AntiPath, c.AntiKeyword) {
				continue
			}
			seedCfg := cfg
			seedCfg.StartURL = u
			if _, err := deps.Crawler.SubmitCrawl(deps.Ctx, seedCfg); err != nil {
				fmt.Fprintf(deps.Stderr, "warning: skip sitemap seed %s: %s\n", u, techdocs.ErrorMessage(err))
				continue
			}
			seeded++
		}
		if seeded > 0 {
			fmt.Fprintf(deps.Stdout, "Seeded %d URLs from sitemap\n", seeded)
		}
	}

	waitForDrain(deps)

	return printStatusSummary(deps, c.VersionID)
}

// Run executes the "stop" command.
func (c *StopCmd) Run(deps *Dependencies) error {
	// Stop only flips registry state and cancellation tokens; with no
	// long-running daemon the command mostly reports what was active.
	if c.All {
		if err := deps.Crawler.StopAll(deps.Ctx); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", techdocs.ErrorMessage(err))
			return err
		}
		fmt.Fprintln(deps.Stdout, "Stopped all crawl jobs")
		return nil
	}

	if c.TechnologyID == "" || c.VersionID == "" {
		fmt.Fprintf(deps.Stderr, "error: provide a technology and version, or use --all\n")
		return techdocs.Errorf(techdocs.EINVALID, "provide a technology and version, or use --all")
	}

	if err := deps.Crawler.StopJob(deps.Ctx, c.TechnologyID, c.VersionID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", techdocs.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Stopped crawl for technology %s version %s\n", c.TechnologyID, c.VersionID)
	return nil
}

// waitForDrain blocks until the scheduler has no queued or running tasks.
func waitForDrain(deps *Dependencies) {
	for {
		if len(deps.Scheduler.ActiveTasks()) == 0 {
			return
		}
		select {
		case <-deps.Ctx.Done():
			return
		case <-time.After(drainPollInterval):
		}
	}
}

// printStatusSummary prints per-status resource counts for a version.
func printStatusSummary(deps *Dependencies, versionID string) error {
	resources, err := deps.Resources.FindResourcesForVersion(deps.Ctx, versionID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", techdocs.ErrorMessage(err))
		return err
	}

	counts := make(map[techdocs.Status]int)
	for _, res := range resources {
		counts[res.Status]++
	}

	fmt.Fprintf(deps.Stdout, "%d resources:\n", len(resources))
	for _, status := range []techdocs.Status{
		techdocs.StatusPendingCrawl,
		techdocs.StatusCrawled,
		techdocs.StatusCrawlError,
		techdocs.StatusMarkdownReady,
		techdocs.StatusMarkdownError,
		techdocs.StatusProcessed,
		techdocs.StatusProcessingError,
		techdocs.StatusSkipped,
	} {
		if counts[status] > 0 {
			fmt.Fprintf(deps.Stdout, "  %s: %d\n", status, counts[status])
		}
	}
	return nil
}
