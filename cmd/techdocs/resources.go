package main

import (
	"fmt"

	"github.com/fwojciec/techdocs"
	"github.com/fwojciec/techdocs/crawl"
)

// Run executes the "resources" command.
func (c *ResourcesCmd) Run(deps *Dependencies) error {
	resources, err := deps.Resources.FindResourcesForVersion(deps.Ctx, c.VersionID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", techdocs.ErrorMessage(err))
		return err
	}

	if len(resources) == 0 {
		fmt.Fprintln(deps.Stdout, "No resources found. Use 'techdocs crawl' to discover some.")
		return nil
	}

	for _, res := range resources {
		fmt.Fprintf(deps.Stdout, "%s  %-20s  %s\n", res.ID, res.Status, res.URL)
	}

	return nil
}

// Run executes the "filters set" command.
func (c *FiltersSetCmd) Run(deps *Dependencies) error {
	settings := &techdocs.CrawlSettings{
		VersionID:     c.VersionID,
		PrefixPath:    c.Prefix,
		AntiPaths:     c.AntiPath,
		AntiKeywords:  c.AntiKeyword,
		SkipProcessed: c.SkipProcessed,
	}

	if err := deps.Settings.SaveSettings(deps.Ctx, settings); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", techdocs.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved filters for version %s\n", c.VersionID)
	return nil
}

// Run executes the "filters apply" command.
func (c *FiltersApplyCmd) Run(deps *Dependencies) error {
	crawler := deps.Crawler
	if crawler == nil {
		// Filter application needs no fetching, so build a service without
		// the crawl pipeline.
		crawler = filtersOnlyService(deps)
	}

	skipped, err := crawler.ApplyFilters(deps.Ctx, c.VersionID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", techdocs.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Skipped %d resources\n", skipped)
	return nil
}

// filtersOnlyService builds a crawl service with just the pieces ApplyFilters
// touches.
func filtersOnlyService(deps *Dependencies) *crawl.Service {
	return &crawl.Service{
		Resources: deps.Resources,
		Settings:  deps.Settings,
	}
}
