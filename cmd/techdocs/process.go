package main

import (
	"fmt"

	"github.com/fwojciec/techdocs"
)

// Run executes the "refine" command.
func (c *RefineCmd) Run(deps *Dependencies) error {
	ids, err := selectResources(deps, c.VersionID, techdocs.StatusPendingMarkdown)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Fprintln(deps.Stdout, "No resources with crawled content to refine.")
		return nil
	}

	deps.Scheduler.Open(deps.Ctx)
	defer deps.Scheduler.Close()

	taskIDs, err := deps.Crawler.SubmitClean(deps.Ctx, ids)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", techdocs.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Refining %d resources\n", len(taskIDs))

	waitForDrain(deps)

	return printStatusSummary(deps, c.VersionID)
}

// Run executes the "snippets" command.
func (c *SnippetsCmd) Run(deps *Dependencies) error {
	ids, err := selectResources(deps, c.VersionID, techdocs.StatusPendingProcessing)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Fprintln(deps.Stdout, "No resources with markdown content to process.")
		return nil
	}

	deps.Scheduler.Open(deps.Ctx)
	defer deps.Scheduler.Close()

	taskIDs, err := deps.Crawler.SubmitSnippets(deps.Ctx, ids)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", techdocs.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Processing %d resources\n", len(taskIDs))

	waitForDrain(deps)

	return printStatusSummary(deps, c.VersionID)
}

// selectResources returns the IDs of a version's resources that have content
// and can enter (or already sit in) the pending state for the requested
// stage.
func selectResources(deps *Dependencies, versionID string, pending techdocs.Status) ([]string, error) {
	resources, err := deps.Resources.FindResourcesForVersion(deps.Ctx, versionID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", techdocs.ErrorMessage(err))
		return nil, err
	}

	var ids []string
	for _, res := range resources {
		if res.Content() == "" {
			continue
		}
		if res.Status == pending || res.Status.CanTransitionTo(pending) {
			ids = append(ids, res.ID)
		}
	}
	return ids, nil
}
