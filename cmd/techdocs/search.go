package main

import (
	"fmt"

	"github.com/fwojciec/techdocs"
)

// Run executes the "search" command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	results, err := deps.Search.Search(deps.Ctx, c.Query, techdocs.SearchOptions{
		TechnologyID: c.TechnologyID,
		VersionID:    c.VersionID,
		Limit:        c.Limit,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", techdocs.ErrorMessage(err))
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No matching snippets found.")
		return nil
	}

	for i, r := range results {
		fmt.Fprintf(deps.Stdout, "%d. %s (%.3f)\n   %s\n", i+1, r.Snippet.Title, r.Score, r.Snippet.SourceURL)
		if r.Snippet.Description != "" {
			fmt.Fprintf(deps.Stdout, "   %s\n", r.Snippet.Description)
		}
	}

	return nil
}
