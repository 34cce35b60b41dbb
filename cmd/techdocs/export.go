package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/techdocs"
	"github.com/fwojciec/techdocs/fs"
)

// Run executes the "export" command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	resources, err := deps.Resources.FindResourcesForVersion(deps.Ctx, c.VersionID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", techdocs.ErrorMessage(err))
		return err
	}

	abs, err := filepath.Abs(c.Dir)
	if err != nil {
		return err
	}
	exporter := fs.NewExporter(filepath.Dir(abs), filepath.Base(abs))

	exported := 0
	for _, res := range resources {
		if res.Content() == "" || res.Status == techdocs.StatusSkipped {
			continue
		}
		if err := exporter.Export(deps.Ctx, res); err != nil {
			_ = exporter.Abort()
			fmt.Fprintf(deps.Stderr, "error: %s\n", techdocs.ErrorMessage(err))
			return err
		}
		exported++
	}

	if exported == 0 {
		_ = exporter.Abort()
		fmt.Fprintln(deps.Stdout, "No resources with content to export.")
		return nil
	}

	if err := exporter.Commit(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", techdocs.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d pages to %s\n", exported, abs)
	return nil
}
