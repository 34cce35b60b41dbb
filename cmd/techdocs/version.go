package main

import (
	"fmt"

	"github.com/fwojciec/techdocs"
)

// Run executes the "version add" command.
func (c *VersionAddCmd) Run(deps *Dependencies) error {
	ver := &techdocs.Version{
		TechnologyID: c.TechnologyID,
		Name:         c.Name,
	}

	if err := deps.Versions.CreateVersion(deps.Ctx, ver); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", techdocs.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Added version %q (%s)\n", ver.Name, ver.ID)
	return nil
}

// Run executes the "version list" command.
func (c *VersionListCmd) Run(deps *Dependencies) error {
	versions, err := deps.Versions.FindVersionsForTechnology(deps.Ctx, c.TechnologyID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", techdocs.ErrorMessage(err))
		return err
	}

	if len(versions) == 0 {
		fmt.Fprintln(deps.Stdout, "No versions found. Use 'techdocs version add' to create one.")
		return nil
	}

	for _, ver := range versions {
		fmt.Fprintf(deps.Stdout, "%s  %s\n", ver.ID, ver.Name)
	}

	return nil
}

// Run executes the "version delete" command.
func (c *VersionDeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return techdocs.Errorf(techdocs.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Versions.DeleteVersion(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", techdocs.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted version %s\n", c.ID)
	return nil
}
