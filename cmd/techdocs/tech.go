package main

import (
	"fmt"

	"github.com/fwojciec/techdocs"
)

// Run executes the "tech add" command.
func (c *TechAddCmd) Run(deps *Dependencies) error {
	tech := &techdocs.Technology{
		Name:     c.Name,
		Language: c.Language,
	}

	if err := deps.Technologies.CreateTechnology(deps.Ctx, tech); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", techdocs.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Added technology %q (%s)\n", tech.Name, tech.ID)
	return nil
}

// Run executes the "tech list" command.
func (c *TechListCmd) Run(deps *Dependencies) error {
	techs, err := deps.Technologies.FindTechnologies(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", techdocs.ErrorMessage(err))
		return err
	}

	if len(techs) == 0 {
		fmt.Fprintln(deps.Stdout, "No technologies found. Use 'techdocs tech add' to create one.")
		return nil
	}

	for _, tech := range techs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", tech.ID, tech.Name, tech.Language)
	}

	return nil
}

// Run executes the "tech delete" command.
func (c *TechDeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return techdocs.Errorf(techdocs.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Technologies.DeleteTechnology(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", techdocs.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted technology %s\n", c.ID)
	return nil
}
