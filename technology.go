package techdocs

import (
	"context"
	"time"
)

// Technology represents a documented technology (a library, framework, or
// tool) whose documentation is being ingested.
type Technology struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Language  string    `json:"language,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate returns an error if the technology contains invalid fields.
func (t *Technology) Validate() error {
	if t.Name == "" {
		return Errorf(EINVALID, "technology name required")
	}
	return nil
}

// Version represents a specific version of a technology. Resources and
// snippets are scoped to a (technology, version) pair.
type Version struct {
	ID           string    `json:"id"`
	TechnologyID string    `json:"technologyId"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Validate returns an error if the version contains invalid fields.
func (v *Version) Validate() error {
	if v.TechnologyID == "" {
		return Errorf(EINVALID, "version technology ID required")
	}
	if v.Name == "" {
		return Errorf(EINVALID, "version name required")
	}
	return nil
}

// TechnologyService represents a service for managing technologies.
type TechnologyService interface {
	// CreateTechnology creates a new technology.
	CreateTechnology(ctx context.Context, tech *Technology) error

	// FindTechnologyByID retrieves a technology by ID.
	// Returns ENOTFOUND if the technology does not exist.
	FindTechnologyByID(ctx context.Context, id string) (*Technology, error)

	// FindTechnologies retrieves all technologies.
	FindTechnologies(ctx context.Context) ([]*Technology, error)

	// DeleteTechnology removes a technology and all associated versions,
	// resources, and snippets. Returns ENOTFOUND if it does not exist.
	DeleteTechnology(ctx context.Context, id string) error
}

// VersionService represents a service for managing technology versions.
type VersionService interface {
	// CreateVersion creates a new version.
	CreateVersion(ctx context.Context, ver *Version) error

	// FindVersionByID retrieves a version by ID.
	// Returns ENOTFOUND if the version does not exist.
	FindVersionByID(ctx context.Context, id string) (*Version, error)

	// FindVersionsForTechnology retrieves all versions of a technology.
	FindVersionsForTechnology(ctx context.Context, technologyID string) ([]*Version, error)

	// DeleteVersion removes a version and all associated resources and
	// snippets. Returns ENOTFOUND if it does not exist.
	DeleteVersion(ctx context.Context, id string) error
}
