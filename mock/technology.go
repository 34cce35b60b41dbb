package mock

import (
	"context"

	"github.com/fwojciec/techdocs"
)

var _ techdocs.TechnologyService = (*TechnologyService)(nil)

// TechnologyService is a mock implementation of techdocs.TechnologyService.
type TechnologyService struct {
	CreateTechnologyFn   func(ctx context.Context, tech *techdocs.Technology) error
	FindTechnologyByIDFn func(ctx context.Context, id string) (*techdocs.Technology, error)
	FindTechnologiesFn   func(ctx context.Context) ([]*techdocs.Technology, error)
	DeleteTechnologyFn   func(ctx context.Context, id string) error
}

func (s *TechnologyService) CreateTechnology(ctx context.Context, tech *techdocs.Technology) error {
	return s.CreateTechnologyFn(ctx, tech)
}

func (s *TechnologyService) FindTechnologyByID(ctx context.Context, id string) (*techdocs.Technology, error) {
	return s.FindTechnologyByIDFn(ctx, id)
}

func (s *TechnologyService) FindTechnologies(ctx context.Context) ([]*techdocs.Technology, error) {
	return s.FindTechnologiesFn(ctx)
}

func (s *TechnologyService) DeleteTechnology(ctx context.Context, id string) error {
	return s.DeleteTechnologyFn(ctx, id)
}

var _ techdocs.VersionService = (*VersionService)(nil)

// VersionService is a mock implementation of techdocs.VersionService.
type VersionService struct {
	CreateVersionFn             func(ctx context.Context, ver *techdocs.Version) error
	FindVersionByIDFn           func(ctx context.Context, id string) (*techdocs.Version, error)
	FindVersionsForTechnologyFn func(ctx context.Context, technologyID string) ([]*techdocs.Version, error)
	DeleteVersionFn             func(ctx context.Context, id string) error
}

func (s *VersionService) CreateVersion(ctx context.Context, ver *techdocs.Version) error {
	return s.CreateVersionFn(ctx, ver)
}

func (s *VersionService) FindVersionByID(ctx context.Context, id string) (*techdocs.Version, error) {
	return s.FindVersionByIDFn(ctx, id)
}

func (s *VersionService) FindVersionsForTechnology(ctx context.Context, technologyID string) ([]*techdocs.Version, error) {
	return s.FindVersionsForTechnologyFn(ctx, technologyID)
}

func (s *VersionService) DeleteVersion(ctx context.Context, id string) error {
	return s.DeleteVersionFn(ctx, id)
}
