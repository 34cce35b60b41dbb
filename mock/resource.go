package mock

import (
	"context"

	"github.com/fwojciec/techdocs"
)

var _ techdocs.ResourceService = (*ResourceService)(nil)

// ResourceService is a mock implementation of techdocs.ResourceService.
type ResourceService struct {
	CreateResourceFn          func(ctx context.Context, res *techdocs.Resource) error
	FindResourceByIDFn        func(ctx context.Context, id string) (*techdocs.Resource, error)
	FindResourceByURLFn       func(ctx context.Context, technologyID, versionID, url string) (*techdocs.Resource, error)
	FindResourcesForVersionFn func(ctx context.Context, versionID string) ([]*techdocs.Resource, error)
	UpdateResourceFn          func(ctx context.Context, id string, upd techdocs.ResourceUpdate) (*techdocs.Resource, error)
	DeleteResourceFn          func(ctx context.Context, id string) error
}

func (s *ResourceService) CreateResource(ctx context.Context, res *techdocs.Resource) error {
	return s.CreateResourceFn(ctx, res)
}

func (s *ResourceService) FindResourceByID(ctx context.Context, id string) (*techdocs.Resource, error) {
	return s.FindResourceByIDFn(ctx, id)
}

func (s *ResourceService) FindResourceByURL(ctx context.Context, technologyID, versionID, url string) (*techdocs.Resource, error) {
	return s.FindResourceByURLFn(ctx, technologyID, versionID, url)
}

func (s *ResourceService) FindResourcesForVersion(ctx context.Context, versionID string) ([]*techdocs.Resource, error) {
	return s.FindResourcesForVersionFn(ctx, versionID)
}

func (s *ResourceService) UpdateResource(ctx context.Context, id string, upd techdocs.ResourceUpdate) (*techdocs.Resource, error) {
	return s.UpdateResourceFn(ctx, id, upd)
}

func (s *ResourceService) DeleteResource(ctx context.Context, id string) error {
	return s.DeleteResourceFn(ctx, id)
}
