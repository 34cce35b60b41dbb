package mock

import (
	"context"

	"github.com/fwojciec/techdocs"
)

var _ techdocs.SnippetService = (*SnippetService)(nil)

// SnippetService is a mock implementation of techdocs.SnippetService.
type SnippetService struct {
	CreateSnippetFn             func(ctx context.Context, snippet *techdocs.Snippet) error
	FindSnippetByIDFn           func(ctx context.Context, id string) (*techdocs.Snippet, error)
	FindSnippetsFn              func(ctx context.Context, filter techdocs.SnippetFilter) ([]*techdocs.Snippet, error)
	DeleteSnippetsForResourceFn func(ctx context.Context, versionID, sourceURL string) error
}

func (s *SnippetService) CreateSnippet(ctx context.Context, snippet *techdocs.Snippet) error {
	return s.CreateSnippetFn(ctx, snippet)
}

func (s *SnippetService) FindSnippetByID(ctx context.Context, id string) (*techdocs.Snippet, error) {
	return s.FindSnippetByIDFn(ctx, id)
}

func (s *SnippetService) FindSnippets(ctx context.Context, filter techdocs.SnippetFilter) ([]*techdocs.Snippet, error) {
	return s.FindSnippetsFn(ctx, filter)
}

func (s *SnippetService) DeleteSnippetsForResource(ctx context.Context, versionID, sourceURL string) error {
	return s.DeleteSnippetsForResourceFn(ctx, versionID, sourceURL)
}

var _ techdocs.SearchService = (*SearchService)(nil)

// SearchService is a mock implementation of techdocs.SearchService.
type SearchService struct {
	SearchFn func(ctx context.Context, query string, opts techdocs.SearchOptions) ([]techdocs.SearchResult, error)
}

func (s *SearchService) Search(ctx context.Context, query string, opts techdocs.SearchOptions) ([]techdocs.SearchResult, error) {
	return s.SearchFn(ctx, query, opts)
}
