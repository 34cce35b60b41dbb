package techdocs

import (
	"context"
	"time"
)

// Snippet is a structured, searchable documentation unit extracted from a
// resource, scoped to the same (technology, version) pair.
type Snippet struct {
	ID           string    `json:"id"`
	TechnologyID string    `json:"technologyId"`
	VersionID    string    `json:"versionId"`
	SourceURL    string    `json:"sourceUrl"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Content      string    `json:"content"`
	Concepts     []string  `json:"concepts,omitempty"`
	Embedding    []float32 `json:"embedding,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Validate returns an error if the snippet contains invalid fields.
func (s *Snippet) Validate() error {
	if s.TechnologyID == "" {
		return Errorf(EINVALID, "snippet technology ID required")
	}
	if s.VersionID == "" {
		return Errorf(EINVALID, "snippet version ID required")
	}
	if s.Content == "" {
		return Errorf(EINVALID, "snippet content required")
	}
	return nil
}

// SnippetFilter represents a filter for FindSnippets.
type SnippetFilter struct {
	TechnologyID *string `json:"technologyId"`
	VersionID    *string `json:"versionId"`
	SourceURL    *string `json:"sourceUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// SnippetService represents a service for managing snippets.
type SnippetService interface {
	// CreateSnippet creates a new snippet.
	CreateSnippet(ctx context.Context, snippet *Snippet) error

	// FindSnippetByID retrieves a snippet by ID.
	// Returns ENOTFOUND if the snippet does not exist.
	FindSnippetByID(ctx context.Context, id string) (*Snippet, error)

	// FindSnippets retrieves snippets matching the filter.
	FindSnippets(ctx context.Context, filter SnippetFilter) ([]*Snippet, error)

	// DeleteSnippetsForResource removes all snippets extracted from the
	// given source URL within a version.
	DeleteSnippetsForResource(ctx context.Context, versionID, sourceURL string) error
}

// SearchOptions configures semantic search.
type SearchOptions struct {
	TechnologyID string  `json:"technologyId,omitempty"`
	VersionID    string  `json:"versionId,omitempty"`
	Limit        int     `json:"limit,omitempty"`
	MinScore     float32 `json:"minScore,omitempty"`
}

// SearchResult represents a search match.
type SearchResult struct {
	Snippet *Snippet `json:"snippet"`
	Score   float32  `json:"score"`
}

// SearchService provides semantic search over snippets, ordered by
// relevance to the query.
type SearchService interface {
	Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error)
}
