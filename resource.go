package techdocs

import (
	"context"
	"time"
)

// Status represents the lifecycle state of a Resource. Transitions are
// engine-driven only; no external mutation bypasses the state machine.
type Status string

// Resource lifecycle states.
const (
	StatusPendingCrawl       Status = "pending_crawl"
	StatusCrawling           Status = "crawling"
	StatusCrawled            Status = "crawled"
	StatusCrawlError         Status = "crawl_error"
	StatusPendingMarkdown    Status = "pending_markdown"
	StatusConvertingMarkdown Status = "converting_markdown"
	StatusMarkdownReady      Status = "markdown_ready"
	StatusMarkdownError      Status = "markdown_error"
	StatusPendingProcessing  Status = "pending_processing"
	StatusProcessing         Status = "processing"
	StatusProcessed          Status = "processed"
	StatusProcessingError    Status = "processing_error"
	StatusSkipped            Status = "skipped"
)

// statusTransitions defines the valid successor states for each status.
// Any non-terminal state may additionally transition to StatusSkipped when
// filters retroactively exclude the URL; that rule lives in CanTransitionTo
// rather than being repeated here.
// Retry re-entry (the five terminal states back to a pending state) is
// explicit here; there are no other paths out of a terminal state.
var statusTransitions = map[Status][]Status{
	StatusPendingCrawl:       {StatusCrawling},
	StatusCrawling:           {StatusCrawled, StatusCrawlError},
	StatusCrawled:            {StatusProcessing, StatusPendingMarkdown, StatusPendingProcessing, StatusConvertingMarkdown},
	StatusCrawlError:         {StatusCrawling, StatusPendingCrawl},
	StatusPendingMarkdown:    {StatusConvertingMarkdown},
	StatusConvertingMarkdown: {StatusMarkdownReady, StatusMarkdownError},
	StatusMarkdownReady:      {StatusPendingProcessing, StatusProcessing, StatusConvertingMarkdown},
	StatusMarkdownError:      {StatusConvertingMarkdown, StatusPendingMarkdown, StatusPendingCrawl},
	StatusPendingProcessing:  {StatusProcessing},
	StatusProcessing:         {StatusProcessed, StatusProcessingError},
	StatusProcessed:          {StatusProcessing, StatusPendingProcessing, StatusPendingCrawl},
	StatusProcessingError:    {StatusProcessing, StatusPendingProcessing, StatusPendingCrawl},
	StatusSkipped:            {StatusPendingCrawl},
}

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// Terminal reports whether s is a state the pipeline does not advance on its
// own. Terminal states can only be left by an explicit retry request.
func (s Status) Terminal() bool {
	switch s {
	case StatusCrawlError, StatusMarkdownError, StatusProcessingError, StatusProcessed, StatusSkipped:
		return true
	}
	return false
}

// Retryable reports whether a resource in state s may be re-entered by a
// later retry request. These are the only states a retry may act on; there
// are no silent transitions out of StatusProcessed.
func (s Status) Retryable() bool {
	return s.Terminal()
}

// NeedsCrawl reports whether a resource in state s still requires fetching.
// The frontier uses this to override the processed-URL cache: a link whose
// resource exists but is stuck pending or errored must be retried.
func (s Status) NeedsCrawl() bool {
	switch s {
	case StatusPendingCrawl, StatusCrawlError:
		return true
	}
	return false
}

// CanTransitionTo reports whether the state machine permits moving from s to
// next. Any non-terminal state may move to StatusSkipped when filters
// retroactively exclude the URL.
func (s Status) CanTransitionTo(next Status) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if next == StatusSkipped {
		return !s.Terminal()
	}
	for _, t := range statusTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Resource is a discovered documentation page scoped to a technology and
// version. At most one resource exists per (technology, version, normalized
// URL); the resource store enforces the uniqueness invariant.
type Resource struct {
	ID           string    `json:"id"`
	TechnologyID string    `json:"technologyId"`
	VersionID    string    `json:"versionId"`
	URL          string    `json:"url"` // normalized: no fragment, no default port
	Status       Status    `json:"status"`
	RawContent   string    `json:"rawContent,omitempty"`
	Extracted    string    `json:"extracted,omitempty"` // markdown converted from raw HTML
	Refined      string    `json:"refined,omitempty"`   // AI-cleaned markdown
	ContentHash  string    `json:"contentHash,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Validate returns an error if the resource contains invalid fields.
func (r *Resource) Validate() error {
	if r.TechnologyID == "" {
		return Errorf(EINVALID, "resource technology ID required")
	}
	if r.VersionID == "" {
		return Errorf(EINVALID, "resource version ID required")
	}
	if r.URL == "" {
		return Errorf(EINVALID, "resource URL required")
	}
	return nil
}

// Content returns the best available markdown for downstream processing:
// the refined text when present, otherwise the extracted text.
func (r *Resource) Content() string {
	if r.Refined != "" {
		return r.Refined
	}
	return r.Extracted
}

// ResourceUpdate represents fields that can be updated on a resource.
// Nil fields are left unchanged.
type ResourceUpdate struct {
	Status      *Status `json:"status"`
	RawContent  *string `json:"rawContent"`
	Extracted   *string `json:"extracted"`
	Refined     *string `json:"refined"`
	ContentHash *string `json:"contentHash"`
}

// ResourceService represents a service for managing resources. The store
// must enforce uniqueness of (technologyID, versionID, url) and return
// ECONFLICT on duplicate creation so concurrent discovery of the same URL
// resolves to "already discovered, use existing".
type ResourceService interface {
	// CreateResource creates a new resource with status StatusPendingCrawl.
	// Returns ECONFLICT if a resource with the same (technology, version,
	// URL) already exists.
	CreateResource(ctx context.Context, res *Resource) error

	// FindResourceByID retrieves a resource by ID.
	// Returns ENOTFOUND if the resource does not exist.
	FindResourceByID(ctx context.Context, id string) (*Resource, error)

	// FindResourceByURL retrieves a resource by its unique key.
	// Returns ENOTFOUND if the resource does not exist.
	FindResourceByURL(ctx context.Context, technologyID, versionID, url string) (*Resource, error)

	// FindResourcesForVersion retrieves all resources for a version.
	FindResourcesForVersion(ctx context.Context, versionID string) ([]*Resource, error)

	// UpdateResource applies upd to an existing resource and bumps its
	// updatedAt timestamp. Status changes must be valid transitions;
	// EINVALID is returned otherwise. Returns ENOTFOUND if the resource
	// does not exist.
	UpdateResource(ctx context.Context, id string, upd ResourceUpdate) (*Resource, error)

	// DeleteResource permanently removes a resource.
	// Returns ENOTFOUND if the resource does not exist.
	DeleteResource(ctx context.Context, id string) error
}
