package techdocs

import "context"

// Fetcher retrieves rendered HTML from URLs.
// Implementations may use browser automation to handle JavaScript-rendered
// content and must enforce their own hard timeout so a wedged network call
// cannot permanently occupy a worker.
type Fetcher interface {
	// Fetch navigates to the URL and returns the rendered HTML.
	// The context controls cancellation in addition to the internal timeout.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases fetcher resources.
	Close() error
}

// LinkExtractor extracts outbound links from a fetched page.
type LinkExtractor interface {
	// ExtractLinks parses HTML and returns absolute http(s) URLs with
	// fragments stripped, deduplicated, in document order. The baseURL is
	// used to resolve relative hrefs.
	ExtractLinks(html string, baseURL string) ([]string, error)
}
