package techdocs

import "context"

// SitemapService discovers URLs from website sitemaps. It is an optional
// seed source: discovered URLs are submitted to the frontier like any other
// link and pass through the same filter configuration.
type SitemapService interface {
	// DiscoverURLs finds URLs from a site's sitemap. It checks robots.txt
	// for sitemap directives, then falls back to /sitemap.xml. Sitemap
	// indexes are resolved recursively.
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
