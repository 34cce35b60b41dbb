//go:build integration

package http_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	techdocshttp "github.com/fwojciec/techdocs/http"
)

func TestSitemapService_Integration_HtmxDocs(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	svc := techdocshttp.NewSitemapService(nil)

	// htmx.org has a sitemap declared in robots.txt
	urls, err := svc.DiscoverURLs(ctx, "https://htmx.org")
	require.NoError(t, err)

	// Should find at least some URLs
	assert.NotEmpty(t, urls, "expected at least some URLs from htmx.org sitemap")
	t.Logf("Found %d URLs from htmx.org sitemap", len(urls))

	// Verify URLs look reasonable (show first 5)
	for _, u := range urls[:min(5, len(urls))] {
		t.Logf("  - %s", u)
	}
}

func TestSitemapService_Integration_HtmxDocs_PathPrefix(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	svc := techdocshttp.NewSitemapService(nil)

	// Limit discovery to /docs/ pages via the base URL path
	urls, err := svc.DiscoverURLs(ctx, "https://htmx.org/docs/")
	require.NoError(t, err)

	assert.NotEmpty(t, urls, "expected some /docs/ URLs from htmx.org")
	t.Logf("Found %d /docs/ URLs from htmx.org sitemap", len(urls))

	for _, u := range urls {
		assert.Contains(t, u, "/docs/", "URL should contain /docs/")
	}
}
