// Package rod provides a techdocs.Fetcher backed by Chrome browser
// automation, for documentation sites that render content with JavaScript.
package rod

import (
	"context"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"github.com/fwojciec/techdocs"
)

// DefaultTimeout is the hard per-fetch budget. Navigation that has not
// finished by then is abandoned so a wedged page cannot hold a worker.
const DefaultTimeout = 180 * time.Second

// Ensure Fetcher implements techdocs.Fetcher at compile time.
var _ techdocs.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager  *BrowserManager
	timeout  time.Duration
	maxPages int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the hard per-fetch timeout. Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxPagesPerBrowser sets how many pages are fetched before the
// underlying browser is recycled.
func WithMaxPagesPerBrowser(n int64) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultTimeout, maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(WithMaxPages(f.maxPages))
	if err != nil {
		return nil, err
	}
	f.manager = manager

	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	// Check context before starting
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.manager.Closed() {
		return "", techdocs.Errorf(techdocs.EINVALID, "fetcher is closed")
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	// Set context for all subsequent operations
	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", wrapTimeout(ctx, url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", wrapTimeout(ctx, url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", wrapTimeout(ctx, url, err)
	}

	f.manager.IncrementPageCount()
	return html, nil
}

// Close releases browser resources.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher. It exists for
// tests that verify process cleanup.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// wrapTimeout maps deadline expiry to ETIMEOUT so callers can tell a slow
// page from a broken one.
func wrapTimeout(ctx context.Context, url string, err error) error {
	if ctx.Err() == context.DeadlineExceeded {
		return techdocs.Errorf(techdocs.ETIMEOUT, "fetch %s: timed out", url)
	}
	return err
}
