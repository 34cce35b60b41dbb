package mock

import (
	"context"

	"github.com/fwojciec/techdocs"
)

var _ techdocs.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of techdocs.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ techdocs.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of techdocs.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, baseURL string) ([]string, error)
}

func (l *LinkExtractor) ExtractLinks(html string, baseURL string) ([]string, error) {
	return l.ExtractLinksFn(html, baseURL)
}

var _ techdocs.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of techdocs.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if d.WaitFn == nil {
		return nil
	}
	return d.WaitFn(ctx, domain)
}
