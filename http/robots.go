package http

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"

	"github.com/fwojciec/techdocs"
)

// userAgent identifies the crawler to sites and in robots.txt group
// matching.
const userAgent = "techdocs"

// Ensure PoliteFetcher implements techdocs.Fetcher at compile time.
var _ techdocs.Fetcher = (*PoliteFetcher)(nil)

// PoliteFetcher wraps a Fetcher with robots.txt enforcement. The robots
// data for each host is fetched once and cached for the fetcher's lifetime.
// A missing or unreadable robots.txt allows everything.
type PoliteFetcher struct {
	next   techdocs.Fetcher
	client *http.Client

	mu     sync.Mutex
	robots map[string]*robotstxt.RobotsData // keyed by scheme://host
}

// NewPoliteFetcher creates a PoliteFetcher delegating to next. If client is
// nil, http.DefaultClient is used for robots.txt requests.
func NewPoliteFetcher(next techdocs.Fetcher, client *http.Client) *PoliteFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &PoliteFetcher{
		next:   next,
		client: client,
		robots: make(map[string]*robotstxt.RobotsData),
	}
}

// Fetch checks robots.txt before delegating. Disallowed URLs fail with
// EINVALID without touching the wrapped fetcher.
func (f *PoliteFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", techdocs.Errorf(techdocs.EINVALID, "invalid URL %q: %v", rawURL, err)
	}

	data, err := f.robotsFor(ctx, u)
	if err != nil {
		return "", err
	}
	if data != nil && !data.TestAgent(u.Path, userAgent) {
		return "", techdocs.Errorf(techdocs.EINVALID, "%s is disallowed by robots.txt", rawURL)
	}

	return f.next.Fetch(ctx, rawURL)
}

// Close delegates to the wrapped fetcher.
func (f *PoliteFetcher) Close() error {
	return f.next.Close()
}

// robotsFor returns the cached robots data for the URL's origin, fetching
// it on first use. A nil result means no restrictions apply.
func (f *PoliteFetcher) robotsFor(ctx context.Context, u *url.URL) (*robotstxt.RobotsData, error) {
	origin := u.Scheme + "://" + u.Host

	f.mu.Lock()
	data, ok := f.robots[origin]
	f.mu.Unlock()
	if ok {
		return data, nil
	}

	data = f.fetchRobots(ctx, origin)

	f.mu.Lock()
	f.robots[origin] = data
	f.mu.Unlock()

	return data, nil
}

// fetchRobots retrieves and parses an origin's robots.txt. Any failure is
// treated as an absent robots.txt.
func (f *PoliteFetcher) fetchRobots(ctx context.Context, origin string) *robotstxt.RobotsData {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return nil
	}
	return data
}
