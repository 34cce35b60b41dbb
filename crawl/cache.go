package crawl

import "sync"

// URLCache is the in-process set of normalized URLs considered handled for
// the lifetime of an engine instance. It is an optimization layered on top
// of persisted resource status, never a substitute for it: the frontier
// re-checks the store on every hit so that resources stuck in a pending or
// error state are retried regardless of cache membership.
//
// The set is exact (no probabilistic structure) because a false positive
// here would silently drop a URL from the frontier.
type URLCache struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewURLCache creates an empty URLCache.
func NewURLCache() *URLCache {
	return &URLCache{seen: make(map[string]struct{})}
}

// Add marks a normalized URL as handled.
func (c *URLCache) Add(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen[url] = struct{}{}
}

// Contains reports whether a normalized URL has been handled.
func (c *URLCache) Contains(url string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.seen[url]
	return ok
}

// Len returns the number of cached URLs.
func (c *URLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.seen)
}
