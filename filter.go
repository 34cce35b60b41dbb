package techdocs

import (
	"net/url"
	"strings"
)

// CrawlConfig is the immutable input to a crawl run.
type CrawlConfig struct {
	TechnologyID  string   `json:"technologyId"`
	VersionID     string   `json:"versionId"`
	StartURL      string   `json:"startUrl"`
	PrefixPath    string   `json:"prefixPath"`
	AntiPaths     []string `json:"antiPaths"`
	AntiKeywords  []string `json:"antiKeywords"`
	SkipProcessed bool     `json:"skipProcessed"`
}

// Validate returns an error if the configuration contains invalid fields.
func (c *CrawlConfig) Validate() error {
	if c.TechnologyID == "" {
		return Errorf(EINVALID, "crawl technology ID required")
	}
	if c.VersionID == "" {
		return Errorf(EINVALID, "crawl version ID required")
	}
	if _, err := NormalizeURL(c.StartURL); err != nil {
		return err
	}
	return nil
}

// NormalizeURL canonicalizes a URL for deduplication: whitespace trimmed,
// fragment stripped, default port stripped, host lowercased. Only http and
// https URLs are accepted.
func NormalizeURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", Errorf(EINVALID, "URL required")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", Errorf(EINVALID, "unsupported URL scheme %q", u.Scheme)
	}

	u.Fragment = ""
	u.Host = strings.ToLower(u.Host)
	if (u.Scheme == "http" && u.Port() == "80") || (u.Scheme == "https" && u.Port() == "443") {
		u.Host = u.Hostname()
	}

	return u.String(), nil
}

// ShouldCrawl decides whether a URL is in scope for a crawl. It is a pure
// function with no I/O.
//
// A non-empty prefixPath must match the URL under at least one of three
// representations: full-URL prefix, host+path containment, or path-only
// prefix (all case-insensitive). The tolerance exists because users supply
// prefixes as bare paths, bare host fragments, or full URLs. An empty
// prefixPath means no restriction.
//
// The URL is rejected when any anti-keyword appears as a substring of any
// representation, or when any anti-path matches under the same
// multi-representation logic used for prefixPath.
func ShouldCrawl(rawURL, prefixPath string, antiPaths, antiKeywords []string) bool {
	full, hostPath, path := urlRepresentations(rawURL)

	if prefix := strings.ToLower(strings.TrimSpace(prefixPath)); prefix != "" {
		if !matchesScope(prefix, full, hostPath, path) {
			return false
		}
	}

	for _, kw := range antiKeywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(full, kw) || strings.Contains(hostPath, kw) || strings.Contains(path, kw) {
			return false
		}
	}

	for _, p := range antiPaths {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if matchesScope(p, full, hostPath, path) {
			return false
		}
	}

	return true
}

// matchesScope reports whether pattern matches the URL under any of its
// three lowercased representations.
func matchesScope(pattern, full, hostPath, path string) bool {
	return strings.HasPrefix(full, pattern) ||
		strings.Contains(hostPath, pattern) ||
		strings.HasPrefix(path, pattern)
}

// urlRepresentations returns the lowercased full URL, host+path, and path
// forms of rawURL. Unparseable URLs fall back to the full form only.
func urlRepresentations(rawURL string) (full, hostPath, path string) {
	full = strings.ToLower(strings.TrimSpace(rawURL))

	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return full, full, full
	}
	hostPath = strings.ToLower(u.Host + u.Path)
	path = strings.ToLower(u.Path)
	return full, hostPath, path
}
