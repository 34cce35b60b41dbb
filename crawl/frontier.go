package crawl

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/fwojciec/techdocs"
)

// DefaultFetchTimeout is the hard per-page fetch budget. A wedged browser
// navigation is abandoned after this long so it cannot permanently occupy a
// worker.
const DefaultFetchTimeout = 180 * time.Second

// Frontier executes crawl tasks. For each task it re-validates the filter
// configuration, fetches and converts the page, persists content, and
// expands the frontier by enqueueing one task per newly discovered in-scope
// link.
//
// The frontier is the only component that advances resources through the
// crawl stage of the state machine.
type Frontier struct {
	Resources techdocs.ResourceService
	Fetcher   techdocs.Fetcher
	Extractor techdocs.Extractor
	Converter techdocs.Converter
	Links     techdocs.LinkExtractor
	Cache     *URLCache
	Registry  *Registry
	Events    techdocs.EventSink
	Limiter   techdocs.DomainLimiter
	Scheduler techdocs.TaskScheduler

	// FetchTimeout overrides DefaultFetchTimeout when positive.
	FetchTimeout time.Duration
}

// HandleCrawl processes a single crawl task. It returns ECANCELLED when the
// task's token was flipped at a checkpoint, and an error for fetch or
// conversion failures after recording the resource's error state.
func (f *Frontier) HandleCrawl(ctx context.Context, task *techdocs.Task) (techdocs.TaskResult, error) {
	p := task.Payload
	result := techdocs.TaskResult{ResourceID: p.ResourceID}

	res, err := f.Resources.FindResourceByID(ctx, p.ResourceID)
	if err != nil {
		return result, err
	}

	// Filters are re-validated at execution time, not only at discovery:
	// settings may have changed while the task sat in the queue.
	f.events().TaskUpdated(task.ID, 10, "filtering")
	if !techdocs.ShouldCrawl(res.URL, p.PrefixPath, p.AntiPaths, p.AntiKeywords) {
		if err := f.markSkipped(ctx, res); err != nil {
			return result, err
		}
		f.cacheURL(p, res.URL)
		return result, nil
	}

	if task.Token().Cancelled() {
		return result, techdocs.Errorf(techdocs.ECANCELLED, "crawl cancelled before fetch")
	}

	html, err := f.pageHTML(ctx, task, res)
	if err != nil {
		return result, err
	}

	if task.Token().Cancelled() {
		return result, techdocs.Errorf(techdocs.ECANCELLED, "crawl cancelled before link expansion")
	}

	f.events().TaskUpdated(task.ID, 70, "expanding links")
	queued, err := f.expandLinks(ctx, task, res, html)
	if err != nil {
		return result, err
	}

	f.cacheURL(p, res.URL)
	result.LinksQueued = queued
	return result, nil
}

// pageHTML returns the HTML to expand links from. Resources that still need
// crawling are fetched, converted, and persisted; resources already past the
// crawl stage reuse their stored raw content so a re-enqueued task is
// idempotent.
func (f *Frontier) pageHTML(ctx context.Context, task *techdocs.Task, res *techdocs.Resource) (string, error) {
	if !res.Status.NeedsCrawl() {
		if !task.Payload.SkipProcessed && res.Status.Retryable() {
			// Explicit re-crawl of a finished resource goes back through
			// pending_crawl so the transition stays legal.
			updated, err := f.setStatus(ctx, res.ID, techdocs.StatusPendingCrawl)
			if err != nil {
				return "", err
			}
			res = updated
		} else {
			// Already crawled in this or a prior run. Treat the stage as
			// done and expand links from the stored page.
			return res.RawContent, nil
		}
	}

	if _, err := f.setStatus(ctx, res.ID, techdocs.StatusCrawling); err != nil {
		return "", err
	}

	f.events().TaskUpdated(task.ID, 30, "crawling")
	html, err := f.fetch(ctx, res.URL)
	if err != nil {
		if _, serr := f.setStatus(ctx, res.ID, techdocs.StatusCrawlError); serr != nil {
			return "", serr
		}
		return "", err
	}

	f.events().TaskUpdated(task.ID, 50, "converting")
	markdown, err := f.toMarkdown(html)
	if err != nil {
		if _, serr := f.setStatus(ctx, res.ID, techdocs.StatusCrawlError); serr != nil {
			return "", serr
		}
		return "", err
	}

	status := techdocs.StatusCrawled
	hash := fmt.Sprintf("%016x", xxhash.Sum64String(markdown))
	if _, err := f.Resources.UpdateResource(ctx, res.ID, techdocs.ResourceUpdate{
		Status:      &status,
		RawContent:  &html,
		Extracted:   &markdown,
		ContentHash: &hash,
	}); err != nil {
		return "", err
	}
	f.events().ResourceStatusChanged(res.ID, status)

	return html, nil
}

// fetch retrieves the page under the per-domain rate limit and the hard
// fetch timeout. Deadline expiry is reported as ETIMEOUT.
func (f *Frontier) fetch(ctx context.Context, rawURL string) (string, error) {
	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx, hostOf(rawURL)); err != nil {
			return "", err
		}
	}

	timeout := f.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	fctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	html, err := f.Fetcher.Fetch(fctx, rawURL)
	if err != nil {
		if fctx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return "", techdocs.Errorf(techdocs.ETIMEOUT, "fetch %s: timed out after %s", rawURL, timeout)
		}
		return "", err
	}
	return html, nil
}

// toMarkdown extracts the main content and converts it to markdown. When
// boilerplate extraction fails the raw page is converted instead; the result
// is noisier but still usable.
func (f *Frontier) toMarkdown(html string) (string, error) {
	content := html
	if f.Extractor != nil {
		if extracted, err := f.Extractor.Extract(html); err == nil && extracted.ContentHTML != "" {
			content = extracted.ContentHTML
		}
	}
	return f.Converter.Convert(content)
}

// expandLinks extracts, normalizes, and deduplicates outbound links, then
// enqueues a crawl task per link that passes the filter and cache checks.
// Returns the number of tasks queued.
func (f *Frontier) expandLinks(ctx context.Context, task *techdocs.Task, res *techdocs.Resource, html string) (int, error) {
	if html == "" || f.Links == nil {
		return 0, nil
	}

	raw, err := f.Links.ExtractLinks(html, res.URL)
	if err != nil {
		// Link extraction failure does not fail the crawl; the page content
		// is already persisted.
		return 0, nil
	}

	seen := make(map[string]struct{}, len(raw))
	links := make([]string, 0, len(raw))
	for _, l := range raw {
		norm, err := techdocs.NormalizeURL(l)
		if err != nil {
			continue
		}
		if norm == res.URL {
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		links = append(links, norm)
	}

	queued := 0
	for _, link := range links {
		if task.Token().Cancelled() {
			return queued, techdocs.Errorf(techdocs.ECANCELLED, "crawl cancelled during link expansion")
		}
		if f.Registry != nil && !f.Registry.Active(JobKey{TechnologyID: task.TechnologyID, VersionID: task.VersionID}) {
			return queued, techdocs.Errorf(techdocs.ECANCELLED, "crawl job stopped")
		}

		ok, err := f.queueLink(ctx, task, link)
		if err != nil {
			return queued, err
		}
		if ok {
			queued++
		}
	}

	return queued, nil
}

// queueLink decides a single discovered link's fate and reports whether a
// task was queued for it.
func (f *Frontier) queueLink(ctx context.Context, task *techdocs.Task, link string) (bool, error) {
	p := task.Payload

	// Cache hit means "handled this run", but persisted status wins: a
	// resource stuck pending or errored is retried regardless.
	if p.SkipProcessed && f.Cache != nil && f.Cache.Contains(link) {
		existing, err := f.Resources.FindResourceByURL(ctx, task.TechnologyID, task.VersionID, link)
		if err != nil {
			if techdocs.ErrorCode(err) == techdocs.ENOTFOUND {
				return false, nil
			}
			return false, err
		}
		if !existing.Status.NeedsCrawl() {
			return false, nil
		}
		return true, f.enqueueCrawl(ctx, task, existing)
	}

	if !techdocs.ShouldCrawl(link, p.PrefixPath, p.AntiPaths, p.AntiKeywords) {
		f.cacheURL(p, link)
		return false, nil
	}

	existing, err := f.Resources.FindResourceByURL(ctx, task.TechnologyID, task.VersionID, link)
	switch {
	case err == nil:
		f.cacheURL(p, link)
		if !existing.Status.NeedsCrawl() {
			return false, nil
		}
		return true, f.enqueueCrawl(ctx, task, existing)
	case techdocs.ErrorCode(err) != techdocs.ENOTFOUND:
		return false, err
	}

	res := &techdocs.Resource{
		TechnologyID: task.TechnologyID,
		VersionID:    task.VersionID,
		URL:          link,
		Status:       techdocs.StatusPendingCrawl,
	}
	if err := f.Resources.CreateResource(ctx, res); err != nil {
		if techdocs.ErrorCode(err) != techdocs.ECONFLICT {
			return false, err
		}
		// Another worker discovered the same URL first; fall back to its
		// resource.
		res, err = f.Resources.FindResourceByURL(ctx, task.TechnologyID, task.VersionID, link)
		if err != nil {
			return false, err
		}
		f.cacheURL(p, link)
		if !res.Status.NeedsCrawl() {
			return false, nil
		}
		return true, f.enqueueCrawl(ctx, task, res)
	}
	f.events().ResourceStatusChanged(res.ID, res.Status)
	f.cacheURL(p, link)

	return true, f.enqueueCrawl(ctx, task, res)
}

// enqueueCrawl submits a follow-up crawl task carrying the parent task's
// filter configuration.
func (f *Frontier) enqueueCrawl(ctx context.Context, parent *techdocs.Task, res *techdocs.Resource) error {
	_, err := f.Scheduler.Enqueue(ctx, &techdocs.Task{
		Kind:         techdocs.TaskCrawlURL,
		TechnologyID: parent.TechnologyID,
		VersionID:    parent.VersionID,
		Payload: techdocs.TaskPayload{
			ResourceID:    res.ID,
			URL:           res.URL,
			PrefixPath:    parent.Payload.PrefixPath,
			AntiPaths:     parent.Payload.AntiPaths,
			AntiKeywords:  parent.Payload.AntiKeywords,
			SkipProcessed: parent.Payload.SkipProcessed,
		},
	})
	return err
}

// markSkipped transitions a resource to skipped and clears any content so a
// retroactively excluded page leaves nothing behind.
func (f *Frontier) markSkipped(ctx context.Context, res *techdocs.Resource) error {
	if res.Status == techdocs.StatusSkipped {
		return nil
	}
	empty := ""
	status := techdocs.StatusSkipped
	if _, err := f.Resources.UpdateResource(ctx, res.ID, techdocs.ResourceUpdate{
		Status:     &status,
		RawContent: &empty,
		Extracted:  &empty,
		Refined:    &empty,
	}); err != nil {
		return err
	}
	f.events().ResourceStatusChanged(res.ID, status)
	return nil
}

// setStatus persists a status transition and emits the change event.
func (f *Frontier) setStatus(ctx context.Context, id string, status techdocs.Status) (*techdocs.Resource, error) {
	res, err := f.Resources.UpdateResource(ctx, id, techdocs.ResourceUpdate{Status: &status})
	if err != nil {
		return nil, err
	}
	f.events().ResourceStatusChanged(id, status)
	return res, nil
}

func (f *Frontier) cacheURL(p techdocs.TaskPayload, url string) {
	if p.SkipProcessed && f.Cache != nil {
		f.Cache.Add(url)
	}
}

func (f *Frontier) events() techdocs.EventSink {
	if f.Events == nil {
		return techdocs.NopSink{}
	}
	return f.Events
}

// hostOf extracts the lowercased host from a URL, for logging and limiter
// keys.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return strings.ToLower(rawURL)
	}
	return strings.ToLower(u.Hostname())
}
