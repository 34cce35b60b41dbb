package crawl

import (
	"context"
	"fmt"

	"github.com/fwojciec/techdocs"
)

// Service is the orchestration surface callers use to start and stop crawl
// jobs, apply filters retroactively, and submit post-crawl processing.
type Service struct {
	Scheduler techdocs.TaskScheduler
	Registry  *Registry
	Resources techdocs.ResourceService
	Settings  techdocs.SettingsService
	Events    techdocs.EventSink
}

// SubmitCrawl starts a crawl job for a (technology, version) pair. The seed
// URL is validated synchronously: a seed rejected by its own filters is an
// EINVALID error rather than a job that silently does nothing. The seed
// resource is created or reused, so submitting the same seed twice never
// creates a duplicate.
//
// Returns the ID of the seed crawl task.
func (s *Service) SubmitCrawl(ctx context.Context, cfg techdocs.CrawlConfig) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	seed, err := techdocs.NormalizeURL(cfg.StartURL)
	if err != nil {
		return "", err
	}
	if !techdocs.ShouldCrawl(seed, cfg.PrefixPath, cfg.AntiPaths, cfg.AntiKeywords) {
		return "", techdocs.Errorf(techdocs.EINVALID, "start URL %s is rejected by the configured filters", seed)
	}

	res, err := s.seedResource(ctx, cfg, seed)
	if err != nil {
		return "", err
	}

	s.Registry.Start(JobKey{TechnologyID: cfg.TechnologyID, VersionID: cfg.VersionID})

	taskID, err := s.Scheduler.Enqueue(ctx, &techdocs.Task{
		Kind:         techdocs.TaskCrawlURL,
		TechnologyID: cfg.TechnologyID,
		VersionID:    cfg.VersionID,
		Payload: techdocs.TaskPayload{
			ResourceID:    res.ID,
			URL:           seed,
			PrefixPath:    cfg.PrefixPath,
			AntiPaths:     cfg.AntiPaths,
			AntiKeywords:  cfg.AntiKeywords,
			SkipProcessed: cfg.SkipProcessed,
		},
	})
	if err != nil {
		return "", err
	}

	s.events().Notify("Crawling Started", fmt.Sprintf("Started crawling from %s", seed), techdocs.NotifyInfo)
	return taskID, nil
}

// seedResource finds or creates the resource for the seed URL. A seed whose
// resource already sits in a retryable state is moved back to pending_crawl
// so the new run actually fetches it.
func (s *Service) seedResource(ctx context.Context, cfg techdocs.CrawlConfig, seed string) (*techdocs.Resource, error) {
	res, err := s.Resources.FindResourceByURL(ctx, cfg.TechnologyID, cfg.VersionID, seed)
	switch {
	case err == nil:
		if res.Status.Retryable() && res.Status != techdocs.StatusPendingCrawl {
			status := techdocs.StatusPendingCrawl
			res, err = s.Resources.UpdateResource(ctx, res.ID, techdocs.ResourceUpdate{Status: &status})
			if err != nil {
				return nil, err
			}
			s.events().ResourceStatusChanged(res.ID, status)
		}
		return res, nil
	case techdocs.ErrorCode(err) != techdocs.ENOTFOUND:
		return nil, err
	}

	res = &techdocs.Resource{
		TechnologyID: cfg.TechnologyID,
		VersionID:    cfg.VersionID,
		URL:          seed,
		Status:       techdocs.StatusPendingCrawl,
	}
	if err := s.Resources.CreateResource(ctx, res); err != nil {
		if techdocs.ErrorCode(err) != techdocs.ECONFLICT {
			return nil, err
		}
		return s.Resources.FindResourceByURL(ctx, cfg.TechnologyID, cfg.VersionID, seed)
	}
	s.events().ResourceStatusChanged(res.ID, res.Status)
	return res, nil
}

// StopJob stops the crawl job for one (technology, version) pair: the job is
// deactivated in the registry and every queued or running crawl task scoped
// to the pair is cancelled. Tasks for other jobs are untouched.
func (s *Service) StopJob(ctx context.Context, technologyID, versionID string) error {
	key := JobKey{TechnologyID: technologyID, VersionID: versionID}
	known := s.Registry.Stop(key)

	cancelled := 0
	for _, task := range s.Scheduler.ActiveTasks() {
		if task.Kind != techdocs.TaskCrawlURL {
			continue
		}
		if task.TechnologyID != technologyID || task.VersionID != versionID {
			continue
		}
		if err := s.Scheduler.Cancel(task.ID); err == nil {
			cancelled++
		}
	}

	if !known && cancelled == 0 {
		return techdocs.Errorf(techdocs.ENOTFOUND, "no active crawl for technology %s version %s", technologyID, versionID)
	}

	s.events().Notify("Crawling Stopped", fmt.Sprintf("Stopped crawling, %d tasks cancelled", cancelled), techdocs.NotifyInfo)
	return nil
}

// StopAll stops every active crawl job and cancels all queued and running
// crawl tasks regardless of scope.
func (s *Service) StopAll(ctx context.Context) error {
	jobs := s.Registry.StopAll()

	cancelled := 0
	for _, task := range s.Scheduler.ActiveTasks() {
		if task.Kind != techdocs.TaskCrawlURL {
			continue
		}
		if err := s.Scheduler.Cancel(task.ID); err == nil {
			cancelled++
		}
	}

	if jobs == 0 && cancelled == 0 {
		return techdocs.Errorf(techdocs.ENOTFOUND, "no active crawling processes")
	}

	s.events().Notify("Crawling Stopped", fmt.Sprintf("Stopped %d jobs, %d tasks cancelled", jobs, cancelled), techdocs.NotifyInfo)
	return nil
}

// CancelTask cancels one task by ID, whatever its kind.
func (s *Service) CancelTask(taskID string) error {
	return s.Scheduler.Cancel(taskID)
}

// ActiveTasks returns a snapshot of all queued and running tasks.
func (s *Service) ActiveTasks() []*techdocs.Task {
	return s.Scheduler.ActiveTasks()
}

// ApplyFilters re-runs the version's saved filters over all its discovered
// resources, marking newly excluded ones as skipped with their content
// cleared. Resources in terminal states are left alone. Returns the number
// of resources skipped.
func (s *Service) ApplyFilters(ctx context.Context, versionID string) (int, error) {
	settings, err := s.Settings.FindSettingsForVersion(ctx, versionID)
	if err != nil {
		return 0, err
	}

	resources, err := s.Resources.FindResourcesForVersion(ctx, versionID)
	if err != nil {
		return 0, err
	}

	skipped := 0
	for _, res := range resources {
		if res.Status.Terminal() {
			continue
		}
		if techdocs.ShouldCrawl(res.URL, settings.PrefixPath, settings.AntiPaths, settings.AntiKeywords) {
			continue
		}

		empty := ""
		status := techdocs.StatusSkipped
		if _, err := s.Resources.UpdateResource(ctx, res.ID, techdocs.ResourceUpdate{
			Status:     &status,
			RawContent: &empty,
			Extracted:  &empty,
			Refined:    &empty,
		}); err != nil {
			return skipped, err
		}
		s.events().ResourceStatusChanged(res.ID, status)
		skipped++
	}

	if skipped > 0 {
		s.events().Notify("Filters Applied", fmt.Sprintf("%d resources skipped", skipped), techdocs.NotifyInfo)
	}
	return skipped, nil
}

// SubmitClean queues a clean_content task per resource. Resources are moved
// to pending_markdown where the transition is legal; resources mid-flight
// are queued as-is and the handler resolves the rest.
func (s *Service) SubmitClean(ctx context.Context, resourceIDs []string) ([]string, error) {
	return s.submitBatch(ctx, resourceIDs, techdocs.TaskCleanContent, techdocs.StatusPendingMarkdown)
}

// SubmitSnippets queues a generate_snippets task per resource.
func (s *Service) SubmitSnippets(ctx context.Context, resourceIDs []string) ([]string, error) {
	return s.submitBatch(ctx, resourceIDs, techdocs.TaskGenerateSnippets, techdocs.StatusPendingProcessing)
}

func (s *Service) submitBatch(ctx context.Context, resourceIDs []string, kind techdocs.TaskKind, pending techdocs.Status) ([]string, error) {
	taskIDs := make([]string, 0, len(resourceIDs))
	for _, id := range resourceIDs {
		res, err := s.Resources.FindResourceByID(ctx, id)
		if err != nil {
			return taskIDs, err
		}

		if res.Status.CanTransitionTo(pending) {
			if _, err := s.Resources.UpdateResource(ctx, res.ID, techdocs.ResourceUpdate{Status: &pending}); err != nil {
				return taskIDs, err
			}
			s.events().ResourceStatusChanged(res.ID, pending)
		}

		taskID, err := s.Scheduler.Enqueue(ctx, &techdocs.Task{
			Kind:         kind,
			TechnologyID: res.TechnologyID,
			VersionID:    res.VersionID,
			Payload:      techdocs.TaskPayload{ResourceID: res.ID, URL: res.URL},
		})
		if err != nil {
			return taskIDs, err
		}
		taskIDs = append(taskIDs, taskID)
	}
	return taskIDs, nil
}

func (s *Service) events() techdocs.EventSink {
	if s.Events == nil {
		return techdocs.NopSink{}
	}
	return s.Events
}
