package techdocs

import (
	"context"
	"sync/atomic"
	"time"
)

// TaskKind identifies the type of work a task carries. The kind set is
// closed; dispatch is a single switch, not an open hierarchy.
type TaskKind string

// Task kinds.
const (
	TaskCrawlURL         TaskKind = "crawl_url"
	TaskCleanContent     TaskKind = "clean_content"
	TaskGenerateSnippets TaskKind = "generate_snippets"
)

// Valid reports whether k is a known task kind.
func (k TaskKind) Valid() bool {
	switch k {
	case TaskCrawlURL, TaskCleanContent, TaskGenerateSnippets:
		return true
	}
	return false
}

// TaskStatus tracks scheduler-level task lifecycle.
type TaskStatus string

// Task lifecycle states: Queued → Running → {Completed | Failed | Cancelled}.
const (
	TaskQueued    TaskStatus = "queued"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
	TaskCancelled TaskStatus = "cancelled"
)

// TaskPayload carries kind-specific parameters. Every kind references the
// target resource; crawl tasks additionally carry the active filter
// configuration so it can be re-validated at execution time.
type TaskPayload struct {
	ResourceID    string   `json:"resourceId"`
	URL           string   `json:"url,omitempty"`
	PrefixPath    string   `json:"prefixPath,omitempty"`
	AntiPaths     []string `json:"antiPaths,omitempty"`
	AntiKeywords  []string `json:"antiKeywords,omitempty"`
	SkipProcessed bool     `json:"skipProcessed,omitempty"`
}

// Task is one unit of scheduler work.
type Task struct {
	ID           string      `json:"id"`
	Kind         TaskKind    `json:"kind"`
	Status       TaskStatus  `json:"status"`
	Progress     int         `json:"progress"` // 0-100
	TechnologyID string      `json:"technologyId,omitempty"`
	VersionID    string      `json:"versionId,omitempty"`
	Payload      TaskPayload `json:"payload"`
	CreatedAt    time.Time   `json:"createdAt"`

	cancel CancelToken
}

// Token returns the task's shared cancellation token. The token is created
// with the task at enqueue time and checked cooperatively by workers at
// safe points.
func (t *Task) Token() *CancelToken {
	return &t.cancel
}

// CancelToken is a cooperative, flag-based cancellation signal. Cancellation
// does not preempt in-progress blocking calls; it is observed at the next
// checkpoint (before fetch, before each link enqueue, before retry sleeps).
type CancelToken struct {
	flag atomic.Bool
}

// Cancel flips the token. Safe to call from any goroutine, repeatedly.
func (t *CancelToken) Cancel() {
	t.flag.Store(true)
}

// Cancelled reports whether the token has been flipped.
func (t *CancelToken) Cancelled() bool {
	return t.flag.Load()
}

// TaskResult summarizes a completed task for observers.
type TaskResult struct {
	ResourceID   string `json:"resourceId,omitempty"`
	LinksQueued  int    `json:"linksQueued,omitempty"`
	SnippetCount int    `json:"snippetCount,omitempty"`
}

// TaskScheduler schedules tasks onto a bounded pool of concurrent workers
// competing for one shared queue.
type TaskScheduler interface {
	// Enqueue submits a task and returns its ID. A created event is emitted
	// before the task is handed to a worker.
	Enqueue(ctx context.Context, task *Task) (string, error)

	// Cancel flips the cancellation token of a queued or running task.
	// Returns ENOTFOUND if no such task is tracked.
	Cancel(taskID string) error

	// ActiveTasks returns a snapshot of all queued and running tasks.
	ActiveTasks() []*Task
}
