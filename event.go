package techdocs

// Notification levels for EventSink.Notify.
const (
	NotifyInfo    = "info"
	NotifySuccess = "success"
	NotifyWarning = "warning"
	NotifyError   = "error"
)

// EventSink receives engine lifecycle events. All methods are
// fire-and-forget and best-effort: a delivery failure must never fail the
// task it reports on, so none of them return errors. Implementations must
// be safe for concurrent use.
type EventSink interface {
	// TaskCreated fires when a task is queued, before it is handed to a
	// worker, so observers see queue depth growth even under backpressure.
	TaskCreated(task *Task)

	// TaskUpdated reports progress (0-100) and a short stage label while a
	// task runs.
	TaskUpdated(taskID string, progress int, stage string)

	// TaskCompleted, TaskFailed, and TaskCancelled report terminal
	// outcomes. Exactly one of them fires per task.
	TaskCompleted(taskID string, result TaskResult)
	TaskFailed(taskID string, errMsg string)
	TaskCancelled(taskID string)

	// ResourceStatusChanged fires after a resource's lifecycle state is
	// persisted.
	ResourceStatusChanged(resourceID string, status Status)

	// Notify surfaces a human-readable job-level milestone (start,
	// bulk-stop, filter application) so a UI need not poll.
	Notify(title, message, level string)
}

// NopSink is an EventSink that discards all events.
type NopSink struct{}

var _ EventSink = (*NopSink)(nil)

func (NopSink) TaskCreated(*Task)                    {}
func (NopSink) TaskUpdated(string, int, string)      {}
func (NopSink) TaskCompleted(string, TaskResult)     {}
func (NopSink) TaskFailed(string, string)            {}
func (NopSink) TaskCancelled(string)                 {}
func (NopSink) ResourceStatusChanged(string, Status) {}
func (NopSink) Notify(title, message, level string)  {}
