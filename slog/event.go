// Package slog provides logging implementations of service interfaces.
package slog

import (
	"log/slog"

	"github.com/fwojciec/techdocs"
)

// Ensure EventSink implements techdocs.EventSink.
var _ techdocs.EventSink = (*EventSink)(nil)

// EventSink logs engine lifecycle events through a structured logger. It can
// stand alone as the only sink or wrap another sink, logging each event
// before forwarding it.
type EventSink struct {
	next   techdocs.EventSink
	logger *slog.Logger
}

// NewEventSink creates an EventSink that logs events and forwards them to
// next. Pass nil to log without forwarding.
func NewEventSink(next techdocs.EventSink, logger *slog.Logger) *EventSink {
	if next == nil {
		next = techdocs.NopSink{}
	}
	return &EventSink{next: next, logger: logger}
}

// TaskCreated logs the queued task and forwards the event.
func (s *EventSink) TaskCreated(task *techdocs.Task) {
	s.logger.Info("task created",
		"task_id", task.ID,
		"kind", task.Kind,
		"url", task.Payload.URL,
	)
	s.next.TaskCreated(task)
}

// TaskUpdated logs task progress and forwards the event.
func (s *EventSink) TaskUpdated(taskID string, progress int, stage string) {
	s.logger.Debug("task progress",
		"task_id", taskID,
		"progress", progress,
		"stage", stage,
	)
	s.next.TaskUpdated(taskID, progress, stage)
}

// TaskCompleted logs the task result and forwards the event.
func (s *EventSink) TaskCompleted(taskID string, result techdocs.TaskResult) {
	s.logger.Info("task completed",
		"task_id", taskID,
		"links_queued", result.LinksQueued,
		"snippet_count", result.SnippetCount,
	)
	s.next.TaskCompleted(taskID, result)
}

// TaskFailed logs the task failure and forwards the event.
func (s *EventSink) TaskFailed(taskID string, errMsg string) {
	s.logger.Error("task failed",
		"task_id", taskID,
		"err", errMsg,
	)
	s.next.TaskFailed(taskID, errMsg)
}

// TaskCancelled logs the cancellation and forwards the event.
func (s *EventSink) TaskCancelled(taskID string) {
	s.logger.Info("task cancelled", "task_id", taskID)
	s.next.TaskCancelled(taskID)
}

// ResourceStatusChanged logs the status transition and forwards the event.
func (s *EventSink) ResourceStatusChanged(resourceID string, status techdocs.Status) {
	s.logger.Debug("resource status changed",
		"resource_id", resourceID,
		"status", status,
	)
	s.next.ResourceStatusChanged(resourceID, status)
}

// Notify logs the job-level milestone and forwards the event.
func (s *EventSink) Notify(title, message, level string) {
	s.logger.Info("notification",
		"title", title,
		"message", message,
		"level", level,
	)
	s.next.Notify(title, message, level)
}
