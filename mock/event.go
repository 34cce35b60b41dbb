package mock

import (
	"github.com/fwojciec/techdocs"
)

var _ techdocs.EventSink = (*EventSink)(nil)

// EventSink is a mock implementation of techdocs.EventSink. Unset functions
// are no-ops so tests only wire the events they assert on.
type EventSink struct {
	TaskCreatedFn           func(task *techdocs.Task)
	TaskUpdatedFn           func(taskID string, progress int, stage string)
	TaskCompletedFn         func(taskID string, result techdocs.TaskResult)
	TaskFailedFn            func(taskID string, errMsg string)
	TaskCancelledFn         func(taskID string)
	ResourceStatusChangedFn func(resourceID string, status techdocs.Status)
	NotifyFn                func(title, message, level string)
}

func (s *EventSink) TaskCreated(task *techdocs.Task) {
	if s.TaskCreatedFn != nil {
		s.TaskCreatedFn(task)
	}
}

func (s *EventSink) TaskUpdated(taskID string, progress int, stage string) {
	if s.TaskUpdatedFn != nil {
		s.TaskUpdatedFn(taskID, progress, stage)
	}
}

func (s *EventSink) TaskCompleted(taskID string, result techdocs.TaskResult) {
	if s.TaskCompletedFn != nil {
		s.TaskCompletedFn(taskID, result)
	}
}

func (s *EventSink) TaskFailed(taskID string, errMsg string) {
	if s.TaskFailedFn != nil {
		s.TaskFailedFn(taskID, errMsg)
	}
}

func (s *EventSink) TaskCancelled(taskID string) {
	if s.TaskCancelledFn != nil {
		s.TaskCancelledFn(taskID)
	}
}

func (s *EventSink) ResourceStatusChanged(resourceID string, status techdocs.Status) {
	if s.ResourceStatusChangedFn != nil {
		s.ResourceStatusChangedFn(resourceID, status)
	}
}

func (s *EventSink) Notify(title, message, level string) {
	if s.NotifyFn != nil {
		s.NotifyFn(title, message, level)
	}
}
