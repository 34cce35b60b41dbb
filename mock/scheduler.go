package mock

import (
	"context"

	"github.com/fwojciec/techdocs"
)

var _ techdocs.TaskScheduler = (*TaskScheduler)(nil)

// TaskScheduler is a mock implementation of techdocs.TaskScheduler.
type TaskScheduler struct {
	EnqueueFn     func(ctx context.Context, task *techdocs.Task) (string, error)
	CancelFn      func(taskID string) error
	ActiveTasksFn func() []*techdocs.Task
}

func (s *TaskScheduler) Enqueue(ctx context.Context, task *techdocs.Task) (string, error) {
	return s.EnqueueFn(ctx, task)
}

func (s *TaskScheduler) Cancel(taskID string) error {
	return s.CancelFn(taskID)
}

func (s *TaskScheduler) ActiveTasks() []*techdocs.Task {
	if s.ActiveTasksFn == nil {
		return nil
	}
	return s.ActiveTasksFn()
}
