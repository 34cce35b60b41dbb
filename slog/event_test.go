package slog_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fwojciec/techdocs"
	"github.com/fwojciec/techdocs/mock"
	techslog "github.com/fwojciec/techdocs/slog"
)

func TestEventSink_LogsAndForwards(t *testing.T) {
	t.Parallel()

	t.Run("logs task lifecycle events", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		sink := techslog.NewEventSink(nil, logger)

		task := &techdocs.Task{
			ID:   "task-1",
			Kind: techdocs.TaskCrawlURL,
			Payload: techdocs.TaskPayload{
				URL: "https://example.com/docs",
			},
		}

		sink.TaskCreated(task)
		sink.TaskCompleted("task-1", techdocs.TaskResult{LinksQueued: 3})
		sink.TaskFailed("task-2", "fetch timed out")
		sink.TaskCancelled("task-3")
		sink.Notify("Crawling Started", "started", techdocs.NotifyInfo)

		output := buf.String()
		assert.Contains(t, output, "task created")
		assert.Contains(t, output, "task_id=task-1")
		assert.Contains(t, output, "kind=crawl_url")
		assert.Contains(t, output, "links_queued=3")
		assert.Contains(t, output, "task failed")
		assert.Contains(t, output, "err=\"fetch timed out\"")
		assert.Contains(t, output, "task cancelled")
		assert.Contains(t, output, "title=\"Crawling Started\"")
	})

	t.Run("forwards events to the wrapped sink", func(t *testing.T) {
		t.Parallel()

		var completed, failed []string
		next := &mock.EventSink{
			TaskCompletedFn: func(taskID string, result techdocs.TaskResult) {
				completed = append(completed, taskID)
			},
			TaskFailedFn: func(taskID string, errMsg string) {
				failed = append(failed, taskID)
			},
		}

		logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		sink := techslog.NewEventSink(next, logger)

		sink.TaskCompleted("task-1", techdocs.TaskResult{})
		sink.TaskFailed("task-2", "boom")

		assert.Equal(t, []string{"task-1"}, completed)
		assert.Equal(t, []string{"task-2"}, failed)
	})

	t.Run("nil next is safe", func(t *testing.T) {
		t.Parallel()

		logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		sink := techslog.NewEventSink(nil, logger)

		sink.TaskUpdated("task-1", 50, "crawling")
		sink.ResourceStatusChanged("res-1", techdocs.StatusCrawled)
	})
}
