package crawl_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/techdocs"
	"github.com/fwojciec/techdocs/crawl"
	"github.com/fwojciec/techdocs/mock"
)

// terminalRecorder collects terminal task events so tests can assert that
// exactly one fires per task.
type terminalRecorder struct {
	mu        sync.Mutex
	completed []string
	failed    []string
	cancelled []string
	done      chan string
}

func newTerminalRecorder() *terminalRecorder {
	return &terminalRecorder{done: make(chan string, 100)}
}

func (r *terminalRecorder) sink() *mock.EventSink {
	return &mock.EventSink{
		TaskCompletedFn: func(taskID string, result techdocs.TaskResult) {
			r.mu.Lock()
			r.completed = append(r.completed, taskID)
			r.mu.Unlock()
			r.done <- taskID
		},
		TaskFailedFn: func(taskID string, errMsg string) {
			r.mu.Lock()
			r.failed = append(r.failed, taskID)
			r.mu.Unlock()
			r.done <- taskID
		},
		TaskCancelledFn: func(taskID string) {
			r.mu.Lock()
			r.cancelled = append(r.cancelled, taskID)
			r.mu.Unlock()
			r.done <- taskID
		},
	}
}

// waitTerminal blocks until n terminal events have fired.
func (r *terminalRecorder) waitTerminal(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-r.done:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for terminal event %d of %d", i+1, n)
		}
	}
}

func (r *terminalRecorder) counts() (completed, failed, cancelled int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.completed), len(r.failed), len(r.cancelled)
}

func TestScheduler_Enqueue(t *testing.T) {
	t.Parallel()

	t.Run("runs task and emits completed event", func(t *testing.T) {
		t.Parallel()

		rec := newTerminalRecorder()
		handler := crawl.HandlerFunc(func(ctx context.Context, task *techdocs.Task) (techdocs.TaskResult, error) {
			return techdocs.TaskResult{LinksQueued: 3}, nil
		})

		s := crawl.NewScheduler(2, handler, rec.sink())
		s.Open(context.Background())
		defer s.Close()

		taskID, err := s.Enqueue(context.Background(), &techdocs.Task{Kind: techdocs.TaskCrawlURL})
		require.NoError(t, err)
		assert.NotEmpty(t, taskID)

		rec.waitTerminal(t, 1)
		completed, failed, cancelled := rec.counts()
		assert.Equal(t, 1, completed)
		assert.Zero(t, failed)
		assert.Zero(t, cancelled)
	})

	t.Run("rejects unknown task kind", func(t *testing.T) {
		t.Parallel()

		s := crawl.NewScheduler(1, nil, nil)
		_, err := s.Enqueue(context.Background(), &techdocs.Task{Kind: "bogus"})
		require.Error(t, err)
		assert.Equal(t, techdocs.EINVALID, techdocs.ErrorCode(err))
	})

	t.Run("fails after Close", func(t *testing.T) {
		t.Parallel()

		s := crawl.NewScheduler(1, crawl.HandlerFunc(func(ctx context.Context, task *techdocs.Task) (techdocs.TaskResult, error) {
			return techdocs.TaskResult{}, nil
		}), nil)
		s.Open(context.Background())
		require.NoError(t, s.Close())

		_, err := s.Enqueue(context.Background(), &techdocs.Task{Kind: techdocs.TaskCrawlURL})
		require.Error(t, err)
		assert.Equal(t, techdocs.EINTERNAL, techdocs.ErrorCode(err))
	})
}

func TestScheduler_TerminalEvents(t *testing.T) {
	t.Parallel()

	t.Run("handler error emits failed", func(t *testing.T) {
		t.Parallel()

		rec := newTerminalRecorder()
		handler := crawl.HandlerFunc(func(ctx context.Context, task *techdocs.Task) (techdocs.TaskResult, error) {
			return techdocs.TaskResult{}, errors.New("boom")
		})

		s := crawl.NewScheduler(1, handler, rec.sink())
		s.Open(context.Background())
		defer s.Close()

		_, err := s.Enqueue(context.Background(), &techdocs.Task{Kind: techdocs.TaskCrawlURL})
		require.NoError(t, err)

		rec.waitTerminal(t, 1)
		completed, failed, cancelled := rec.counts()
		assert.Zero(t, completed)
		assert.Equal(t, 1, failed)
		assert.Zero(t, cancelled)
	})

	t.Run("handler panic emits failed instead of crashing the pool", func(t *testing.T) {
		t.Parallel()

		rec := newTerminalRecorder()
		var calls atomic.Int32
		handler := crawl.HandlerFunc(func(ctx context.Context, task *techdocs.Task) (techdocs.TaskResult, error) {
			if calls.Add(1) == 1 {
				panic("handler bug")
			}
			return techdocs.TaskResult{}, nil
		})

		s := crawl.NewScheduler(1, handler, rec.sink())
		s.Open(context.Background())
		defer s.Close()

		_, err := s.Enqueue(context.Background(), &techdocs.Task{Kind: techdocs.TaskCrawlURL})
		require.NoError(t, err)
		_, err = s.Enqueue(context.Background(), &techdocs.Task{Kind: techdocs.TaskCrawlURL})
		require.NoError(t, err)

		rec.waitTerminal(t, 2)
		completed, failed, _ := rec.counts()
		assert.Equal(t, 1, failed, "panicking task should fail")
		assert.Equal(t, 1, completed, "pool should survive and run the next task")
	})

	t.Run("ECANCELLED from handler emits cancelled", func(t *testing.T) {
		t.Parallel()

		rec := newTerminalRecorder()
		handler := crawl.HandlerFunc(func(ctx context.Context, task *techdocs.Task) (techdocs.TaskResult, error) {
			return techdocs.TaskResult{}, techdocs.Errorf(techdocs.ECANCELLED, "stopped at checkpoint")
		})

		s := crawl.NewScheduler(1, handler, rec.sink())
		s.Open(context.Background())
		defer s.Close()

		_, err := s.Enqueue(context.Background(), &techdocs.Task{Kind: techdocs.TaskCrawlURL})
		require.NoError(t, err)

		rec.waitTerminal(t, 1)
		_, failed, cancelled := rec.counts()
		assert.Zero(t, failed)
		assert.Equal(t, 1, cancelled)
	})
}

func TestScheduler_Cancel(t *testing.T) {
	t.Parallel()

	t.Run("cancelling a queued task drops it without running the handler", func(t *testing.T) {
		t.Parallel()

		rec := newTerminalRecorder()
		block := make(chan struct{})
		var ran atomic.Int32
		handler := crawl.HandlerFunc(func(ctx context.Context, task *techdocs.Task) (techdocs.TaskResult, error) {
			ran.Add(1)
			<-block
			return techdocs.TaskResult{}, nil
		})

		// One worker: the first task occupies it while the second waits.
		s := crawl.NewScheduler(1, handler, rec.sink())
		s.Open(context.Background())
		defer s.Close()

		_, err := s.Enqueue(context.Background(), &techdocs.Task{Kind: techdocs.TaskCrawlURL})
		require.NoError(t, err)

		queuedID, err := s.Enqueue(context.Background(), &techdocs.Task{Kind: techdocs.TaskCrawlURL})
		require.NoError(t, err)

		require.NoError(t, s.Cancel(queuedID))
		close(block)

		rec.waitTerminal(t, 2)
		completed, failed, cancelled := rec.counts()
		assert.Equal(t, 1, completed)
		assert.Zero(t, failed)
		assert.Equal(t, 1, cancelled)
		assert.Equal(t, int32(1), ran.Load(), "cancelled task should never reach the handler")
	})

	t.Run("unknown task returns ENOTFOUND", func(t *testing.T) {
		t.Parallel()

		s := crawl.NewScheduler(1, nil, nil)
		err := s.Cancel("no-such-task")
		require.Error(t, err)
		assert.Equal(t, techdocs.ENOTFOUND, techdocs.ErrorCode(err))
	})
}

func TestScheduler_ActiveTasks(t *testing.T) {
	t.Parallel()

	rec := newTerminalRecorder()
	block := make(chan struct{})
	handler := crawl.HandlerFunc(func(ctx context.Context, task *techdocs.Task) (techdocs.TaskResult, error) {
		<-block
		return techdocs.TaskResult{}, nil
	})

	s := crawl.NewScheduler(1, handler, rec.sink())
	s.Open(context.Background())
	defer s.Close()

	id1, err := s.Enqueue(context.Background(), &techdocs.Task{Kind: techdocs.TaskCrawlURL})
	require.NoError(t, err)
	id2, err := s.Enqueue(context.Background(), &techdocs.Task{Kind: techdocs.TaskCleanContent})
	require.NoError(t, err)

	ids := make(map[string]bool)
	for _, task := range s.ActiveTasks() {
		ids[task.ID] = true
	}
	assert.True(t, ids[id1])
	assert.True(t, ids[id2])

	close(block)
	rec.waitTerminal(t, 2)
	assert.Empty(t, s.ActiveTasks())
}
