// Package crawl provides crawl orchestration: a bounded-concurrency task
// scheduler, a URL frontier that decides what gets crawled, and the
// per-resource status transitions that make crawling idempotent and
// resumable.
package crawl

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fwojciec/techdocs"
)

// Compile-time interface verification.
var _ techdocs.TaskScheduler = (*Scheduler)(nil)

// Handler executes a dequeued task. Implementations must check the task's
// cancellation token at safe points and return ECANCELLED when they stop
// early because of it.
type Handler interface {
	HandleTask(ctx context.Context, task *techdocs.Task) (techdocs.TaskResult, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, task *techdocs.Task) (techdocs.TaskResult, error)

// HandleTask implements Handler.
func (f HandlerFunc) HandleTask(ctx context.Context, task *techdocs.Task) (techdocs.TaskResult, error) {
	return f(ctx, task)
}

// Scheduler runs a fixed pool of symmetric workers competing for tasks off
// one shared unbounded queue. No task is pinned to a worker. Each task owns
// a cancellation token created at enqueue time; cancellation is cooperative
// and observed at handler checkpoints, never by preemption.
type Scheduler struct {
	handler Handler
	events  techdocs.EventSink
	workers int

	queue *taskQueue

	// mu guards active. Writers are rare (insert at start, remove at end)
	// so reads during progress checks stay cheap.
	mu     sync.RWMutex
	active map[string]*techdocs.Task

	g      *errgroup.Group
	cancel context.CancelFunc
}

// NewScheduler creates a Scheduler dispatching to handler and reporting to
// events. If workers <= 0 the pool is sized to the available hardware
// concurrency. Call Open to start the pool and Close to drain it.
func NewScheduler(workers int, handler Handler, events techdocs.EventSink) *Scheduler {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if events == nil {
		events = techdocs.NopSink{}
	}
	return &Scheduler{
		handler: handler,
		events:  events,
		workers: workers,
		queue:   newTaskQueue(),
		active:  make(map[string]*techdocs.Task),
	}
}

// Open starts the worker pool. Workers run until Close is called.
func (s *Scheduler) Open(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	g, gctx := errgroup.WithContext(ctx)
	s.g = g
	for i := 0; i < s.workers; i++ {
		g.Go(func() error {
			s.work(gctx)
			return nil
		})
	}
}

// Close stops accepting tasks, interrupts blocked workers, and waits for
// in-flight handlers to return.
func (s *Scheduler) Close() error {
	s.queue.close()
	if s.cancel != nil {
		s.cancel()
	}
	if s.g != nil {
		return s.g.Wait()
	}
	return nil
}

// Enqueue submits a task, assigns its identity, and emits a created event
// before the task is physically handed to a worker so observers see queue
// depth growth even under backpressure.
func (s *Scheduler) Enqueue(ctx context.Context, task *techdocs.Task) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !task.Kind.Valid() {
		return "", techdocs.Errorf(techdocs.EINVALID, "unknown task kind %q", task.Kind)
	}

	task.ID = uuid.New().String()
	task.Status = techdocs.TaskQueued
	task.CreatedAt = time.Now().UTC()

	s.mu.Lock()
	s.active[task.ID] = task
	s.mu.Unlock()

	s.events.TaskCreated(task)

	if ok := s.queue.push(task); !ok {
		s.mu.Lock()
		delete(s.active, task.ID)
		s.mu.Unlock()
		return "", techdocs.Errorf(techdocs.EINTERNAL, "scheduler is closed")
	}

	return task.ID, nil
}

// Cancel flips the cancellation token of a queued or running task. It does
// not preempt in-progress blocking I/O; the flag is observed at the next
// checkpoint.
func (s *Scheduler) Cancel(taskID string) error {
	s.mu.RLock()
	task, ok := s.active[taskID]
	s.mu.RUnlock()
	if !ok {
		return techdocs.Errorf(techdocs.ENOTFOUND, "task %q not found", taskID)
	}
	task.Token().Cancel()
	return nil
}

// ActiveTasks returns a snapshot of all queued and running tasks.
func (s *Scheduler) ActiveTasks() []*techdocs.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]*techdocs.Task, 0, len(s.active))
	for _, t := range s.active {
		tasks = append(tasks, t)
	}
	return tasks
}

// QueueLen returns the number of tasks waiting for a worker.
func (s *Scheduler) QueueLen() int {
	return s.queue.len()
}

// work is the worker loop: pop, check cancellation, dispatch, report.
func (s *Scheduler) work(ctx context.Context) {
	for {
		task, ok := s.queue.pop(ctx)
		if !ok {
			return
		}

		// A task cancelled while still queued is dropped without side
		// effects beyond its terminal event.
		if task.Token().Cancelled() {
			s.finish(task, techdocs.TaskCancelled, techdocs.TaskResult{}, nil)
			continue
		}

		s.mu.Lock()
		task.Status = techdocs.TaskRunning
		s.mu.Unlock()
		s.events.TaskUpdated(task.ID, 0, "started")

		result, err := s.dispatch(ctx, task)

		switch {
		case task.Token().Cancelled() || techdocs.ErrorCode(err) == techdocs.ECANCELLED:
			s.finish(task, techdocs.TaskCancelled, techdocs.TaskResult{}, nil)
		case err != nil:
			s.finish(task, techdocs.TaskFailed, techdocs.TaskResult{}, err)
		default:
			s.finish(task, techdocs.TaskCompleted, result, nil)
		}
	}
}

// dispatch invokes the handler, converting panics into errors so one
// failing task cannot take down the pool.
func (s *Scheduler) dispatch(ctx context.Context, task *techdocs.Task) (result techdocs.TaskResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = techdocs.Errorf(techdocs.EINTERNAL, "task handler panic: %v", r)
		}
	}()
	return s.handler.HandleTask(ctx, task)
}

// finish records the terminal status, emits exactly one terminal event, and
// removes the task's bookkeeping.
func (s *Scheduler) finish(task *techdocs.Task, status techdocs.TaskStatus, result techdocs.TaskResult, err error) {
	s.mu.Lock()
	task.Status = status
	delete(s.active, task.ID)
	s.mu.Unlock()

	switch status {
	case techdocs.TaskCancelled:
		s.events.TaskCancelled(task.ID)
	case techdocs.TaskFailed:
		s.events.TaskFailed(task.ID, fmt.Sprint(err))
	default:
		s.events.TaskCompleted(task.ID, result)
	}
}

// taskQueue is an unbounded multi-producer/multi-consumer FIFO queue.
type taskQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []*techdocs.Task
	closed bool
}

func newTaskQueue() *taskQueue {
	q := &taskQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push appends a task. Returns false if the queue is closed.
func (q *taskQueue) push(task *techdocs.Task) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.items = append(q.items, task)
	q.cond.Signal()
	return true
}

// pop blocks until a task is available, the queue is closed, or ctx is
// done. The bool result is false when no task will ever be returned.
func (q *taskQueue) pop(ctx context.Context) (*techdocs.Task, bool) {
	// Wake blocked waiters when the context is cancelled.
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 {
		if q.closed || ctx.Err() != nil {
			return nil, false
		}
		q.cond.Wait()
	}
	task := q.items[0]
	q.items = q.items[1:]
	return task, true
}

func (q *taskQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *taskQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.cond.Broadcast()
	q.mu.Unlock()
}
