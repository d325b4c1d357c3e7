// Package syncq pushes local state changes to the remote store. Writes are
// best effort and at most once: a task that keeps failing is dropped, never
// replayed, and the local state stays authoritative.
package syncq

import (
	"context"
	"sync"
	"time"

	"github.com/gravityplanner/gravity/internal/constants"
	"github.com/gravityplanner/gravity/internal/logger"
)

// Status is the coarse connection state surfaced to the UI.
type Status string

const (
	StatusOffline Status = "offline"
	StatusSyncing Status = "syncing"
	StatusSynced  Status = "synced"
)

// Task is one remote write. Name is used for logging only.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Queue is a FIFO of remote writes drained by a single worker goroutine, so
// writes reach the remote in dispatch order.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	tasks  []Task
	closed bool

	notify           func(Status)
	retryBackoff     time.Duration
	shutdownComplete chan struct{}
}

// New constructs a queue. notify may be nil.
func New(notify func(Status)) *Queue {
	q := &Queue{
		notify:           notify,
		retryBackoff:     500 * time.Millisecond,
		shutdownComplete: make(chan struct{}),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends a task. Enqueueing after shutdown drops the task.
func (q *Queue) Enqueue(task Task) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		logger.Warn("sync queue is shut down, dropping task", "task", task.Name)
		return
	}
	q.tasks = append(q.tasks, task)
	q.cond.Signal()
}

// Len returns the number of queued tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Start launches the worker loop. It should be called in a goroutine; cancel
// the context to stop it, then Wait for the in-flight task to finish.
func (q *Queue) Start(ctx context.Context) {
	defer close(q.shutdownComplete)

	go func() {
		<-ctx.Done()
		q.mu.Lock()
		q.closed = true
		q.cond.Broadcast()
		q.mu.Unlock()
	}()

	for {
		task, ok := q.next()
		if !ok {
			return
		}
		q.run(ctx, task)
	}
}

// Wait blocks until the worker has stopped.
func (q *Queue) Wait() {
	<-q.shutdownComplete
}

func (q *Queue) next() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.tasks) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.tasks) == 0 {
		return Task{}, false
	}
	task := q.tasks[0]
	q.tasks = q.tasks[1:]
	return task, true
}

// run executes a task with bounded retries. A task that exhausts its
// attempts is dropped and the failure logged.
func (q *Queue) run(ctx context.Context, task Task) {
	q.setStatus(StatusSyncing)

	var err error
	for attempt := 1; attempt <= constants.SyncMaxAttempts; attempt++ {
		if err = task.Run(ctx); err == nil {
			if q.Len() == 0 {
				q.setStatus(StatusSynced)
			}
			return
		}
		if ctx.Err() != nil {
			break
		}
		logger.Warn("sync task failed", "task", task.Name, "attempt", attempt, "error", err)
		if attempt < constants.SyncMaxAttempts {
			select {
			case <-ctx.Done():
			case <-time.After(q.retryBackoff * time.Duration(attempt)):
			}
		}
	}

	logger.Error("sync task dropped", "task", task.Name, "error", err)
	q.setStatus(StatusOffline)
}

func (q *Queue) setStatus(s Status) {
	if q.notify != nil {
		q.notify(s)
	}
}
