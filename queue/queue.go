package queue

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"WaveFM/logger"
)

// Task is one unit of background work.
type Task struct {
	Name string
	Run  func(ctx context.Context)
}

// Queue runs tasks on a fixed worker pool, decoupled from the request path.
// Submission never blocks the caller; delayed submission is timer-based.
type Queue struct {
	tasks    chan Task
	quit     chan struct{}
	taskCtx  context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	closed   atomic.Bool
	quitOnce sync.Once
}

// New starts a queue with the given worker count and pending-task buffer.
func New(workers, buffer int) *Queue {
	if workers <= 0 {
		workers = 1
	}
	if buffer <= 0 {
		buffer = 16
	}

	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		tasks:   make(chan Task, buffer),
		quit:    make(chan struct{}),
		taskCtx: ctx,
		cancel:  cancel,
	}

	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}

	logger.Info("task queue started",
		logger.Int("workers", workers),
		logger.Int("buffer", buffer))
	return q
}

// Submit schedules fn to run after delay. A zero or negative delay enqueues
// immediately. Tasks submitted after shutdown are dropped with a warning.
func (q *Queue) Submit(name string, delay time.Duration, fn func(ctx context.Context)) {
	if q.closed.Load() {
		logger.Warn("task dropped, queue shut down", logger.String("task", name))
		return
	}

	enqueue := func() {
		select {
		case q.tasks <- Task{Name: name, Run: fn}:
			logger.Debug("task enqueued", logger.String("task", name))
		case <-q.quit:
			logger.Warn("task dropped during shutdown", logger.String("task", name))
		}
	}

	if delay <= 0 {
		go enqueue()
		return
	}
	time.AfterFunc(delay, enqueue)
}

// Shutdown stops the workers. Running tasks get until ctx expires to finish;
// after that their context is cancelled.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.closed.Store(true)
	q.quitOnce.Do(func() { close(q.quit) })

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.cancel()
		return nil
	case <-ctx.Done():
		q.cancel()
		return ctx.Err()
	}
}

func (q *Queue) worker(id int) {
	defer q.wg.Done()
	for {
		select {
		case <-q.quit:
			return
		case task := <-q.tasks:
			q.execute(id, task)
		}
	}
}

// execute runs one task, containing panics so a misbehaving task cannot take
// down the worker.
func (q *Queue) execute(workerID int, task Task) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("task panicked",
				logger.Int("worker", workerID),
				logger.String("task", task.Name),
				logger.Any("panic", r))
		}
	}()

	start := time.Now()
	task.Run(q.taskCtx)
	logger.Debug("task finished",
		logger.Int("worker", workerID),
		logger.String("task", task.Name),
		logger.Duration("elapsed", time.Since(start)))
}
