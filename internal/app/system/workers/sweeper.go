// internal/app/system/workers/sweeper.go
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is one periodic cleanup step. Run returns how many records it removed.
type Task struct {
	Name string
	Run  func(ctx context.Context) (int64, error)
}

// Sweeper is a background worker that runs its tasks on a fixed interval.
type Sweeper struct {
	tasks    []Task
	log      *zap.Logger
	interval time.Duration
	timeout  time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewSweeper creates a worker that runs tasks every interval, each with
// its own timeout.
func NewSweeper(logger *zap.Logger, interval, timeout time.Duration, tasks ...Task) *Sweeper {
	return &Sweeper{
		tasks:    tasks,
		log:      logger,
		interval: interval,
		timeout:  timeout,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background loop.
func (w *Sweeper) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("sweeper started",
		zap.Duration("interval", w.interval),
		zap.Int("tasks", len(w.tasks)))
}

// Stop signals the worker to stop and waits for it to finish. Safe to call
// more than once.
func (w *Sweeper) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("sweeper stopped")
	})
}

func (w *Sweeper) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.RunOnce(context.Background())
		}
	}
}

// RunOnce runs every task once. A failing task is logged and does not stop
// the ones after it.
func (w *Sweeper) RunOnce(parent context.Context) {
	for _, t := range w.tasks {
		ctx, cancel := context.WithTimeout(parent, w.timeout)
		count, err := t.Run(ctx)
		cancel()

		if err != nil {
			w.log.Error("sweep failed", zap.String("task", t.Name), zap.Error(err))
			continue
		}
		if count > 0 {
			w.log.Info("swept records", zap.String("task", t.Name), zap.Int64("count", count))
		}
	}
}
