// internal/app/system/tasks/tasks.go
package tasks

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is a named unit of background work run on a fixed interval.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Runner drives a set of jobs, each on its own goroutine, until the
// context passed to Start is canceled.
type Runner struct {
	log  *zap.Logger
	jobs []Job
	wg   sync.WaitGroup
}

// NewRunner creates a runner for the given jobs. Call Start to begin.
func NewRunner(logger *zap.Logger, jobs ...Job) *Runner {
	return &Runner{log: logger, jobs: jobs}
}

// Start launches the jobs and returns immediately. Each job runs once
// right away and then on every interval tick.
func (r *Runner) Start(ctx context.Context) {
	for _, job := range r.jobs {
		r.wg.Add(1)
		go func(j Job) {
			defer r.wg.Done()
			r.runLoop(ctx, j)
		}(job)
	}
}

// Wait blocks until every job goroutine has exited.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) runLoop(ctx context.Context, j Job) {
	r.runOnce(ctx, j)

	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.runOnce(ctx, j)
		}
	}
}

// runOnce logs failures instead of propagating them; a failing job keeps
// its schedule and tries again on the next tick.
func (r *Runner) runOnce(ctx context.Context, j Job) {
	if err := j.Run(ctx); err != nil {
		r.log.Warn("background job failed",
			zap.String("job", j.Name),
			zap.Error(err))
	}
}
