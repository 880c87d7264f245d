// Package task runs background jobs on a bounded worker pool with a
// supervised failure boundary: a task fault never escapes the pool.
package task

import (
	"fmt"
	"log/slog"

	"github.com/panjf2000/ants/v2"
)

// Pool executes submitted functions on a fixed number of workers.
type Pool struct {
	inner *ants.Pool
	log   *slog.Logger
}

// NewPool creates a pool with the given worker count. Submission blocks when
// every worker is busy.
func NewPool(size int, log *slog.Logger) (*Pool, error) {
	if size <= 0 {
		size = 1
	}
	if log == nil {
		log = slog.Default()
	}

	inner, err := ants.NewPool(size, ants.WithPanicHandler(func(r any) {
		// Last-resort guard. Submit wraps every task with its own recover;
		// anything arriving here escaped the per-task boundary.
		log.Error("Background task panicked past its boundary", "panic", r)
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	return &Pool{inner: inner, log: log}, nil
}

// Submit schedules run on a worker. onPanic receives the recovered value if
// the task panics, so the owner can record a terminal job state.
func (p *Pool) Submit(run func(), onPanic func(recovered any)) error {
	err := p.inner.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				p.log.Error("Background task panicked", "panic", r)
				if onPanic != nil {
					onPanic(r)
				}
			}
		}()
		run()
	})
	if err != nil {
		return fmt.Errorf("failed to submit background task: %w", err)
	}

	return nil
}

// Release shuts the pool down. Running tasks finish; new submissions fail.
func (p *Pool) Release() {
	p.inner.Release()
}
