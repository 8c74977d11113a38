// Package parallel runs per-file jobs of the batch commands.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pool runs submitted jobs on at most a fixed number of goroutines. A pool
// of one worker runs every job inline on the caller's goroutine.
type Pool struct {
	g       *errgroup.Group
	workers int
}

// Start returns a pool of numWorkers workers. Values below one select one
// worker per CPU.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{workers: numWorkers}
	if numWorkers > 1 {
		pool.g = new(errgroup.Group)
		pool.g.SetLimit(numWorkers)
	}
	return pool
}

// Workers reports how many jobs may run at once.
func (p *Pool) Workers() int {
	return p.workers
}

// Do submits f, blocking while every worker is busy.
func (p *Pool) Do(f func()) {
	if p.g == nil {
		f()
		return
	}
	p.g.Go(func() error {
		f()
		return nil
	})
}

// Wait blocks until every submitted job has returned.
func (p *Pool) Wait() {
	if p.g == nil {
		return
	}
	_ = p.g.Wait()
}
