// Package dispatcher manages worker fan-out over the frontier.
package dispatcher

import (
	"context"
	"sync"

	"github.com/domgraph/domgraph/internal/crawler"
	"github.com/domgraph/domgraph/internal/worker"
)

// Dispatcher fans the frontier out to a pool of workers.
type Dispatcher struct {
	frontier crawler.Frontier
	workers  []*worker.Worker
}

// New creates a Dispatcher.
func New(frontier crawler.Frontier, workers []*worker.Worker) *Dispatcher {
	return &Dispatcher{
		frontier: frontier,
		workers:  workers,
	}
}

// Run starts all workers and blocks until every one of them has returned.
// Workers stop on their own once the frontier drains; canceling ctx closes
// the frontier instead, which releases any blocked claim.
func (d *Dispatcher) Run(ctx context.Context) {
	watchDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			d.frontier.Close()
		case <-watchDone:
		}
	}()

	var wg sync.WaitGroup
	for _, w := range d.workers {
		wg.Add(1)
		go func(wk *worker.Worker) {
			defer wg.Done()
			wk.Run(ctx)
		}(w)
	}
	wg.Wait()
	close(watchDone)
}
