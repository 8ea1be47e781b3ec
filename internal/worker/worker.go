package worker

import (
	"context"
	"sync"
)

type ProcessFunc[J any] func(ctx context.Context, job J)

// Pool runs jobs on a fixed number of goroutines. Workers exit when the
// context is cancelled or when Stop closes the queue.
type Pool[J any] struct {
	numWorkers int
	jobs       chan J
	processor  ProcessFunc[J]
	wg         sync.WaitGroup
}

func NewPool[J any](numWorkers, bufferSize int, processor ProcessFunc[J]) *Pool[J] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Pool[J]{
		numWorkers: numWorkers,
		jobs:       make(chan J, bufferSize),
		processor:  processor,
	}
}

func (p *Pool[J]) Start(ctx context.Context) {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

func (p *Pool[J]) worker(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			p.processor(ctx, job)
		}
	}
}

// Submit blocks while the queue is full.
func (p *Pool[J]) Submit(job J) {
	p.jobs <- job
}

// Stop closes the queue and waits for the workers to drain it or to observe
// cancellation.
func (p *Pool[J]) Stop() {
	close(p.jobs)
	p.wg.Wait()
}

// Run processes every job and returns once all are done or ctx is cancelled.
// Jobs still queued at cancellation are never processed.
func Run[J any](ctx context.Context, numWorkers int, jobs []J, processor ProcessFunc[J]) {
	p := NewPool(numWorkers, len(jobs), processor)
	p.Start(ctx)
	for _, j := range jobs {
		p.Submit(j)
	}
	p.Stop()
}
