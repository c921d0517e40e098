// Package pool implements the worker pool: a fixed-or-scalable set of
// goroutines draining a single FIFO task queue, supporting
// fire-and-forget submission and submission-with-callback.
package pool

import (
	"log"
	"sync"

	"github.com/praetorian-inc/rewrite/pkg/types"
)

// Task is a parameterless unit of work.
type Task func()

// Pool is a FIFO task queue drained by a scalable set of worker
// goroutines. The queue is guarded by an explicit mutex/condition pair
// rather than a buffered channel: IdleCount and HasIdle need an
// instantaneous worker-availability read that a channel's internal state
// does not expose.
type Pool struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []Task
	workers int
	idle    int
	stopped bool
	wg      sync.WaitGroup
}

// New creates a Pool with the given number of workers already running. A
// non-positive count is clamped to 1.
func New(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{}
	p.cond = sync.NewCond(&p.mu)
	p.Scale(workers)
	return p
}

// Scale grows the worker set to n goroutines. Shrinking is not supported;
// a smaller n than the current worker count is a no-op.
func (p *Pool) Scale(n int) {
	p.mu.Lock()
	add := n - p.workers
	if add > 0 {
		p.workers = n
	}
	p.mu.Unlock()

	for i := 0; i < add; i++ {
		p.wg.Add(1)
		go p.run()
	}
}

// Submit enqueues a fire-and-forget task. Returns ErrPoolShutdown if the
// pool has already been shut down.
func (p *Pool) Submit(task Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return types.ErrPoolShutdown
	}
	p.queue = append(p.queue, task)
	p.cond.Signal()
	return nil
}

// SubmitWithCallback enqueues a producer task whose return value is
// handed to continuation, which itself runs on a worker goroutine once
// the producer completes.
func (p *Pool) SubmitWithCallback(task func() any, continuation func(any)) error {
	return p.Submit(func() {
		result := task()
		continuation(result)
	})
}

// IdleCount reports the approximate number of workers currently blocked
// waiting for work. It is inherently racy (a worker may pick up work
// between this read and a caller acting on it) and is meant only for
// admission-control heuristics.
func (p *Pool) IdleCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.idle
}

// HasIdle reports whether at least one worker is currently idle.
func (p *Pool) HasIdle() bool {
	return p.IdleCount() > 0
}

// Shutdown signals all workers to stop once the queue drains, wakes them,
// and blocks until every worker goroutine has exited. Submissions after
// Shutdown returns (or that race with it) fail with ErrPoolShutdown.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	p.stopped = true
	p.cond.Broadcast()
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Pool) run() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.stopped {
			p.idle++
			p.cond.Wait()
			p.idle--
		}
		if len(p.queue) == 0 && p.stopped {
			p.mu.Unlock()
			return
		}
		task := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		runTask(task)
	}
}

// runTask executes task inside a catch-all recover so a panicking task
// cannot terminate its worker goroutine.
func runTask(task Task) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("pool: recovered panic in task: %v", r)
		}
	}()
	task()
}
