// Package writeback implements the writeback pipeline: a
// single dedicated waiter that pulls completed files off a queue and
// either writes them inline or, when the WorkerPool has idle capacity,
// re-submits the write as a pool task.
package writeback

import (
	"os"
	"sync"

	"github.com/praetorian-inc/rewrite/pkg/pool"
	"github.com/praetorian-inc/rewrite/pkg/types"
)

// Callback is invoked once per WritebackNotification after its write (or
// no-op, for a zero-replacement file) completes. err is nil on success.
//
// The Processor blocks on this callback before building a file's
// ProcessingResult, so a writeback failure is always reflected in the
// result the caller sees rather than surfacing only in a log line.
type Callback func(file *types.FileContent, err error)

// Pipeline is the dedicated writeback dispatcher. Construct with New and
// tear down with Shutdown once a batch is complete.
type Pipeline struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []types.WritebackNotification
	stopped bool
	done    chan struct{}

	// inflight counts writes handed to the pool that have not finished.
	inflight sync.WaitGroup

	pool   *pool.Pool
	onDone Callback
}

// New starts a Pipeline's dispatcher goroutine. p is the WorkerPool to
// offload writes onto when it has idle capacity; onDone (may be nil) is
// called once per file after its write completes or is skipped.
func New(p *pool.Pool, onDone Callback) *Pipeline {
	pl := &Pipeline{
		pool:   p,
		onDone: onDone,
		done:   make(chan struct{}),
	}
	pl.cond = sync.NewCond(&pl.mu)
	go pl.loop()
	return pl
}

// Enqueue hands a completed file to the pipeline. Safe for concurrent use
// by multiple page-task goroutines across different files.
func (pl *Pipeline) Enqueue(n types.WritebackNotification) {
	pl.mu.Lock()
	pl.queue = append(pl.queue, n)
	pl.cond.Signal()
	pl.mu.Unlock()
}

// Shutdown sets the stop flag, wakes the dispatcher, and blocks until it
// has drained the queue, every write it handed to the pool has finished,
// and it has exited.
func (pl *Pipeline) Shutdown() {
	pl.mu.Lock()
	pl.stopped = true
	pl.cond.Broadcast()
	pl.mu.Unlock()
	<-pl.done
}

func (pl *Pipeline) loop() {
	defer close(pl.done)
	for {
		pl.mu.Lock()
		for len(pl.queue) == 0 && !pl.stopped {
			pl.cond.Wait()
		}
		if len(pl.queue) == 0 && pl.stopped {
			pl.mu.Unlock()
			pl.inflight.Wait()
			return
		}

		if pl.pool != nil && pl.pool.HasIdle() {
			idle := pl.pool.IdleCount()
			n := len(pl.queue)
			if n > idle {
				n = idle
			}
			if n == 0 {
				n = 1
			}
			batch := pl.queue[:n]
			pl.queue = pl.queue[n:]
			pl.mu.Unlock()

			for _, item := range batch {
				item := item
				pl.inflight.Add(1)
				if err := pl.pool.Submit(func() {
					defer pl.inflight.Done()
					pl.writeOne(item)
				}); err != nil {
					// Pool is shut down underneath us; finish the write
					// inline rather than drop it.
					pl.inflight.Done()
					pl.writeOne(item)
				}
			}
			continue
		}

		item := pl.queue[0]
		pl.queue = pl.queue[1:]
		pl.mu.Unlock()
		pl.writeOne(item)
	}
}

func (pl *Pipeline) writeOne(n types.WritebackNotification) {
	err := Write(n.File)
	if pl.onDone != nil {
		pl.onDone(n.File, err)
	}
}

// Write assembles a file's processed pages in order and overwrites the
// file on disk, but only when at least one replacement occurred anywhere
// in it. A no-op run leaves the file byte-for-byte unchanged and
// unwritten.
func Write(f *types.FileContent) error {
	if f.Failed() {
		// A page-processing failure already leaves ProcessedPages
		// incomplete for this file; the Processor surfaces the failure
		// via ProcessingResult.OK, and the on-disk file is left alone
		// rather than risk writing a corrupt reassembly.
		return nil
	}
	if f.TotalReplacements() == 0 {
		return nil
	}

	total := 0
	for _, page := range f.ProcessedPages {
		total += len(page)
	}
	out := make([]rune, 0, total)
	for _, page := range f.ProcessedPages {
		out = append(out, page...)
	}

	return os.WriteFile(f.Path, []byte(string(out)), 0o644)
}
