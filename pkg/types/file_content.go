package types

import "sync/atomic"

// FileContent is the shared, reference-counted-by-usage record for one
// input file. It is created during load, owned by the Processor, and
// referenced by every Page task and by the writeback item for that file.
//
// Content and ProtectedIntervals are write-once during preprocess and
// read-only afterwards, so they are shared across goroutines without
// locking. PagesRemaining and TotalReplacements are atomic counters.
// ProcessedPages is a dense buffer, one slot per page id, where slot i is
// written exactly once by the task owning page i.
type FileContent struct {
	Path               string
	Content            []rune
	ProtectedIntervals []ProtectedInterval

	pagesRemaining    atomic.Int64
	totalReplacements atomic.Int64
	failed            atomic.Bool

	// ProcessedPages holds one slot per page, indexed by Page.ID. Each slot
	// is written exactly once, by the task that owns that page id; no lock
	// is required because no other goroutine reads a slot until
	// PagesRemaining has been observed to reach zero.
	ProcessedPages [][]rune
}

// NewFileContent constructs a FileContent with its ProcessedPages buffer
// pre-sized for numPages slots and PagesRemaining initialized accordingly.
func NewFileContent(path string, content []rune, intervals []ProtectedInterval, numPages int) *FileContent {
	fc := &FileContent{
		Path:               path,
		Content:            content,
		ProtectedIntervals: intervals,
		ProcessedPages:     make([][]rune, numPages),
	}
	fc.pagesRemaining.Store(int64(numPages))
	return fc
}

// AddReplacements atomically accumulates a page's replacement count into
// the file's running total.
func (f *FileContent) AddReplacements(n int) {
	f.totalReplacements.Add(int64(n))
}

// TotalReplacements returns the accumulated replacement count across all
// pages processed so far.
func (f *FileContent) TotalReplacements() int {
	return int(f.totalReplacements.Load())
}

// CompletePage decrements the pending-page counter and reports whether this
// call was the one that brought it to zero (i.e. this was the last page).
// The decrement uses release-like ordering semantics: a goroutine that
// observes the resulting zero has a happens-before relationship with every
// write that preceded each decrementing goroutine's call, per the Go
// memory model's guarantees for atomic operations, so reading
// ProcessedPages afterwards needs no additional synchronization.
func (f *FileContent) CompletePage() (remaining int, isLast bool) {
	r := f.pagesRemaining.Add(-1)
	return int(r), r == 0
}

// PagesRemaining returns the current value of the pending-page counter.
func (f *FileContent) PagesRemaining() int {
	return int(f.pagesRemaining.Load())
}

// MarkFailed records that at least one page of this file failed to
// process. The WritebackPipeline consults this
// before writing to avoid overwriting the file with an incomplete
// ProcessedPages buffer.
func (f *FileContent) MarkFailed() {
	f.failed.Store(true)
}

// Failed reports whether MarkFailed has been called for this file.
func (f *FileContent) Failed() bool {
	return f.failed.Load()
}
