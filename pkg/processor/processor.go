// Package processor is the engine's public entry point: the Processor,
// which, for each input file, loads and decodes it, precomputes
// protected intervals, pages the content, fans page-level
// matching out across the WorkerPool, aggregates per-file results, and
// hands completed files to the WritebackPipeline.
package processor

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/praetorian-inc/rewrite/pkg/matcher"
	"github.com/praetorian-inc/rewrite/pkg/pager"
	"github.com/praetorian-inc/rewrite/pkg/pool"
	"github.com/praetorian-inc/rewrite/pkg/scanner"
	"github.com/praetorian-inc/rewrite/pkg/types"
	"github.com/praetorian-inc/rewrite/pkg/writeback"
)

// binaryCheckBytes and binaryNULThreshold implement the binary-file
// heuristic: a file is text iff the fraction of NUL bytes in the
// first 1024 raw bytes is strictly less than 1%.
const (
	binaryCheckBytes   = 1024
	binaryNULThreshold = 0.01
)

// Processor wraps a compiled Matcher and the configured protected-region
// specs, exposing the batch Process entry point.
type Processor struct {
	matcher  *matcher.Matcher
	scanner  *scanner.Core
	pager    *pager.Pager
	observer func(types.ProcessingResult)
}

// New builds a Processor. pageSize <= 0 uses pager.DefaultPageSize.
func New(m *matcher.Matcher, specs []types.ProtectedRegionSpec, pageSize int) *Processor {
	return &Processor{
		matcher: m,
		scanner: scanner.New(specs),
		pager:   pager.New(pageSize),
	}
}

// SetObserver registers fn to be called once per file, as that file
// finishes (its last page processed and any writeback completed), while
// the rest of the batch may still be running. Must be set before Process
// is called; fn must be safe for concurrent use.
func (pr *Processor) SetObserver(fn func(types.ProcessingResult)) {
	pr.observer = fn
}

// preprocessResult is what the preprocess task hands to its continuation.
// fc is nil when the file was binary or unreadable.
type preprocessResult struct {
	fc      *types.FileContent
	pages   []types.Page
	loadErr string
}

// fileSlot accumulates the per-file state needed to build one
// ProcessingResult once every page (and the writeback, if any) completes.
type fileSlot struct {
	mu          sync.Mutex
	fc          *types.FileContent
	loadErr     string
	pageResults []types.PageResult
	writeErr    error
}

// Process runs one batch. It returns one ProcessingResult per input
// file, in input order, after every file's pages have been processed and
// (for files with at least one replacement) written back to disk.
func (pr *Processor) Process(files []string, maxThreads int) []types.ProcessingResult {
	results := make([]types.ProcessingResult, len(files))
	if len(files) == 0 {
		return results
	}

	workers := pool.New(threadCount(maxThreads, len(files)))
	defer workers.Shutdown()

	slots := make([]*fileSlot, len(files))
	for i := range files {
		slots[i] = &fileSlot{}
	}

	// index lets the writeback callback, which only receives the
	// *types.FileContent it finished writing, recover which slot to
	// report completion against.
	var indexMu sync.Mutex
	index := make(map[*types.FileContent]int, len(files))

	// batch is the global pending counter: one unit per input file,
	// released once that file is finished (load failure, empty file, or
	// the writeback callback after its last page), so it reaches zero
	// only once every file's last page (and write) has completed.
	var batch sync.WaitGroup
	batch.Add(len(files))

	wb := writeback.New(workers, func(fc *types.FileContent, err error) {
		indexMu.Lock()
		idx, ok := index[fc]
		indexMu.Unlock()
		if !ok {
			return
		}
		s := slots[idx]
		s.mu.Lock()
		s.writeErr = err
		s.mu.Unlock()
		pr.notify(files[idx], s)
		batch.Done()
	})
	defer wb.Shutdown()

	for i, path := range files {
		i, path := i, path
		s := slots[i]

		onPreprocessed := func(v any) {
			res := v.(preprocessResult)
			if res.fc == nil {
				s.mu.Lock()
				s.loadErr = res.loadErr
				s.mu.Unlock()
				pr.notify(path, s)
				batch.Done()
				return
			}

			s.mu.Lock()
			s.fc = res.fc
			s.pageResults = make([]types.PageResult, len(res.pages))
			s.mu.Unlock()

			// An empty file pages to zero pages, so no page task will
			// ever decrement the countdown or enqueue a writeback.
			// Complete the file here directly.
			if len(res.pages) == 0 {
				pr.notify(path, s)
				batch.Done()
				return
			}

			indexMu.Lock()
			index[res.fc] = i
			indexMu.Unlock()

			for _, pg := range res.pages {
				pg := pg
				if err := workers.Submit(func() { pr.processPage(res.fc, pg, s, wb) }); err != nil {
					pr.recordPageFailure(res.fc, pg, s, wb, err)
				}
			}
		}

		submitErr := workers.SubmitWithCallback(
			func() any { return pr.preprocess(path) },
			onPreprocessed,
		)
		if submitErr != nil {
			// The pool refused the submission; treat it as a
			// fatal-to-this-file load failure rather than aborting the
			// whole batch.
			s.mu.Lock()
			s.loadErr = types.LoadFailureMessage
			s.mu.Unlock()
			pr.notify(path, s)
			batch.Done()
		}
	}

	batch.Wait()

	for i, path := range files {
		results[i] = aggregate(path, slots[i])
	}
	return results
}

func (pr *Processor) recordPageFailure(fc *types.FileContent, pg types.Page, s *fileSlot, wb *writeback.Pipeline, err error) {
	s.mu.Lock()
	s.pageResults[pg.ID] = types.PageResult{
		FilePath: fc.Path,
		PageID:   pg.ID,
		OK:       false,
		ErrMsg:   types.PageProcessingPrefix + err.Error(),
	}
	s.mu.Unlock()
	fc.MarkFailed()

	_, isLast := fc.CompletePage()
	if isLast {
		wb.Enqueue(types.WritebackNotification{File: fc})
	}
}

// notify hands the file's finished result to the registered observer, if
// any. The slot is fully populated by the time any completion path calls
// this, so aggregate sees the same data the final results loop will.
func (pr *Processor) notify(path string, s *fileSlot) {
	if pr.observer != nil {
		pr.observer(aggregate(path, s))
	}
}

// processPage runs the matcher over one page's text and records the
// result, recovering from any panic as a page-processing failure.
func (pr *Processor) processPage(fc *types.FileContent, pg types.Page, s *fileSlot, wb *writeback.Pipeline) {
	result := pr.runPage(fc, pg)

	s.mu.Lock()
	s.pageResults[pg.ID] = result
	s.mu.Unlock()

	if result.OK {
		fc.AddReplacements(result.ReplacementCount)
		fc.ProcessedPages[pg.ID] = result.ProcessedText
	} else {
		fc.MarkFailed()
	}

	_, isLast := fc.CompletePage()
	if isLast {
		wb.Enqueue(types.WritebackNotification{File: fc})
	}
}

func (pr *Processor) runPage(fc *types.FileContent, pg types.Page) (result types.PageResult) {
	defer func() {
		if r := recover(); r != nil {
			result = types.PageResult{
				FilePath: fc.Path,
				PageID:   pg.ID,
				OK:       false,
				ErrMsg:   types.PageProcessingPrefix + fmt.Sprint(r),
			}
		}
	}()

	text := pg.Text()
	if pg.IsProtected {
		return types.PageResult{
			FilePath:         fc.Path,
			PageID:           pg.ID,
			ProcessedText:    text,
			ReplacementCount: 0,
			OK:               true,
		}
	}

	processed, count := pr.matcher.Apply(text)
	return types.PageResult{
		FilePath:         fc.Path,
		PageID:           pg.ID,
		ProcessedText:    processed,
		ReplacementCount: count,
		OK:               true,
	}
}

// preprocess loads and decodes path, then runs the ProtectedScanner and
// Pager over it. Returns a nil fc if the file is binary or
// unreadable.
func (pr *Processor) preprocess(path string) preprocessResult {
	content, isText, err := loadText(path)
	if err != nil || !isText {
		return preprocessResult{loadErr: types.LoadFailureMessage}
	}

	intervals := pr.scanner.Scan(content)
	pages := pr.pager.Page(content, intervals)
	fc := types.NewFileContent(path, content, intervals, len(pages))
	for i := range pages {
		pages[i].Owner = fc
	}

	return preprocessResult{fc: fc, pages: pages}
}

// loadText reads path and decodes it as UTF-8 runes, substituting
// utf8.RuneError for invalid byte sequences. Returns isText=false when
// the binary heuristic trips.
func loadText(path string) (content []rune, isText bool, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	if looksBinary(raw) {
		return nil, false, nil
	}
	return decodeRunes(raw), true, nil
}

func looksBinary(raw []byte) bool {
	n := len(raw)
	if n > binaryCheckBytes {
		n = binaryCheckBytes
	}
	if n == 0 {
		return false
	}
	nul := 0
	for _, b := range raw[:n] {
		if b == 0 {
			nul++
		}
	}
	return float64(nul) >= binaryNULThreshold*float64(n)
}

func decodeRunes(raw []byte) []rune {
	out := make([]rune, 0, len(raw))
	for len(raw) > 0 {
		r, size := utf8.DecodeRune(raw)
		out = append(out, r)
		raw = raw[size:]
	}
	return out
}

// aggregate builds the ProcessingResult for one file from its slot once
// every page (and any writeback) has completed.
func aggregate(path string, s *fileSlot) types.ProcessingResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fc == nil {
		return types.ProcessingResult{FilePath: path, OK: false, ErrMsg: s.loadErr}
	}

	var errMsgs []string
	total := 0
	for _, pr := range s.pageResults {
		if !pr.OK {
			errMsgs = append(errMsgs, pr.ErrMsg)
			continue
		}
		total += pr.ReplacementCount
	}

	ok := len(errMsgs) == 0 && s.writeErr == nil
	msg := strings.Join(errMsgs, "; ")
	if msg == "" && s.writeErr != nil {
		msg = s.writeErr.Error()
	}

	return types.ProcessingResult{
		FilePath:         path,
		OK:               ok,
		ErrMsg:           msg,
		ReplacementCount: total,
	}
}

// threadCount sizes the pool: H = NumCPU * 1.5
// (floored, minimum 1); min(files*2, H) when maxThreads == 0, else
// min(maxThreads, H).
func threadCount(maxThreads, numFiles int) int {
	h := int(float64(runtime.NumCPU()) * 1.5)
	if h < 1 {
		h = 1
	}

	var t int
	if maxThreads == 0 {
		t = numFiles * 2
	} else {
		t = maxThreads
	}
	if t > h {
		t = h
	}
	if t < 1 {
		t = 1
	}
	return t
}
