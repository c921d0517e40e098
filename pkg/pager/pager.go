// Package pager implements the paging layer: it carves
// a file's content into bounded-size pages at safe boundaries, never
// splitting a protected interval, so pages can be processed concurrently
// by the WorkerPool.
package pager

import "github.com/praetorian-inc/rewrite/pkg/types"

// DefaultPageSize is the target page size in runes (16 KiB-equivalent).
const DefaultPageSize = 16384

// snapWindow is how far back from a tentative page end the pager will
// look for a newline or space boundary before giving up and keeping the
// tentative end.
const snapWindow = 100

// Pager carves FileContent into Pages of roughly Size runes, never
// crossing a protected interval.
type Pager struct {
	size int
}

// New creates a Pager targeting the given page size. A non-positive size
// falls back to DefaultPageSize.
func New(size int) *Pager {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Pager{size: size}
}

// Page tiles content into an ordered sequence of Pages. intervals must be
// sorted by StartFirst and non-overlapping, as
// produced by scanner.Core.Scan.
func (p *Pager) Page(content []rune, intervals []types.ProtectedInterval) []types.Page {
	var pages []types.Page
	contentLen := len(content)
	start := 0
	k := 0

	for start < contentLen {
		if k < len(intervals) && intervals[k].StartFirst == start {
			end := intervals[k].EndLast + 1
			pages = append(pages, types.Page{
				ID:          len(pages),
				StartPos:    start,
				EndPos:      end,
				IsProtected: true,
			})
			start = end
			k++
			continue
		}

		end := start + p.size
		if end > contentLen {
			end = contentLen
		}

		hasNext := k < len(intervals)
		if hasNext && end > intervals[k].StartFirst {
			end = intervals[k].StartFirst
		}

		// Only snap to a line/word boundary when we haven't already
		// landed exactly on the next protected interval's start. That
		// boundary is already safe and must not be pushed further left.
		if end < contentLen && (!hasNext || end < intervals[k].StartFirst) {
			snapped := snapBoundary(content, start, end)
			if hasNext && snapped > intervals[k].StartFirst {
				snapped = intervals[k].StartFirst
			}
			if snapped > start {
				end = snapped
			}
		}

		pages = append(pages, types.Page{
			ID:          len(pages),
			StartPos:    start,
			EndPos:      end,
			IsProtected: false,
		})
		start = end
	}

	return pages
}

// snapBoundary looks backward from end, within the trailing snapWindow
// scalars (never before start), for a newline; failing that, a space.
// Returns the position just after the found character, or end unchanged
// if neither appears in the window.
func snapBoundary(content []rune, start, end int) int {
	windowStart := end - snapWindow
	if windowStart < start {
		windowStart = start
	}
	for i := end - 1; i >= windowStart; i-- {
		if content[i] == '\n' {
			return i + 1
		}
	}
	for i := end - 1; i >= windowStart; i-- {
		if content[i] == ' ' {
			return i + 1
		}
	}
	return end
}
