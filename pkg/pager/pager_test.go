package pager

import (
	"strings"
	"testing"

	"github.com/praetorian-inc/rewrite/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tile asserts the invariants that must hold for any paging of content:
// no gaps/overlaps, and pages tile exactly.
func tile(t *testing.T, content []rune, pages []types.Page) {
	t.Helper()
	require.NotEmpty(t, pages)
	assert.Equal(t, 0, pages[0].StartPos)
	for i := 0; i < len(pages); i++ {
		assert.Equal(t, i, pages[i].ID)
		if i > 0 {
			assert.Equal(t, pages[i-1].EndPos, pages[i].StartPos)
		}
	}
	assert.Equal(t, len(content), pages[len(pages)-1].EndPos)
}

func TestPage_SmallFileSinglePage(t *testing.T) {
	content := []rune("hello, world.")
	pages := New(DefaultPageSize).Page(content, nil)
	tile(t, content, pages)
	assert.Len(t, pages, 1)
	assert.False(t, pages[0].IsProtected)
}

func TestPage_ProtectedIntervalGetsOwnPage(t *testing.T) {
	content := []rune("a, b `c, d` e.")
	interval := types.ProtectedInterval{StartFirst: 5, EndLast: 10, StartLen: 1, EndLen: 1}
	pages := New(DefaultPageSize).Page(content, []types.ProtectedInterval{interval})
	tile(t, content, pages)

	require.Len(t, pages, 3)
	assert.False(t, pages[0].IsProtected)
	assert.Equal(t, "a, b ", string(content[pages[0].StartPos:pages[0].EndPos]))
	assert.True(t, pages[1].IsProtected)
	assert.Equal(t, "`c, d`", string(content[pages[1].StartPos:pages[1].EndPos]))
	assert.False(t, pages[2].IsProtected)
	assert.Equal(t, " e.", string(content[pages[2].StartPos:pages[2].EndPos]))
}

func TestPage_SplitsAtNewlineBoundary(t *testing.T) {
	// Build content longer than one page of a small target, with a newline
	// close to (but before) the tentative split point, inside the trailing
	// snap window.
	size := 200
	line1 := strings.Repeat("a", size-10) + "\n"
	line2 := strings.Repeat("b", size)
	content := []rune(line1 + line2)

	pages := New(size).Page(content, nil)
	tile(t, content, pages)
	require.True(t, len(pages) >= 2)
	// First page should end right after the newline, not mid "a" run.
	assert.Equal(t, byte('\n'), byte(content[pages[0].EndPos-1]))
}

func TestPage_NeverSplitsProtectedRegion(t *testing.T) {
	size := 10
	content := []rune("xxxxxxxxxx`protected region spanning more than page size`yyyy")
	start := 10
	end := start + len("`protected region spanning more than page size`") - 1
	interval := types.ProtectedInterval{StartFirst: start, EndLast: end, StartLen: 1, EndLen: 1}

	pages := New(size).Page(content, []types.ProtectedInterval{interval})
	tile(t, content, pages)

	for _, pg := range pages {
		if pg.IsProtected {
			assert.Equal(t, start, pg.StartPos)
			assert.Equal(t, end+1, pg.EndPos)
			continue
		}
		// Non-protected pages must not overlap the interval at all.
		overlaps := pg.StartPos < end+1 && pg.EndPos > start
		assert.False(t, overlaps, "page [%d,%d) overlaps protected interval [%d,%d]", pg.StartPos, pg.EndPos, start, end)
	}
}

func TestPage_EmptyContent(t *testing.T) {
	pages := New(DefaultPageSize).Page(nil, nil)
	assert.Empty(t, pages)
}
