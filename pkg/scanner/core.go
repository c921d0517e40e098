// Package scanner implements the protected-interval precomputer: a
// single left-to-right pass over a file's full text that identifies
// inviolate spans delimited by configured start/end marker pairs, before
// any replacement runs.
package scanner

import "github.com/praetorian-inc/rewrite/pkg/types"

// Core wraps the configured marker specs and exposes the scanning
// operation.
type Core struct {
	specs []types.ProtectedRegionSpec
}

// New creates a Core scanner over the given marker pair specs, in
// configured order. Order matters when one marker is a prefix of another:
// callers are responsible for ordering longer/more-specific markers
// first; Core does not reorder or merge.
func New(specs []types.ProtectedRegionSpec) *Core {
	return &Core{specs: specs}
}

// Scan performs a single left-to-right pass over content and returns the
// ordered, non-overlapping list of protected intervals found
// in content.
func (c *Core) Scan(content []rune) []types.ProtectedInterval {
	var intervals []types.ProtectedInterval
	pos := 0

	for pos < len(content) {
		spec, startLen, matched := c.matchStartAt(content, pos)
		if !matched {
			pos++
			continue
		}

		if spec.IsLiteral() {
			// Empty end marker: the interval is exactly the start marker
			// occurrence.
			intervals = append(intervals, types.ProtectedInterval{
				StartFirst: pos,
				EndLast:    pos + startLen - 1,
				StartLen:   startLen,
				EndLen:     0,
			})
			pos += startLen
			continue
		}

		endBegin, found := indexOf(content, spec.EndMarker, pos+startLen)
		if !found {
			// Unterminated protector: terminate the scan, no further
			// intervals emitted.
			break
		}

		endLen := len(spec.EndMarker)
		intervals = append(intervals, types.ProtectedInterval{
			StartFirst: pos,
			EndLast:    endBegin + endLen - 1,
			StartLen:   startLen,
			EndLen:     endLen,
		})
		pos = endBegin + endLen
	}

	return intervals
}

// matchStartAt tries each configured spec's start marker, in configured
// order, as a prefix of content[pos:]. The first match wins.
func (c *Core) matchStartAt(content []rune, pos int) (types.ProtectedRegionSpec, int, bool) {
	for _, spec := range c.specs {
		n := len(spec.StartMarker)
		if n == 0 {
			continue
		}
		if hasPrefixAt(content, spec.StartMarker, pos) {
			return spec, n, true
		}
	}
	return types.ProtectedRegionSpec{}, 0, false
}

func hasPrefixAt(content, marker []rune, pos int) bool {
	if pos+len(marker) > len(content) {
		return false
	}
	for i, r := range marker {
		if content[pos+i] != r {
			return false
		}
	}
	return true
}

// indexOf finds the first occurrence of marker in content at or after
// from, returning its starting index.
func indexOf(content, marker []rune, from int) (int, bool) {
	if len(marker) == 0 {
		return 0, false
	}
	limit := len(content) - len(marker)
	for i := from; i <= limit; i++ {
		if hasPrefixAt(content, marker, i) {
			return i, true
		}
	}
	return 0, false
}
