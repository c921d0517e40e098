// Package matcher implements the compiled multi-pattern literal matcher:
// a trie over replacement patterns, applied to text in
// a single left-to-right, longest-match-at-position, non-overlapping pass.
package matcher

import "github.com/praetorian-inc/rewrite/pkg/types"

// Matcher scans rune text for configured literal patterns and replaces
// matches. Apply never mutates its input; it returns a freshly built
// output slice and the number of replacements performed.
type Matcher struct {
	root      *node
	prefilter *Prefilter
}

// Build compiles a ReplacementMap (and an optional set of bare deletions,
// i.e. pattern -> "") into a Matcher. deletions may be nil.
func Build(patterns *types.ReplacementMap, deletions map[string]struct{}) *Matcher {
	root := newNode()
	var keywords []string

	addPattern := func(pattern, replacement []rune) {
		insert(root, pattern, replacement)
		keywords = append(keywords, string(pattern))
	}

	patterns.Each(func(pattern, replacement []rune) {
		addPattern(pattern, replacement)
	})
	for pattern := range deletions {
		addPattern([]rune(pattern), nil)
	}

	return &Matcher{
		root:      root,
		prefilter: NewPrefilter(keywords),
	}
}

// Apply performs a longest-match-at-position, left-to-right,
// non-overlapping replacement pass and returns the rewritten text plus
// the number of replacements applied.
func (m *Matcher) Apply(text []rune) ([]rune, int) {
	if len(text) == 0 || m.root == nil || len(m.root.children) == 0 {
		return text, 0
	}

	// Fast path: the prefilter tells us no configured pattern's literal
	// bytes occur anywhere in this text at all, so no trie walk can ever
	// find a terminal node. Skipping the walk (and its output buffer) is
	// purely an optimization; TestPrefilterNeverDivergesFromMatcher pins
	// down that this can never change the result.
	if m.prefilter != nil && !m.prefilter.MayMatch(text) {
		return text, 0
	}

	out := make([]rune, 0, len(text))
	copyStart := 0
	count := 0

	i := 0
	for i < len(text) {
		term, consumed := longestMatchAt(m.root, text, i)
		if term == nil {
			i++
			continue
		}
		out = append(out, text[copyStart:i]...)
		out = append(out, term.replacement...)
		count++
		i += consumed
		copyStart = i
	}
	out = append(out, text[copyStart:]...)

	if count == 0 {
		return text, 0
	}
	return out, count
}
