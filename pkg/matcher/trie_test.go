package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLongestMatchAt_PrefersDeepestTerminal(t *testing.T) {
	root := newNode()
	insert(root, []rune("ab"), []rune("X"))
	insert(root, []rune("abc"), []rune("Y"))

	term, consumed := longestMatchAt(root, []rune("abcd"), 0)
	if assert.NotNil(t, term) {
		assert.Equal(t, "Y", string(term.replacement))
		assert.Equal(t, 3, consumed)
	}
}

func TestLongestMatchAt_NoMatch(t *testing.T) {
	root := newNode()
	insert(root, []rune("xyz"), []rune("Q"))

	term, consumed := longestMatchAt(root, []rune("abc"), 0)
	assert.Nil(t, term)
	assert.Equal(t, 0, consumed)
}

func TestLongestMatchAt_StopsAtEndOfText(t *testing.T) {
	root := newNode()
	insert(root, []rune("abcdef"), []rune("Z"))
	insert(root, []rune("ab"), []rune("X"))

	term, consumed := longestMatchAt(root, []rune("abc"), 0)
	if assert.NotNil(t, term) {
		assert.Equal(t, "X", string(term.replacement))
		assert.Equal(t, 2, consumed)
	}
}

func TestInsert_LaterPatternWinsOnDuplicate(t *testing.T) {
	root := newNode()
	insert(root, []rune("a"), []rune("first"))
	insert(root, []rune("a"), []rune("second"))

	term, _ := longestMatchAt(root, []rune("a"), 0)
	if assert.NotNil(t, term) {
		assert.Equal(t, "second", string(term.replacement))
	}
}
