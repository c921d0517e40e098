package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplacementMap_AddAndEach(t *testing.T) {
	m := NewReplacementMap()
	assert.NoError(t, m.Add(",", "，"))
	assert.NoError(t, m.Add(".", "。"))
	assert.Equal(t, 2, m.Len())

	seen := make(map[string]string)
	m.Each(func(pattern, replacement []rune) {
		seen[string(pattern)] = string(replacement)
	})
	assert.Equal(t, "，", seen[","])
	assert.Equal(t, "。", seen["."])
}

func TestReplacementMap_RejectsEmptyPattern(t *testing.T) {
	m := NewReplacementMap()
	assert.Error(t, m.Add("", "x"))
}

func TestReplacementMap_RejectsEmptyReplacement(t *testing.T) {
	m := NewReplacementMap()
	assert.Error(t, m.Add("x", ""))
}

func TestReplacementMap_RejectsDuplicatePattern(t *testing.T) {
	m := NewReplacementMap()
	assert.NoError(t, m.Add("ab", "X"))
	assert.Error(t, m.Add("ab", "Y"))
}

func TestReplacementMap_NilSafeLenAndEach(t *testing.T) {
	var m *ReplacementMap
	assert.Equal(t, 0, m.Len())
	calls := 0
	m.Each(func([]rune, []rune) { calls++ })
	assert.Equal(t, 0, calls)
}
