package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProtectedRegionSpec_IsLiteral(t *testing.T) {
	literal := ProtectedRegionSpec{StartMarker: []rune("TODO")}
	assert.True(t, literal.IsLiteral())

	delimited := ProtectedRegionSpec{StartMarker: []rune("`"), EndMarker: []rune("`")}
	assert.False(t, delimited.IsLiteral())
}

func TestProtectedInterval_Len(t *testing.T) {
	iv := ProtectedInterval{StartFirst: 5, EndLast: 9, StartLen: 1, EndLen: 1}
	assert.Equal(t, 5, iv.Len())
}
