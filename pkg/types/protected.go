package types

// ProtectedRegionSpec is a configured (start_marker, end_marker) pair. An
// empty EndMarker denotes literal-content protection: the protected
// interval is exactly the occurrence of StartMarker.
type ProtectedRegionSpec struct {
	StartMarker []rune
	EndMarker   []rune
}

// IsLiteral reports whether this spec protects a literal occurrence of
// StartMarker rather than a start/end-delimited span.
func (s ProtectedRegionSpec) IsLiteral() bool {
	return len(s.EndMarker) == 0
}

// ProtectedInterval is one concrete occurrence of a protected region found
// in a file's content by the ProtectedScanner. All offsets are rune
// (scalar-value) indices, not byte offsets.
type ProtectedInterval struct {
	// StartFirst is the index of the first scalar of the start marker.
	StartFirst int
	// EndLast is the index of the last scalar of the end marker (inclusive).
	EndLast int
	// StartLen and EndLen are the marker lengths in scalars.
	StartLen int
	EndLen   int
}

// Len returns the interval's length in scalars: EndLast - StartFirst + 1.
func (p ProtectedInterval) Len() int {
	return p.EndLast - p.StartFirst + 1
}
