package types

import "errors"

// The sentinels below name the error taxonomy. Only ErrPoolShutdown is
// returned as an error value (by pool.Submit); load and page failures
// reach callers as the fixed ProcessingResult message strings below, and
// a writeback failure as the underlying os error's text.
var (
	// ErrInputNotText names the case where a path opened but was detected
	// as binary by the NUL-byte heuristic.
	ErrInputNotText = errors.New("input is not a text file")

	// ErrIORead names an open or read failure for an input file.
	ErrIORead = errors.New("failed to read file content")

	// ErrPageProcessing names a panic/failure recovered during matching or
	// substring extraction of a single page.
	ErrPageProcessing = errors.New("page processing exception")

	// ErrIOWrite names an open or write failure during writeback.
	ErrIOWrite = errors.New("failed to write file content")

	// ErrPoolShutdown is returned when submitting work to a pool that has
	// already been shut down.
	ErrPoolShutdown = errors.New("worker pool is shut down")
)

// LoadFailureMessage is the exact message surfaced in ProcessingResult.ErrMsg
// for both ErrInputNotText and ErrIORead.
const LoadFailureMessage = "Failed to load file content"

// PageProcessingPrefix prefixes PageResult.ErrMsg for ErrPageProcessing.
const PageProcessingPrefix = "Page processing exception: "
