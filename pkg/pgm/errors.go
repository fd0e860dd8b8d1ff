package pgm

import "errors"

var (
	// ErrIO reports that the underlying stream could not be opened, read or written.
	ErrIO = errors.New("pgm: i/o failure")
	// ErrFormat reports a bad magic tag or malformed/missing numeric tokens.
	ErrFormat = errors.New("pgm: malformed graymap")
	// ErrDimensionMismatch reports dimensions that disagree with what the caller expected.
	ErrDimensionMismatch = errors.New("pgm: dimension mismatch")
)
