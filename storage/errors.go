package storage

import "errors"

// Common storage errors.
var (
	// ErrUnknownSegment is returned when a length is requested for a segment
	// that was never recorded.
	ErrUnknownSegment = errors.New("unknown segment")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("store closed")
)
