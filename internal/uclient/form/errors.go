package form

import "errors"

var (
	// ErrInvalidFile is returned when a file part cannot be opened or measured.
	ErrInvalidFile = errors.New("invalid file. file not found or permission error")

	// ErrMalformedNestedBoundary is returned when a nested multipart node has
	// no valid boundary declaration in its Content-Type.
	ErrMalformedNestedBoundary = errors.New("malformed nested multipart boundary")

	// ErrInvalidBoundary is returned for boundaries violating RFC 2046.
	ErrInvalidBoundary = errors.New("invalid multipart boundary")

	// ErrFileChanged is returned while reading when a file ended before the
	// length measured at build time.
	ErrFileChanged = errors.New("file shrank after it was measured")

	// ErrStreamClosed is returned by Read after Close.
	ErrStreamClosed = errors.New("multipart stream closed")
)
