package stream

import "errors"

// Sentinel errors for stream operations.
var (
	// ErrFatalWrite indicates a filter reported an unrecoverable error for a chunk.
	ErrFatalWrite = errors.New("fatal write error reported by filter")

	// ErrClosed indicates the stream has been closed.
	ErrClosed = errors.New("stream closed")

	// ErrFilterNotRegistered indicates no factory matches the requested filter name.
	ErrFilterNotRegistered = errors.New("filter not registered")

	// ErrFilterNotFound indicates the filter token is not attached to the stream.
	ErrFilterNotFound = errors.New("filter not attached to stream")

	// ErrPartialConsume indicates a filter consumed less than the chunk it was given.
	ErrPartialConsume = errors.New("filter did not consume the whole chunk")
)
