package buffer

import "errors"

// Package errors.
var (
	// ErrNotFound indicates an unknown buffer id.
	ErrNotFound = errors.New("buffer not found")

	// ErrSplitNotFound indicates an unknown split id.
	ErrSplitNotFound = errors.New("split not found")

	// ErrInvalidArgument indicates malformed options or entries.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotVirtual indicates a content update against a real buffer.
	ErrNotVirtual = errors.New("buffer is not virtual")
)
