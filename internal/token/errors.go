package token

import "errors"

// Package errors.
var (
	// ErrNonMonotonic indicates a stream whose offset-bearing tokens
	// are not in non-decreasing order.
	ErrNonMonotonic = errors.New("non-monotonic source offsets")

	// ErrInvalidToken indicates a malformed wire-shape token.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidColor indicates an unparseable color value.
	ErrInvalidColor = errors.New("invalid color")
)
