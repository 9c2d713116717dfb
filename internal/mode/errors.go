package mode

import "errors"

var (
	// ErrUnknownMode indicates resolution against an undefined mode.
	ErrUnknownMode = errors.New("unknown mode")

	// ErrInvalidMode indicates a malformed mode definition.
	ErrInvalidMode = errors.New("invalid mode definition")

	// ErrInvalidCommand indicates a malformed command registration.
	ErrInvalidCommand = errors.New("invalid command registration")
)
