package session

import "errors"

var (
	// ErrMalformed indicates unparseable session data.
	ErrMalformed = errors.New("malformed session data")

	// ErrVersion indicates a session written by an incompatible format
	// version.
	ErrVersion = errors.New("unsupported session version")
)
