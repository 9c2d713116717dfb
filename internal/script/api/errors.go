package api

import "errors"

// ErrInvalidArgument marks provider failures that should surface to the
// script as a raised error (unknown mode, malformed options). Other
// provider errors surface as a nil return instead.
var ErrInvalidArgument = errors.New("invalid argument")
