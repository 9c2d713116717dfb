package key

import "errors"

// ErrInvalidChord indicates an unparseable chord spec.
var ErrInvalidChord = errors.New("invalid chord spec")
