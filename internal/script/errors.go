package script

import (
	"errors"
	"fmt"
)

var (
	// ErrStateClosed is returned when using a closed state or host.
	ErrStateClosed = errors.New("script state is closed")

	// ErrUnknownAction indicates an action name that resolves to no
	// function in the script state.
	ErrUnknownAction = errors.New("unknown action")
)

// Fault wraps an error raised inside a script handler. Faults are
// isolated per invocation: they are logged and surfaced to the caller,
// never propagated as a crash.
type Fault struct {
	Action string
	Err    error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("script fault in %q: %v", f.Action, f.Err)
}

func (f *Fault) Unwrap() error { return f.Err }
