// Package session captures and restores the split layout between runs:
// which buffers were open, how splits were sized, and where each
// viewport sat. Virtual buffers persist by name only; their content is
// script-supplied and regenerated on startup.
package session

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/woodruff/vellum/internal/buffer"
	"github.com/woodruff/vellum/internal/textstore"
)

// Version of the session wire format.
const Version = 1

// SplitState is one persisted split.
type SplitState struct {
	ID        int
	Path      string // real buffer file path, empty for virtual
	Virtual   string // virtual buffer name, empty for real
	ViewStart int
	ViewEnd   int
	Ratio     float64
}

// State is a persisted session layout.
type State struct {
	Version     int
	ActiveSplit int
	Splits      []SplitState
}

// Capture snapshots the registry's split layout.
func Capture(reg *buffer.Registry) State {
	st := State{
		Version:     Version,
		ActiveSplit: int(reg.ActiveSplit()),
	}
	for _, sid := range reg.Splits() {
		s, err := reg.Split(sid)
		if err != nil {
			continue
		}
		ss := SplitState{
			ID:        int(s.ID()),
			ViewStart: s.Viewport().Start,
			ViewEnd:   s.Viewport().End,
			Ratio:     s.Ratio(),
		}
		if b, err := reg.Buffer(s.Buffer()); err == nil {
			if b.Origin() == buffer.OriginVirtual {
				ss.Virtual = b.Name()
			} else {
				ss.Path = b.Path()
			}
		}
		st.Splits = append(st.Splits, ss)
	}
	return st
}

// Encode serializes a state to JSON.
func Encode(st State) (string, error) {
	out := "{}"
	var err error
	if out, err = sjson.Set(out, "version", st.Version); err != nil {
		return "", err
	}
	if out, err = sjson.Set(out, "active_split", st.ActiveSplit); err != nil {
		return "", err
	}
	if out, err = sjson.Set(out, "splits", []any{}); err != nil {
		return "", err
	}
	for i, s := range st.Splits {
		prefix := fmt.Sprintf("splits.%d.", i)
		if out, err = sjson.Set(out, prefix+"id", s.ID); err != nil {
			return "", err
		}
		if s.Virtual != "" {
			out, err = sjson.Set(out, prefix+"virtual", s.Virtual)
		} else {
			out, err = sjson.Set(out, prefix+"path", s.Path)
		}
		if err != nil {
			return "", err
		}
		if out, err = sjson.Set(out, prefix+"viewport.start", s.ViewStart); err != nil {
			return "", err
		}
		if out, err = sjson.Set(out, prefix+"viewport.end", s.ViewEnd); err != nil {
			return "", err
		}
		if out, err = sjson.Set(out, prefix+"ratio", s.Ratio); err != nil {
			return "", err
		}
	}
	return out, nil
}

// Decode parses a persisted session.
func Decode(data string) (State, error) {
	if !gjson.Valid(data) {
		return State{}, ErrMalformed
	}
	version := gjson.Get(data, "version")
	if !version.Exists() || version.Int() != Version {
		return State{}, fmt.Errorf("session version %d: %w", version.Int(), ErrVersion)
	}

	st := State{
		Version:     int(version.Int()),
		ActiveSplit: int(gjson.Get(data, "active_split").Int()),
	}
	for _, s := range gjson.Get(data, "splits").Array() {
		st.Splits = append(st.Splits, SplitState{
			ID:        int(s.Get("id").Int()),
			Path:      s.Get("path").String(),
			Virtual:   s.Get("virtual").String(),
			ViewStart: int(s.Get("viewport.start").Int()),
			ViewEnd:   int(s.Get("viewport.end").Int()),
			Ratio:     s.Get("ratio").Num,
		})
	}
	return st, nil
}

// Restore rebuilds real-buffer splits in the registry. open loads the
// backing store for a path; a path that fails to open is skipped, the
// rest of the layout still comes back. Virtual splits are skipped
// entirely; the scripts that created them recreate them.
func Restore(reg *buffer.Registry, st State, open func(path string) (textstore.Store, error)) error {
	if st.Version != Version {
		return fmt.Errorf("session version %d: %w", st.Version, ErrVersion)
	}
	for _, s := range st.Splits {
		if s.Path == "" {
			continue
		}
		store, err := open(s.Path)
		if err != nil {
			continue
		}
		id, err := reg.CreateReal(s.Path, store)
		if err != nil {
			continue
		}
		sid, err := reg.AttachToNewSplit(id, s.Ratio)
		if err != nil {
			continue
		}
		_ = reg.SetViewport(sid, s.ViewStart, s.ViewEnd)
	}
	return nil
}
