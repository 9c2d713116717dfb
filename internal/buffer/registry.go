package buffer

import (
	"fmt"

	"github.com/woodruff/vellum/internal/textstore"
)

// Registry owns all buffers and splits. It is confined to the event-loop
// goroutine and therefore unlocked.
type Registry struct {
	nextBuffer ID
	nextSplit  SplitID

	buffers map[ID]*Buffer
	splits  map[SplitID]*Split

	activeSplit SplitID
}

// Closed describes what a Close call tore down, so the caller can cancel
// pending transforms and drop buffer-scoped hook subscriptions.
type Closed struct {
	Buffer ID

	// Splits the buffer was detached from, in no particular order.
	Splits []SplitID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		buffers: make(map[ID]*Buffer),
		splits:  make(map[SplitID]*Split),
	}
}

// CreateReal registers a file-backed buffer reading through store.
func (r *Registry) CreateReal(path string, store textstore.Store) (ID, error) {
	if path == "" {
		return 0, fmt.Errorf("empty path: %w", ErrInvalidArgument)
	}
	if store == nil {
		return 0, fmt.Errorf("nil store: %w", ErrInvalidArgument)
	}

	r.nextBuffer++
	b := &Buffer{
		id:     r.nextBuffer,
		origin: OriginReal,
		path:   path,
		store:  store,
	}
	r.buffers[b.id] = b
	return b.id, nil
}

// CreateVirtual registers a script-supplied buffer.
func (r *Registry) CreateVirtual(name, mode string, entries []Entry, flags Flags) (ID, error) {
	if name == "" {
		return 0, fmt.Errorf("empty name: %w", ErrInvalidArgument)
	}

	r.nextBuffer++
	b := &Buffer{
		id:      r.nextBuffer,
		origin:  OriginVirtual,
		name:    name,
		mode:    mode,
		flags:   flags,
		entries: append([]Entry(nil), entries...),
	}
	r.buffers[b.id] = b
	return b.id, nil
}

// Buffer returns the buffer with the given id.
func (r *Registry) Buffer(id ID) (*Buffer, error) {
	b, ok := r.buffers[id]
	if !ok {
		return nil, fmt.Errorf("buffer %d: %w", id, ErrNotFound)
	}
	return b, nil
}

// Split returns the split with the given id.
func (r *Registry) Split(id SplitID) (*Split, error) {
	s, ok := r.splits[id]
	if !ok {
		return nil, fmt.Errorf("split %d: %w", id, ErrSplitNotFound)
	}
	return s, nil
}

// AttachToNewSplit creates a split showing the buffer. The new split
// becomes active.
func (r *Registry) AttachToNewSplit(id ID, ratio float64) (SplitID, error) {
	if _, err := r.Buffer(id); err != nil {
		return 0, err
	}
	if ratio <= 0 || ratio > 1 {
		ratio = 0.5
	}

	r.nextSplit++
	s := &Split{
		id:     r.nextSplit,
		buffer: id,
		ratio:  ratio,
	}
	r.splits[s.id] = s
	r.activeSplit = s.id
	return s.id, nil
}

// AttachToExistingSplit points an existing split at the buffer, replacing
// whatever it showed before. The viewport resets to the top.
func (r *Registry) AttachToExistingSplit(id ID, split SplitID) error {
	if _, err := r.Buffer(id); err != nil {
		return err
	}
	s, err := r.Split(split)
	if err != nil {
		return err
	}
	s.buffer = id
	s.viewport = Viewport{}
	return nil
}

// UpdateVirtualContent wholesale-replaces a virtual buffer's entries and
// returns every split currently showing the buffer, so the caller can
// trigger re-renders.
func (r *Registry) UpdateVirtualContent(id ID, entries []Entry) ([]SplitID, error) {
	b, err := r.Buffer(id)
	if err != nil {
		return nil, err
	}
	if b.origin != OriginVirtual {
		return nil, fmt.Errorf("buffer %d: %w", id, ErrNotVirtual)
	}

	b.entries = append([]Entry(nil), entries...)
	return r.SplitsShowing(id), nil
}

// SplitsShowing returns the ids of every split attached to the buffer.
func (r *Registry) SplitsShowing(id ID) []SplitID {
	var showing []SplitID
	for sid, s := range r.splits {
		if s.buffer == id {
			showing = append(showing, sid)
		}
	}
	return showing
}

// Close destroys the buffer: detaches it from every split and reports
// what was torn down. Fails with ErrNotFound for an unknown id.
func (r *Registry) Close(id ID) (Closed, error) {
	if _, err := r.Buffer(id); err != nil {
		return Closed{}, err
	}

	closed := Closed{Buffer: id}
	for sid, s := range r.splits {
		if s.buffer == id {
			s.buffer = 0
			s.viewport = Viewport{}
			closed.Splits = append(closed.Splits, sid)
		}
	}
	delete(r.buffers, id)
	return closed, nil
}

// SetViewport updates a split's viewport.
func (r *Registry) SetViewport(id SplitID, start, end int) error {
	s, err := r.Split(id)
	if err != nil {
		return err
	}
	if start < 0 || end < start {
		return fmt.Errorf("viewport [%d, %d): %w", start, end, ErrInvalidArgument)
	}
	s.viewport = Viewport{Start: start, End: end}
	return nil
}

// SetRatio updates a split's layout ratio.
func (r *Registry) SetRatio(id SplitID, ratio float64) error {
	s, err := r.Split(id)
	if err != nil {
		return err
	}
	if ratio <= 0 || ratio > 1 {
		return fmt.Errorf("ratio %v: %w", ratio, ErrInvalidArgument)
	}
	s.ratio = ratio
	return nil
}

// ActiveSplit returns the active split id, or 0 if none.
func (r *Registry) ActiveSplit() SplitID {
	return r.activeSplit
}

// SetActiveSplit marks a split active.
func (r *Registry) SetActiveSplit(id SplitID) error {
	if _, err := r.Split(id); err != nil {
		return err
	}
	r.activeSplit = id
	return nil
}

// ActiveBuffer returns the buffer shown in the active split, or 0.
func (r *Registry) ActiveBuffer() ID {
	s, ok := r.splits[r.activeSplit]
	if !ok {
		return 0
	}
	return s.buffer
}

// Buffers returns all buffer ids, unordered.
func (r *Registry) Buffers() []ID {
	ids := make([]ID, 0, len(r.buffers))
	for id := range r.buffers {
		ids = append(ids, id)
	}
	return ids
}

// Splits returns all split ids, unordered.
func (r *Registry) Splits() []SplitID {
	ids := make([]SplitID, 0, len(r.splits))
	for id := range r.splits {
		ids = append(ids, id)
	}
	return ids
}
