package buffer

// Viewport is the rendered byte range a split currently shows.
type Viewport struct {
	Start int
	End   int
}

// Split is a pane showing one buffer's viewport. A split holds a
// non-owning reference to at most one buffer at a time.
type Split struct {
	id       SplitID
	buffer   ID // 0 = nothing attached
	viewport Viewport
	ratio    float64
}

// ID returns the split id.
func (s *Split) ID() SplitID {
	return s.id
}

// Buffer returns the attached buffer id, or 0 if none.
func (s *Split) Buffer() ID {
	return s.buffer
}

// Viewport returns the split's current viewport.
func (s *Split) Viewport() Viewport {
	return s.viewport
}

// Ratio returns the split's layout ratio relative to its siblings.
func (s *Split) Ratio() float64 {
	return s.ratio
}
