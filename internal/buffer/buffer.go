package buffer

import (
	"github.com/woodruff/vellum/internal/textstore"
)

// ID identifies a buffer. IDs start at 1; 0 is never a valid buffer.
type ID int

// SplitID identifies a split. IDs start at 1; 0 means "no split".
type SplitID int

// OriginKind identifies where a buffer's content comes from. The origin
// is fixed at creation and never changes.
type OriginKind uint8

// Buffer origins.
const (
	// OriginReal is file-backed content read through a textstore.Store.
	OriginReal OriginKind = iota

	// OriginVirtual is script-supplied content held as ordered entries.
	OriginVirtual
)

// Flags are the per-buffer behavior toggles.
type Flags struct {
	ReadOnly        bool
	EditingDisabled bool
	ShowLineNumbers bool
	ShowCursors     bool
}

// Buffer is one editable or read-only unit of text.
type Buffer struct {
	id     ID
	origin OriginKind
	mode   string
	flags  Flags

	// Real origin.
	path  string
	store textstore.Store

	// Virtual origin.
	name    string
	entries []Entry
}

// ID returns the buffer id.
func (b *Buffer) ID() ID {
	return b.id
}

// Origin returns the buffer's content origin.
func (b *Buffer) Origin() OriginKind {
	return b.origin
}

// Mode returns the buffer's mode name.
func (b *Buffer) Mode() string {
	return b.mode
}

// Flags returns the buffer's flags.
func (b *Buffer) Flags() Flags {
	return b.flags
}

// Path returns the file path of a real buffer, or "" for virtual ones.
func (b *Buffer) Path() string {
	return b.path
}

// Store returns the text store of a real buffer, or nil for virtual ones.
func (b *Buffer) Store() textstore.Store {
	return b.store
}

// Name returns the display name: the virtual buffer's name, or the real
// buffer's path.
func (b *Buffer) Name() string {
	if b.origin == OriginVirtual {
		return b.name
	}
	return b.path
}

// Entries returns the virtual buffer's entries. Nil for real buffers.
// The returned slice is shared; callers must not mutate it.
func (b *Buffer) Entries() []Entry {
	return b.entries
}
