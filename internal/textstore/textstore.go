// Package textstore defines the narrow interface the extension core uses
// to read file-backed buffer content. The real rope/gap-buffer engine
// lives outside this module; MemStore is the in-memory implementation
// used by tests and the demo entrypoint.
package textstore

import (
	"errors"
	"fmt"
)

// ErrOutOfRange indicates a read outside the store's content.
var ErrOutOfRange = errors.New("range outside store content")

// Store answers byte-range queries for a buffer's real content.
type Store interface {
	// Len returns the content length in bytes.
	Len() int

	// ReadRange returns the bytes in [start, end). End is clamped to
	// the content length; a start beyond the content is an error.
	ReadRange(start, end int) (string, error)
}

// MemStore is a Store over an in-memory string.
type MemStore struct {
	content string
}

// NewMemStore creates a store over the given content.
func NewMemStore(content string) *MemStore {
	return &MemStore{content: content}
}

// Len returns the content length in bytes.
func (s *MemStore) Len() int {
	return len(s.content)
}

// ReadRange returns the bytes in [start, end), clamping end.
func (s *MemStore) ReadRange(start, end int) (string, error) {
	if start < 0 || start > len(s.content) {
		return "", fmt.Errorf("start %d of %d: %w", start, len(s.content), ErrOutOfRange)
	}
	if end < start {
		return "", fmt.Errorf("end %d before start %d: %w", end, start, ErrOutOfRange)
	}
	if end > len(s.content) {
		end = len(s.content)
	}
	return s.content[start:end], nil
}

// SetContent replaces the store's content. Test helper.
func (s *MemStore) SetContent(content string) {
	s.content = content
}
