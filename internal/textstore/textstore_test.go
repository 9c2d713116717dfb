package textstore

import (
	"errors"
	"testing"
)

func TestReadRange(t *testing.T) {
	s := NewMemStore("hello\nworld")

	got, err := s.ReadRange(0, 5)
	if err != nil {
		t.Fatalf("ReadRange: %v", err)
	}
	if got != "hello" {
		t.Errorf("got %q", got)
	}
}

func TestReadRangeClampsEnd(t *testing.T) {
	s := NewMemStore("abc")
	got, err := s.ReadRange(1, 100)
	if err != nil {
		t.Fatalf("ReadRange: %v", err)
	}
	if got != "bc" {
		t.Errorf("got %q", got)
	}
}

func TestReadRangeErrors(t *testing.T) {
	s := NewMemStore("abc")

	if _, err := s.ReadRange(4, 5); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("start beyond content: err = %v", err)
	}
	if _, err := s.ReadRange(2, 1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("end before start: err = %v", err)
	}
	if _, err := s.ReadRange(-1, 2); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("negative start: err = %v", err)
	}
}
