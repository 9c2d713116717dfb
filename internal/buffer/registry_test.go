package buffer

import (
	"errors"
	"testing"

	"github.com/woodruff/vellum/internal/textstore"
)

func TestCreateReal(t *testing.T) {
	r := NewRegistry()

	id, err := r.CreateReal("/tmp/a.txt", textstore.NewMemStore("abc"))
	if err != nil {
		t.Fatalf("CreateReal: %v", err)
	}

	b, err := r.Buffer(id)
	if err != nil {
		t.Fatalf("Buffer: %v", err)
	}
	if b.Origin() != OriginReal {
		t.Errorf("origin = %v, want OriginReal", b.Origin())
	}
	if b.Path() != "/tmp/a.txt" {
		t.Errorf("path = %q", b.Path())
	}
}

func TestCreateRealValidation(t *testing.T) {
	r := NewRegistry()

	if _, err := r.CreateReal("", textstore.NewMemStore("")); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("empty path: err = %v", err)
	}
	if _, err := r.CreateReal("/x", nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil store: err = %v", err)
	}
}

func TestCreateVirtual(t *testing.T) {
	r := NewRegistry()

	entries := []Entry{
		NewEntry("commit abc123").WithProperty("commit", StringValue("abc123")),
		NewEntry("commit def456"),
	}
	id, err := r.CreateVirtual("*git-log*", "log", entries, Flags{ReadOnly: true})
	if err != nil {
		t.Fatalf("CreateVirtual: %v", err)
	}

	b, _ := r.Buffer(id)
	if b.Origin() != OriginVirtual {
		t.Errorf("origin = %v, want OriginVirtual", b.Origin())
	}
	if b.Name() != "*git-log*" {
		t.Errorf("name = %q", b.Name())
	}
	if !b.Flags().ReadOnly {
		t.Error("flags.ReadOnly should be set")
	}
	if len(b.Entries()) != 2 {
		t.Fatalf("entries = %d, want 2", len(b.Entries()))
	}
	if got := b.Entries()[0].Properties["commit"]; got.Str != "abc123" {
		t.Errorf("property = %+v", got)
	}
}

func TestAttachToNewSplit(t *testing.T) {
	r := NewRegistry()
	id, _ := r.CreateVirtual("v", "", nil, Flags{})

	sid, err := r.AttachToNewSplit(id, 0.5)
	if err != nil {
		t.Fatalf("AttachToNewSplit: %v", err)
	}
	if r.ActiveSplit() != sid {
		t.Error("new split should become active")
	}
	if r.ActiveBuffer() != id {
		t.Error("active buffer should follow the active split")
	}

	s, _ := r.Split(sid)
	if s.Buffer() != id {
		t.Errorf("split buffer = %d, want %d", s.Buffer(), id)
	}
}

func TestAttachToExistingSplit(t *testing.T) {
	r := NewRegistry()
	a, _ := r.CreateVirtual("a", "", nil, Flags{})
	b, _ := r.CreateVirtual("b", "", nil, Flags{})
	sid, _ := r.AttachToNewSplit(a, 0.5)
	_ = r.SetViewport(sid, 10, 20)

	if err := r.AttachToExistingSplit(b, sid); err != nil {
		t.Fatalf("AttachToExistingSplit: %v", err)
	}

	s, _ := r.Split(sid)
	if s.Buffer() != b {
		t.Errorf("split buffer = %d, want %d", s.Buffer(), b)
	}
	if s.Viewport() != (Viewport{}) {
		t.Errorf("viewport should reset, got %+v", s.Viewport())
	}
}

func TestAttachUnknownIDs(t *testing.T) {
	r := NewRegistry()
	id, _ := r.CreateVirtual("v", "", nil, Flags{})

	if _, err := r.AttachToNewSplit(999, 0.5); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown buffer: err = %v", err)
	}
	if err := r.AttachToExistingSplit(id, 999); !errors.Is(err, ErrSplitNotFound) {
		t.Errorf("unknown split: err = %v", err)
	}
}

func TestUpdateVirtualContent(t *testing.T) {
	r := NewRegistry()
	id, _ := r.CreateVirtual("v", "", []Entry{NewEntry("old")}, Flags{})
	s1, _ := r.AttachToNewSplit(id, 0.5)
	s2, _ := r.AttachToNewSplit(id, 0.5)

	showing, err := r.UpdateVirtualContent(id, []Entry{NewEntry("new1"), NewEntry("new2")})
	if err != nil {
		t.Fatalf("UpdateVirtualContent: %v", err)
	}
	if len(showing) != 2 {
		t.Fatalf("showing = %v, want both splits", showing)
	}
	seen := map[SplitID]bool{}
	for _, sid := range showing {
		seen[sid] = true
	}
	if !seen[s1] || !seen[s2] {
		t.Errorf("showing = %v, want {%d, %d}", showing, s1, s2)
	}

	b, _ := r.Buffer(id)
	if len(b.Entries()) != 2 || b.Entries()[0].Text != "new1" {
		t.Errorf("entries = %+v", b.Entries())
	}
}

func TestUpdateVirtualContentOnRealBuffer(t *testing.T) {
	r := NewRegistry()
	id, _ := r.CreateReal("/x", textstore.NewMemStore(""))

	if _, err := r.UpdateVirtualContent(id, nil); !errors.Is(err, ErrNotVirtual) {
		t.Errorf("err = %v, want ErrNotVirtual", err)
	}
}

func TestClose(t *testing.T) {
	r := NewRegistry()
	id, _ := r.CreateVirtual("v", "", nil, Flags{})
	sid, _ := r.AttachToNewSplit(id, 0.5)

	closed, err := r.Close(id)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if closed.Buffer != id {
		t.Errorf("closed.Buffer = %d", closed.Buffer)
	}
	if len(closed.Splits) != 1 || closed.Splits[0] != sid {
		t.Errorf("closed.Splits = %v", closed.Splits)
	}

	if _, err := r.Buffer(id); !errors.Is(err, ErrNotFound) {
		t.Error("buffer should be gone after close")
	}
	s, _ := r.Split(sid)
	if s.Buffer() != 0 {
		t.Error("split should be detached after close")
	}
}

func TestCloseUnknown(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Close(42); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateVirtualContentCopiesEntries(t *testing.T) {
	r := NewRegistry()
	entries := []Entry{NewEntry("a")}
	id, _ := r.CreateVirtual("v", "", entries, Flags{})

	entries[0].Text = "mutated"
	b, _ := r.Buffer(id)
	if b.Entries()[0].Text != "a" {
		t.Error("registry should hold its own copy of entries")
	}
}
