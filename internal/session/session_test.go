package session

import (
	"errors"
	"fmt"
	"testing"

	"github.com/tidwall/gjson"
	"github.com/woodruff/vellum/internal/buffer"
	"github.com/woodruff/vellum/internal/textstore"
)

func TestCaptureEncodeDecode(t *testing.T) {
	reg := buffer.NewRegistry()

	real, _ := reg.CreateReal("/tmp/notes.txt", textstore.NewMemStore("hello"))
	rsid, _ := reg.AttachToNewSplit(real, 0.7)
	_ = reg.SetViewport(rsid, 0, 5)

	virt, _ := reg.CreateVirtual("*git-log*", "git-log", nil, buffer.Flags{ReadOnly: true})
	_, _ = reg.AttachToNewSplit(virt, 0.3)

	st := Capture(reg)
	if len(st.Splits) != 2 {
		t.Fatalf("splits = %d", len(st.Splits))
	}

	data, err := Encode(st)
	if err != nil {
		t.Fatal(err)
	}
	if !gjson.Valid(data) {
		t.Fatalf("invalid JSON: %s", data)
	}
	if gjson.Get(data, "version").Int() != Version {
		t.Errorf("version = %s", gjson.Get(data, "version").Raw)
	}
	if gjson.Get(data, "splits.0.path").String() != "/tmp/notes.txt" {
		t.Errorf("splits.0 = %s", gjson.Get(data, "splits.0").Raw)
	}
	if gjson.Get(data, "splits.1.virtual").String() != "*git-log*" {
		t.Errorf("splits.1 = %s", gjson.Get(data, "splits.1").Raw)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.ActiveSplit != st.ActiveSplit {
		t.Errorf("active split = %d, want %d", decoded.ActiveSplit, st.ActiveSplit)
	}
	if decoded.Splits[0] != st.Splits[0] || decoded.Splits[1] != st.Splits[1] {
		t.Errorf("decoded = %+v, want %+v", decoded.Splits, st.Splits)
	}
}

func TestDecodeMalformed(t *testing.T) {
	if _, err := Decode("{not json"); !errors.Is(err, ErrMalformed) {
		t.Errorf("err = %v, want ErrMalformed", err)
	}
	if _, err := Decode(`{"version": 99, "splits": []}`); !errors.Is(err, ErrVersion) {
		t.Errorf("err = %v, want ErrVersion", err)
	}
	if _, err := Decode(`{"splits": []}`); !errors.Is(err, ErrVersion) {
		t.Errorf("missing version: err = %v", err)
	}
}

func TestRestore(t *testing.T) {
	st := State{
		Version: Version,
		Splits: []SplitState{
			{ID: 1, Path: "/tmp/a.txt", ViewStart: 2, ViewEnd: 7, Ratio: 0.6},
			{ID: 2, Virtual: "*scratch*", Ratio: 0.4},
			{ID: 3, Path: "/tmp/gone.txt", Ratio: 0.5},
		},
	}

	reg := buffer.NewRegistry()
	err := Restore(reg, st, func(path string) (textstore.Store, error) {
		if path == "/tmp/gone.txt" {
			return nil, fmt.Errorf("open %s: no such file", path)
		}
		return textstore.NewMemStore("0123456789"), nil
	})
	if err != nil {
		t.Fatal(err)
	}

	// Only the readable real buffer comes back; the virtual split is
	// left for its script, the unreadable file is skipped.
	if got := len(reg.Buffers()); got != 1 {
		t.Fatalf("buffers = %d", got)
	}
	sids := reg.Splits()
	if len(sids) != 1 {
		t.Fatalf("splits = %d", len(sids))
	}
	s, _ := reg.Split(sids[0])
	if s.Viewport() != (buffer.Viewport{Start: 2, End: 7}) {
		t.Errorf("viewport = %+v", s.Viewport())
	}
	if s.Ratio() != 0.6 {
		t.Errorf("ratio = %v", s.Ratio())
	}
}

func TestRestoreVersionMismatch(t *testing.T) {
	reg := buffer.NewRegistry()
	err := Restore(reg, State{Version: 99}, func(string) (textstore.Store, error) {
		return textstore.NewMemStore(""), nil
	})
	if !errors.Is(err, ErrVersion) {
		t.Errorf("err = %v, want ErrVersion", err)
	}
}
