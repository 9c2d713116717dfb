package view

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/woodruff/vellum/internal/buffer"
	"github.com/woodruff/vellum/internal/textstore"
	"github.com/woodruff/vellum/internal/token"
)

func TestTokenizeRealOffsets(t *testing.T) {
	store := textstore.NewMemStore("abc\ndef\n")

	got, err := tokenizeReal(store, buffer.Viewport{Start: 0, End: 8})
	if err != nil {
		t.Fatal(err)
	}
	want := []token.Token{
		token.NewText(0, "abc"),
		token.NewNewline(3),
		token.NewText(4, "def"),
		token.NewNewline(7),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens (-want +got):\n%s", diff)
	}
}

func TestTokenizeRealMidLineViewport(t *testing.T) {
	store := textstore.NewMemStore("abc\ndef\n")

	// A viewport starting mid-line keeps byte offsets exact.
	got, err := tokenizeReal(store, buffer.Viewport{Start: 2, End: 6})
	if err != nil {
		t.Fatal(err)
	}
	want := []token.Token{
		token.NewText(2, "c"),
		token.NewNewline(3),
		token.NewText(4, "de"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens (-want +got):\n%s", diff)
	}
}

func TestTokenizeRealClampsViewport(t *testing.T) {
	store := textstore.NewMemStore("ab")

	got, err := tokenizeReal(store, buffer.Viewport{Start: -3, End: 99})
	if err != nil {
		t.Fatal(err)
	}
	want := []token.Token{token.NewText(0, "ab")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens (-want +got):\n%s", diff)
	}
}

func TestTokenizeRealEmptyViewport(t *testing.T) {
	store := textstore.NewMemStore("ab")

	got, err := tokenizeReal(store, buffer.Viewport{Start: 1, End: 1})
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("tokens = %+v, want none", got)
	}
}

func TestTokenizeRealLeadingNewline(t *testing.T) {
	store := textstore.NewMemStore("\nx")

	got, err := tokenizeReal(store, buffer.Viewport{Start: 0, End: 2})
	if err != nil {
		t.Fatal(err)
	}
	want := []token.Token{
		token.NewNewline(0),
		token.NewText(1, "x"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens (-want +got):\n%s", diff)
	}
}

func TestTokenizeVirtualEntryRange(t *testing.T) {
	entries := []buffer.Entry{
		buffer.NewEntry("one").WithOffset(10),
		buffer.NewEntry("two").WithOffset(20),
		buffer.NewEntry("three").WithOffset(30),
	}

	got := tokenizeVirtual(entries, buffer.Viewport{Start: 1, End: 2})
	if len(got) != 2 {
		t.Fatalf("tokens = %d, want text+newline for one entry", len(got))
	}
	if got[0].Text != "two" || got[0].SourceOffset != 20 {
		t.Errorf("token = %+v", got[0])
	}
	if got[1].Kind != token.KindNewline || got[1].SourceOffset != token.NoOffset {
		t.Errorf("separator = %+v, want synthetic newline", got[1])
	}
}

func TestTokenizeVirtualClamps(t *testing.T) {
	entries := []buffer.Entry{buffer.NewEntry("only")}

	if got := tokenizeVirtual(entries, buffer.Viewport{Start: 0, End: 10}); len(got) != 2 {
		t.Errorf("tokens = %d", len(got))
	}
	if got := tokenizeVirtual(entries, buffer.Viewport{Start: 5, End: 10}); got != nil {
		t.Errorf("out-of-range viewport should yield nothing, got %+v", got)
	}
}
