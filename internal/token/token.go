package token

import (
	"fmt"

	"github.com/rivo/uniseg"
)

// Kind identifies the structural variant of a token.
type Kind uint8

// Token kinds.
const (
	// KindText is a run of display text.
	KindText Kind = iota

	// KindNewline ends the current display line.
	KindNewline

	// KindMarker is a structural marker with no buffer text behind it
	// (fold placeholders, inline widgets). The Text field holds its
	// display representation.
	KindMarker
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindNewline:
		return "Newline"
	case KindMarker:
		return "Marker"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// NoOffset marks a token that has no position in the owning buffer's real
// content. Synthetic decorations injected by scripts use it.
const NoOffset = -1

// Token is one unit of a buffer's rendered representation.
type Token struct {
	// Kind is the structural variant.
	Kind Kind

	// Text is the display payload for KindText and KindMarker.
	// Empty for KindNewline.
	Text string

	// SourceOffset is the byte offset into the owning buffer's real
	// content, or NoOffset for synthetic tokens.
	SourceOffset int

	// Style is the token's styling, or nil to inherit everything.
	Style *Style
}

// NewText creates a text token anchored at the given byte offset.
func NewText(offset int, text string) Token {
	return Token{Kind: KindText, Text: text, SourceOffset: offset}
}

// NewNewline creates a newline token anchored at the given byte offset.
func NewNewline(offset int) Token {
	return Token{Kind: KindNewline, SourceOffset: offset}
}

// Synthetic creates an offset-less text token (an injected decoration).
func Synthetic(text string) Token {
	return Token{Kind: KindText, Text: text, SourceOffset: NoOffset}
}

// IsSynthetic returns true if the token carries no source offset.
func (t Token) IsSynthetic() bool {
	return t.SourceOffset < 0
}

// Width returns the number of terminal cells the token occupies.
// Newlines have zero width.
func (t Token) Width() int {
	if t.Kind == KindNewline {
		return 0
	}
	return uniseg.StringWidth(t.Text)
}

// WithStyle returns a copy of the token with the given style attached.
func (t Token) WithStyle(s Style) Token {
	t.Style = &s
	return t
}

// Validate checks the ordering invariant over the offset-bearing
// subsequence of stream. Synthetic tokens are exempt and may appear
// anywhere. Returns nil if the stream is valid, or an error wrapping
// ErrNonMonotonic naming the first offending index.
func Validate(stream []Token) error {
	last := NoOffset
	for i, t := range stream {
		if t.IsSynthetic() {
			continue
		}
		if last != NoOffset && t.SourceOffset < last {
			return fmt.Errorf("token %d: offset %d after %d: %w",
				i, t.SourceOffset, last, ErrNonMonotonic)
		}
		last = t.SourceOffset
	}
	return nil
}
