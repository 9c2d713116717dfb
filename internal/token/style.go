package token

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is a 24-bit true color.
type RGB struct {
	R, G, B uint8
}

// Hex parses a color from a hex string ("#rrggbb" or "#rgb").
func Hex(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("%q: %w", s, ErrInvalidColor)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// Hex returns the "#rrggbb" representation of the color.
func (c RGB) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Hex()
}

// Style is the visual styling of a token. Nil color pointers and false
// flags mean "inherit from the underlying style".
type Style struct {
	Fg     *RGB
	Bg     *RGB
	Bold   bool
	Italic bool
}

// WithFg returns a copy of the style with the foreground set.
func (s Style) WithFg(c RGB) Style {
	s.Fg = &c
	return s
}

// WithBg returns a copy of the style with the background set.
func (s Style) WithBg(c RGB) Style {
	s.Bg = &c
	return s
}

// Merge combines two styles. The other style overrides only the fields it
// explicitly sets: non-nil colors replace, flags are OR'd.
func (s Style) Merge(other Style) Style {
	result := s
	if other.Fg != nil {
		result.Fg = other.Fg
	}
	if other.Bg != nil {
		result.Bg = other.Bg
	}
	result.Bold = result.Bold || other.Bold
	result.Italic = result.Italic || other.Italic
	return result
}

// IsZero returns true if the style sets nothing.
func (s Style) IsZero() bool {
	return s.Fg == nil && s.Bg == nil && !s.Bold && !s.Italic
}

// Equals returns true if two styles are identical.
func (s Style) Equals(other Style) bool {
	if s.Bold != other.Bold || s.Italic != other.Italic {
		return false
	}
	if !rgbPtrEqual(s.Fg, other.Fg) {
		return false
	}
	return rgbPtrEqual(s.Bg, other.Bg)
}

func rgbPtrEqual(a, b *RGB) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
