package token

import "fmt"

// Wire shape used across the script boundary:
//
//	{
//	  source_offset = 12 | nil,
//	  kind = "Newline" | { Text = "..." } | { Marker = "..." },
//	  style = { fg = {r,g,b} | "#rrggbb" | nil, bg = ..., bold = false, italic = false },
//	}
//
// Encode and Decode translate between []Token and the generic values the
// Lua bridge produces, so no package above this one touches the raw shape.

// Encode converts a token stream to its wire representation.
func Encode(stream []Token) []any {
	out := make([]any, len(stream))
	for i, t := range stream {
		out[i] = EncodeOne(t)
	}
	return out
}

// EncodeOne converts a single token to its wire representation.
func EncodeOne(t Token) map[string]any {
	m := make(map[string]any, 3)

	if !t.IsSynthetic() {
		m["source_offset"] = int64(t.SourceOffset)
	}

	switch t.Kind {
	case KindNewline:
		m["kind"] = "Newline"
	case KindMarker:
		m["kind"] = map[string]any{"Marker": t.Text}
	default:
		m["kind"] = map[string]any{"Text": t.Text}
	}

	if t.Style != nil {
		m["style"] = encodeStyle(*t.Style)
	}
	return m
}

func encodeStyle(s Style) map[string]any {
	m := map[string]any{
		"bold":   s.Bold,
		"italic": s.Italic,
	}
	if s.Fg != nil {
		m["fg"] = []any{int64(s.Fg.R), int64(s.Fg.G), int64(s.Fg.B)}
	}
	if s.Bg != nil {
		m["bg"] = []any{int64(s.Bg.R), int64(s.Bg.G), int64(s.Bg.B)}
	}
	return m
}

// Decode converts a wire-shaped token list back to a token stream.
func Decode(v any) ([]Token, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("token list is %T, not a sequence: %w", v, ErrInvalidToken)
	}
	stream := make([]Token, 0, len(list))
	for i, item := range list {
		t, err := DecodeOne(item)
		if err != nil {
			return nil, fmt.Errorf("token %d: %w", i, err)
		}
		stream = append(stream, t)
	}
	return stream, nil
}

// DecodeOne converts a single wire-shaped token.
func DecodeOne(v any) (Token, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return Token{}, fmt.Errorf("token is %T, not a mapping: %w", v, ErrInvalidToken)
	}

	t := Token{SourceOffset: NoOffset}

	if raw, ok := m["source_offset"]; ok && raw != nil {
		n, ok := asInt(raw)
		if !ok || n < 0 {
			return Token{}, fmt.Errorf("source_offset %v: %w", raw, ErrInvalidToken)
		}
		t.SourceOffset = n
	}

	switch kind := m["kind"].(type) {
	case string:
		if kind != "Newline" {
			return Token{}, fmt.Errorf("kind %q: %w", kind, ErrInvalidToken)
		}
		t.Kind = KindNewline
	case map[string]any:
		if text, ok := kind["Text"].(string); ok {
			t.Kind = KindText
			t.Text = text
		} else if text, ok := kind["Marker"].(string); ok {
			t.Kind = KindMarker
			t.Text = text
		} else {
			return Token{}, fmt.Errorf("kind tag: %w", ErrInvalidToken)
		}
	default:
		return Token{}, fmt.Errorf("kind is %T: %w", m["kind"], ErrInvalidToken)
	}

	if raw, ok := m["style"]; ok && raw != nil {
		sm, ok := raw.(map[string]any)
		if !ok {
			return Token{}, fmt.Errorf("style is %T: %w", raw, ErrInvalidToken)
		}
		s, err := decodeStyle(sm)
		if err != nil {
			return Token{}, err
		}
		if !s.IsZero() {
			t.Style = &s
		}
	}

	return t, nil
}

func decodeStyle(m map[string]any) (Style, error) {
	var s Style

	if b, ok := m["bold"].(bool); ok {
		s.Bold = b
	}
	if b, ok := m["italic"].(bool); ok {
		s.Italic = b
	}

	fg, err := decodeColor(m["fg"])
	if err != nil {
		return Style{}, fmt.Errorf("fg: %w", err)
	}
	s.Fg = fg

	bg, err := decodeColor(m["bg"])
	if err != nil {
		return Style{}, fmt.Errorf("bg: %w", err)
	}
	s.Bg = bg

	return s, nil
}

// decodeColor accepts a {r,g,b} sequence, a "#rrggbb" string, or nil.
func decodeColor(v any) (*RGB, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		c, err := Hex(val)
		if err != nil {
			return nil, err
		}
		return &c, nil
	case []any:
		if len(val) != 3 {
			return nil, fmt.Errorf("color has %d components: %w", len(val), ErrInvalidColor)
		}
		var comps [3]uint8
		for i, raw := range val {
			n, ok := asInt(raw)
			if !ok || n < 0 || n > 255 {
				return nil, fmt.Errorf("component %v: %w", raw, ErrInvalidColor)
			}
			comps[i] = uint8(n)
		}
		return &RGB{R: comps[0], G: comps[1], B: comps[2]}, nil
	default:
		return nil, fmt.Errorf("color is %T: %w", v, ErrInvalidColor)
	}
}

// asInt normalizes the numeric types the Lua bridge produces.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
