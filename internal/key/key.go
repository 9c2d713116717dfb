// Package key models key chords for binding resolution. Chords arrive
// from the terminal as tcell events and from scripts as spec strings
// ("ctrl+s", "enter", "g"); both normalize to the same canonical form so
// a binding table can be keyed by Chord.String().
package key

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// Chord is a single keypress with modifiers.
type Chord struct {
	// Key identifies the key; tcell.KeyRune for printable input.
	Key tcell.Key

	// Rune is the character for KeyRune chords.
	Rune rune

	// Mods are the active modifiers. Shift is dropped for rune chords
	// because it is already part of the character.
	Mods tcell.ModMask
}

// RuneChord creates a chord for a printable character.
func RuneChord(r rune) Chord {
	return Chord{Key: tcell.KeyRune, Rune: r}
}

// FromEvent normalizes a terminal key event into a chord.
func FromEvent(ev *tcell.EventKey) Chord {
	k, r, mods := ev.Key(), ev.Rune(), ev.Modifiers()

	// tcell reports ctrl+letter as a dedicated key code; fold it back
	// to a rune chord so "ctrl+a" bindings match. Tab (ctrl-i) and
	// Enter (ctrl-m) keep their structural identity.
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ && k != tcell.KeyTab && k != tcell.KeyEnter {
		r = rune('a' + (k - tcell.KeyCtrlA))
		k = tcell.KeyRune
		mods |= tcell.ModCtrl
	}

	if k == tcell.KeyRune {
		// Shift is already folded into the rune.
		mods &^= tcell.ModShift
	}
	return Chord{Key: k, Rune: r, Mods: mods}
}

// IsPrintable returns true for an unmodified printable character chord,
// the kind default insertion accepts.
func (c Chord) IsPrintable() bool {
	return c.Key == tcell.KeyRune &&
		c.Mods&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) == 0 &&
		unicode.IsPrint(c.Rune)
}

// String returns the canonical spec: lowercase modifiers joined by "+",
// then the key name ("ctrl+s", "alt+enter", "g").
func (c Chord) String() string {
	var parts []string
	if c.Mods&tcell.ModCtrl != 0 {
		parts = append(parts, "ctrl")
	}
	if c.Mods&tcell.ModAlt != 0 {
		parts = append(parts, "alt")
	}
	if c.Mods&tcell.ModMeta != 0 {
		parts = append(parts, "meta")
	}
	if c.Mods&tcell.ModShift != 0 && c.Key != tcell.KeyRune {
		parts = append(parts, "shift")
	}
	parts = append(parts, c.keyName())
	return strings.Join(parts, "+")
}

func (c Chord) keyName() string {
	if c.Key == tcell.KeyRune {
		return string(c.Rune)
	}
	if name, ok := keyNames[c.Key]; ok {
		return name
	}
	return fmt.Sprintf("key(%d)", int(c.Key))
}

// Parse parses a chord spec string. Specs are case-insensitive for
// modifiers and named keys; a single trailing character is taken
// literally ("G" and "g" are different chords).
func Parse(spec string) (Chord, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Chord{}, fmt.Errorf("empty chord spec: %w", ErrInvalidChord)
	}

	parts := strings.Split(spec, "+")
	keyPart := parts[len(parts)-1]

	var mods tcell.ModMask
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "ctrl", "c":
			mods |= tcell.ModCtrl
		case "alt", "a":
			mods |= tcell.ModAlt
		case "meta", "m", "cmd":
			mods |= tcell.ModMeta
		case "shift", "s":
			mods |= tcell.ModShift
		default:
			return Chord{}, fmt.Errorf("unknown modifier %q: %w", p, ErrInvalidChord)
		}
	}

	lower := strings.ToLower(keyPart)
	if lower == "space" {
		mods &^= tcell.ModShift
		return Chord{Key: tcell.KeyRune, Rune: ' ', Mods: mods}, nil
	}
	if k, ok := namedKeys[lower]; ok {
		return Chord{Key: k, Mods: mods}, nil
	}

	runes := []rune(keyPart)
	if len(runes) != 1 {
		return Chord{}, fmt.Errorf("unknown key %q: %w", keyPart, ErrInvalidChord)
	}
	// Shift is meaningless on a rune chord; the character carries it.
	mods &^= tcell.ModShift
	return Chord{Key: tcell.KeyRune, Rune: runes[0], Mods: mods}, nil
}

// keyNames maps structural keys to their canonical spec names.
var keyNames = map[tcell.Key]string{
	tcell.KeyEnter:      "enter",
	tcell.KeyTab:        "tab",
	tcell.KeyEscape:     "esc",
	tcell.KeyBackspace2: "backspace",
	tcell.KeyDelete:     "delete",
	tcell.KeyUp:         "up",
	tcell.KeyDown:       "down",
	tcell.KeyLeft:       "left",
	tcell.KeyRight:      "right",
	tcell.KeyHome:       "home",
	tcell.KeyEnd:        "end",
	tcell.KeyPgUp:       "pgup",
	tcell.KeyPgDn:       "pgdn",
	tcell.KeyF1:         "f1",
	tcell.KeyF2:         "f2",
	tcell.KeyF3:         "f3",
	tcell.KeyF4:         "f4",
	tcell.KeyF5:         "f5",
	tcell.KeyF6:         "f6",
	tcell.KeyF7:         "f7",
	tcell.KeyF8:         "f8",
	tcell.KeyF9:         "f9",
	tcell.KeyF10:        "f10",
	tcell.KeyF11:        "f11",
	tcell.KeyF12:        "f12",
}

// namedKeys is the reverse of keyNames plus aliases.
var namedKeys = func() map[string]tcell.Key {
	m := make(map[string]tcell.Key, len(keyNames)+4)
	for k, name := range keyNames {
		m[name] = k
	}
	m["escape"] = tcell.KeyEscape
	m["return"] = tcell.KeyEnter
	m["cr"] = tcell.KeyEnter
	m["bs"] = tcell.KeyBackspace2
	return m
}()
