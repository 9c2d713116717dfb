package token

import "testing"

func TestStyleMergeOverridesSetFields(t *testing.T) {
	base := Style{}.WithFg(RGB{R: 255}).WithBg(RGB{B: 255})
	over := Style{Bold: true}.WithFg(RGB{G: 255})

	merged := base.Merge(over)

	if merged.Fg == nil || *merged.Fg != (RGB{G: 255}) {
		t.Errorf("fg = %v, want overridden green", merged.Fg)
	}
	if merged.Bg == nil || *merged.Bg != (RGB{B: 255}) {
		t.Errorf("bg = %v, want inherited blue", merged.Bg)
	}
	if !merged.Bold {
		t.Error("bold should be set after merge")
	}
	if merged.Italic {
		t.Error("italic should remain unset")
	}
}

func TestStyleMergeEmptyOverride(t *testing.T) {
	base := Style{Bold: true}.WithFg(RGB{R: 10, G: 20, B: 30})
	merged := base.Merge(Style{})

	if !merged.Equals(base) {
		t.Errorf("merge with empty style changed fields: %+v", merged)
	}
}

func TestStyleIsZero(t *testing.T) {
	if !(Style{}).IsZero() {
		t.Error("empty style should be zero")
	}
	if (Style{Bold: true}).IsZero() {
		t.Error("bold style should not be zero")
	}
	if (Style{}.WithFg(RGB{})).IsZero() {
		t.Error("style with explicit black fg should not be zero")
	}
}

func TestHexRoundTrip(t *testing.T) {
	c, err := Hex("#ff8000")
	if err != nil {
		t.Fatalf("Hex: %v", err)
	}
	if c != (RGB{R: 255, G: 128, B: 0}) {
		t.Errorf("parsed = %+v", c)
	}
	if got := c.Hex(); got != "#ff8000" {
		t.Errorf("Hex() = %q, want #ff8000", got)
	}
}

func TestHexInvalid(t *testing.T) {
	if _, err := Hex("not-a-color"); err == nil {
		t.Error("invalid hex should fail")
	}
}
