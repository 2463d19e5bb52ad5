// colorspec_test.go tests [Parse] across the hex and rgb grammar
// families, the rejection of everything outside them, and the
// round-trip of the canonical renderings.

package colorspec

import (
	"errors"
	"strings"
	"testing"
)

func TestParseHex6(t *testing.T) {
	tests := []struct {
		input string
		want  Color
	}{
		{"#FF0000", Color{R: 255}},
		{"#00FF00", Color{G: 255}},
		{"#0000FF", Color{B: 255}},
		{"#FFFFFF", Color{R: 255, G: 255, B: 255}},
		{"#000000", Color{}},
		{"#123456", Color{R: 0x12, G: 0x34, B: 0x56}},
		{"0000ff", Color{B: 255}},  // no # prefix
		{"#0000ff", Color{B: 255}}, // lowercase
		{"#0000Ff", Color{B: 255}}, // mixed case
		{"  #0000FF  ", Color{B: 255}},
	}

	for _, tt := range tests {
		c, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", tt.input, err)
			continue
		}
		if c != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.input, c, tt.want)
		}
	}
}

func TestParseHex3(t *testing.T) {
	tests := []struct {
		input string
		want  Color
	}{
		{"#F00", Color{R: 255}},
		{"#0F0", Color{G: 255}},
		{"#00F", Color{B: 255}},
		{"#FFF", Color{R: 255, G: 255, B: 255}},
		{"#000", Color{}},
		{"#18f", Color{R: 0x11, G: 0x88, B: 0xff}},
		{"00f", Color{B: 255}}, // no # prefix
	}

	for _, tt := range tests {
		c, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", tt.input, err)
			continue
		}
		if c != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.input, c, tt.want)
		}
	}
}

func TestParseRGBTriple(t *testing.T) {
	tests := []struct {
		input string
		want  Color
	}{
		{"255,0,0", Color{R: 255}},
		{"(0,255,0)", Color{G: 255}},
		{"rgb(0,0,255)", Color{B: 255}},
		{"RGB(0,0,255)", Color{B: 255}},
		{"Rgb(0,0,255)", Color{B: 255}},
		{"rgb(255, 0, 0)", Color{R: 255}},
		{"(255, 0, 0)", Color{R: 255}},
		{"255, 0, 0", Color{R: 255}},
		{"0,128,255", Color{G: 128, B: 255}},
		{" 12 , 34 , 56 ", Color{R: 12, G: 34, B: 56}},
		{"rgb (0, 0, 255)", Color{B: 255}},
	}

	for _, tt := range tests {
		c, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", tt.input, err)
			continue
		}
		if c != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.input, c, tt.want)
		}
	}
}

// All spellings of the same color agree with the canonical 6-digit form.
func TestParseEquivalentForms(t *testing.T) {
	canonical, err := Parse("#0000FF")
	if err != nil {
		t.Fatalf("Parse canonical: %v", err)
	}

	forms := []string{"0000FF", "#0000ff", "#00F", "00f", "0,0,255", "(0,0,255)", "rgb(0,0,255)", "RGB(0, 0, 255)"}
	for _, s := range forms {
		c, err := Parse(s)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", s, err)
			continue
		}
		if c != canonical {
			t.Errorf("Parse(%q) = %v, want %v", s, c, canonical)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	invalid := []string{
		"",
		"   ",
		"#FFFF",        // 4 digits
		"#FFFFF",       // 5 digits
		"12345",        // 5 digits, no prefix
		"#GGGGGG",      // non-hex digits
		"#12345G",      // one bad digit
		"256,0,0",      // out of range
		"0,0,-1",       // negative
		"0,0",          // too few tokens
		"0,0,0,0",      // too many tokens
		"0,abc,0",      // non-numeric token
		"rgb(0,0)",     // labeled, too few
		"rgb(0,0,256)", // labeled, out of range
		"(0,0,255",     // unbalanced paren
		"0,0,255)",     // unbalanced paren
		"red",          // named colors are not a grammar
		"hsl(0,0,0)",
	}

	for _, s := range invalid {
		_, err := Parse(s)
		if err == nil {
			t.Errorf("Parse(%q) expected error, got nil", s)
			continue
		}
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("Parse(%q) error type = %T, want *ParseError", s, err)
			continue
		}
		if perr.Input != s {
			t.Errorf("Parse(%q) ParseError.Input = %q, want the original string", s, perr.Input)
		}
		if !strings.Contains(err.Error(), s) && s != "" {
			t.Errorf("Parse(%q) message %q does not echo the input", s, err.Error())
		}
	}
}

// The error must echo the input verbatim, not a trimmed or folded copy.
func TestParseErrorPreservesInput(t *testing.T) {
	input := "  RGB(1,2)  "
	_, err := Parse(input)
	if err == nil {
		t.Fatalf("Parse(%q) expected error, got nil", input)
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error type = %T, want *ParseError", err)
	}
	if perr.Input != input {
		t.Errorf("ParseError.Input = %q, want %q", perr.Input, input)
	}
}

func TestParseCanonicalRoundTrip(t *testing.T) {
	colors := []Color{
		{},
		{R: 255},
		{G: 255},
		{B: 255},
		{R: 255, G: 255, B: 255},
		{R: 0x12, G: 0x34, B: 0x56},
		{R: 250, G: 128, B: 114},
	}

	for _, want := range colors {
		got, err := Parse(want.String())
		if err != nil {
			t.Errorf("Parse(%q) error: %v", want.String(), err)
		} else if got != want {
			t.Errorf("Parse(%q) = %v, want %v", want.String(), got, want)
		}

		got, err = Parse(want.Hex())
		if err != nil {
			t.Errorf("Parse(%q) error: %v", want.Hex(), err)
		} else if got != want {
			t.Errorf("Parse(%q) = %v, want %v", want.Hex(), got, want)
		}
	}
}

func TestColorRenderings(t *testing.T) {
	c := Color{R: 0, G: 128, B: 255}
	if got := c.Hex(); got != "#0080ff" {
		t.Errorf("Hex() = %q, want %q", got, "#0080ff")
	}
	if got := c.String(); got != "rgb(0,128,255)" {
		t.Errorf("String() = %q, want %q", got, "rgb(0,128,255)")
	}
	n := c.NRGBA()
	if n.R != 0 || n.G != 128 || n.B != 255 || n.A != 255 {
		t.Errorf("NRGBA() = %v, want opaque {0 128 255}", n)
	}
}
