// Package colorspec parses user-supplied color strings into RGB triples.
//
// Three grammars are accepted, all case-insensitive with surrounding
// whitespace ignored: 6-digit hex with optional "#" ("#0000FF", "0000ff"),
// 3-digit abbreviated hex ("#00F" expands to "0000FF"), and decimal RGB
// triples with optional parentheses and optional "rgb" label
// ("rgb(0, 0, 255)", "(0,0,255)", "0,0,255"). Anything else fails with
// [*ParseError].
package colorspec

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ///////////////////////////////////////////////
// Color
// ///////////////////////////////////////////////

// Color is an RGB triple with 8-bit channels. Immutable once parsed.
type Color struct {
	R, G, B uint8
}

// Hex returns the lowercase 6-digit hex rendering, "#0000ff".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String returns the canonical decimal rendering, "rgb(0,0,255)".
// This is the form embedded in default output filenames, and [Parse]
// accepts it back unchanged.
func (c Color) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// NRGBA returns the color as a fully opaque [color.NRGBA].
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// ///////////////////////////////////////////////
// Errors
// ///////////////////////////////////////////////

// ParseError reports a color string that matches none of the accepted
// grammars. Input holds the original string verbatim, before any
// trimming or case folding.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid color format %q: use hex (#00FF00) or rgb (0,255,0)", e.Input)
}

// ///////////////////////////////////////////////
// Parsing
// ///////////////////////////////////////////////

// matchers lists the candidate grammars in priority order. Each matcher
// reports whether it recognized the (whitespace-trimmed) input; the
// first match wins.
var matchers = []func(string) (Color, bool){
	matchHex,
	matchRGBTriple,
}

// Parse converts a color string in any accepted grammar into a [Color].
// Returns [*ParseError] carrying the original input when no grammar
// matches.
func Parse(input string) (Color, error) {
	s := strings.TrimSpace(input)
	for _, match := range matchers {
		if c, ok := match(s); ok {
			return c, nil
		}
	}
	return Color{}, &ParseError{Input: input}
}

// matchHex recognizes 6-digit and 3-digit hex forms with an optional
// "#" prefix. Abbreviated digits expand by duplication ("#00F" → "0000FF").
func matchHex(s string) (Color, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		var b strings.Builder
		for i := range 3 {
			b.WriteByte(s[i])
			b.WriteByte(s[i])
		}
		s = b.String()
	}
	if len(s) != 6 {
		return Color{}, false
	}
	var ch [3]uint8
	for i := range 3 {
		v, err := strconv.ParseUint(s[2*i:2*i+2], 16, 8)
		if err != nil {
			return Color{}, false
		}
		ch[i] = uint8(v)
	}
	return Color{R: ch[0], G: ch[1], B: ch[2]}, true
}

// matchRGBTriple recognizes comma-separated decimal triples with an
// optional "rgb" label and optional surrounding parentheses. Unbalanced
// parentheses fail naturally: the leftover "(" or ")" makes a token
// non-numeric.
func matchRGBTriple(s string) (Color, bool) {
	s = strings.ToLower(strings.ReplaceAll(s, " ", ""))
	s = strings.TrimPrefix(s, "rgb")
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = s[1 : len(s)-1]
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Color{}, false
	}
	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 || v > 255 {
			return Color{}, false
		}
		ch[i] = uint8(v)
	}
	return Color{R: ch[0], G: ch[1], B: ch[2]}, true
}
