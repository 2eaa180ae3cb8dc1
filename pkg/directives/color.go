package directives

import "strings"

// ColorHex is a 6-hex-digit RGB color such as "ff00aa".
type ColorHex string

// DefaultColor is used for both sides of a newly added pair.
const DefaultColor ColorHex = "ffffff"

// NormalizeHex lower-cases a color and strips surrounding spaces and a
// leading '#'. It does not validate the result.
func NormalizeHex(s string) ColorHex {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "#")
	return ColorHex(strings.ToLower(s))
}

// Normalize returns the lower-case form of c.
func (c ColorHex) Normalize() ColorHex {
	return NormalizeHex(string(c))
}

// Valid reports whether c is exactly six hex digits.
func (c ColorHex) Valid() bool {
	if len(c) != 6 {
		return false
	}
	for i := 0; i < len(c); i++ {
		switch ch := c[i]; {
		case ch >= '0' && ch <= '9':
		case ch >= 'a' && ch <= 'f':
		case ch >= 'A' && ch <= 'F':
		default:
			return false
		}
	}
	return true
}

// Equal compares two colors case-insensitively.
func (c ColorHex) Equal(o ColorHex) bool {
	return strings.EqualFold(string(c), string(o))
}

func (c ColorHex) String() string {
	return string(c)
}

// ColorPair substitutes From with To.
type ColorPair struct {
	From ColorHex
	To   ColorHex
}

// Pair builds a ColorPair from raw strings without normalizing them.
func Pair(from, to string) ColorPair {
	return ColorPair{From: ColorHex(from), To: ColorHex(to)}
}

// Equal compares both sides case-insensitively.
func (p ColorPair) Equal(o ColorPair) bool {
	return p.From.Equal(o.From) && p.To.Equal(o.To)
}

// Normalize returns p with both sides lower-cased.
func (p ColorPair) Normalize() ColorPair {
	return ColorPair{From: p.From.Normalize(), To: p.To.Normalize()}
}
