// Package text provides writing-direction detection for recovered region
// text, used when the right-to-left option is set to automatic.
package text

import "unicode"

// Direction represents the writing direction of a piece of text.
type Direction int

const (
	// LTR (Left-to-Right) for Latin, Cyrillic, CJK, etc.
	LTR Direction = iota
	// RTL (Right-to-Left) for Arabic, Hebrew, etc.
	RTL
	// Neutral for text with no strong directional characters.
	Neutral
)

// String returns "LTR", "RTL", or "Neutral".
func (d Direction) String() string {
	switch d {
	case LTR:
		return "LTR"
	case RTL:
		return "RTL"
	case Neutral:
		return "Neutral"
	default:
		return "Unknown"
	}
}

// rtlScripts are the Unicode scripts written right to left.
var rtlScripts = []*unicode.RangeTable{
	unicode.Arabic,
	unicode.Hebrew,
	unicode.Syriac,
	unicode.Thaana,
	unicode.Nko,
}

// Detect returns the dominant writing direction of s by counting strong
// directional characters. Digits, punctuation, whitespace, and symbols
// carry no direction; a string containing only those is Neutral.
func Detect(s string) Direction {
	ltr, rtl := 0, 0
	for _, r := range s {
		switch CharDirection(r) {
		case LTR:
			ltr++
		case RTL:
			rtl++
		}
	}

	switch {
	case ltr == 0 && rtl == 0:
		return Neutral
	case rtl > ltr:
		return RTL
	default:
		return LTR
	}
}

// CharDirection returns the inherent direction of a single character.
func CharDirection(r rune) Direction {
	if unicode.IsDigit(r) || unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
		return Neutral
	}
	if unicode.In(r, rtlScripts...) {
		return RTL
	}
	if unicode.IsLetter(r) {
		return LTR
	}
	return Neutral
}
