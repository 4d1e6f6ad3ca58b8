// Package termfmt is a minimal ANSI styling helper for the CLI's
// human-facing reports.  Sixteen colours and bold are all the sync reports
// need; disable globally when output isn't a terminal.
package termfmt

import (
	"fmt"
	"strings"
	"unicode"
)

type Color uint8

const (
	DefaultColor Color = iota

	Black
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	LightGrey
)

var enabled = true

// Enable toggles styling globally; with styling off, Paint and Bold return
// their input unmodified.
func Enable(on bool) { enabled = on }

// Paint wraps s in the foreground colour escape.  Unprintable runes in s are
// stripped so log lines can't smuggle in their own escapes.
func Paint(c Color, s string) string {
	s = printable(s)
	if !enabled || c == DefaultColor {
		return s
	}
	// Colour enum starts at one; the fg escape codes run from 30 to 37.
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", 29+uint8(c), s)
}

func Bold(s string) string {
	s = printable(s)
	if !enabled {
		return s
	}
	return fmt.Sprintf("\x1b[1m%s\x1b[0m", s)
}

func printable(v string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsGraphic(r) {
			return r
		}
		return -1
	}, v)
}
