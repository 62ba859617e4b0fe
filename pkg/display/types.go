// Package display provides the character display of the receiving device.
package display

import (
	"errors"
	"strings"
	"unicode"
)

// Geometry of the reference character display.
const (
	DefaultCols = 16
	DefaultRows = 2
)

// Display is a character display addressed by rows.
type Display interface {
	Init() error
	Clear() error
	// WriteLine replaces a row, truncating text to Width.
	WriteLine(row int, text string) error
	// Width is the number of characters per row.
	Width() int
}

var (
	// ErrNotInitialized indicates the display is used before Init.
	ErrNotInitialized = errors.New("display not initialized")
	// ErrNoOutput indicates the display has nothing to render to.
	ErrNoOutput = errors.New("display output missing")
	// ErrGeometry indicates invalid rows or columns.
	ErrGeometry = errors.New("invalid display geometry")
	// ErrRowOutOfRange indicates a row the display doesn't have.
	ErrRowOutOfRange = errors.New("row out of range")
)

// Fit converts text to at most width display cells. Characters the display
// can't show become '?'.
func Fit(text string, width int) string {
	if width <= 0 {
		return ""
	}
	var sb strings.Builder
	n := 0
	for _, r := range text {
		if n >= width {
			break
		}
		if r == unicode.ReplacementChar || !unicode.IsPrint(r) {
			r = '?'
		}
		sb.WriteRune(r)
		n++
	}
	return sb.String()
}
