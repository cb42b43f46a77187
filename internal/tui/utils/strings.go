package utils

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// TruncateString truncates s to at most width terminal cells, appending an
// ellipsis when something was cut.
func TruncateString(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return runewidth.Truncate(s, width, "…")
}

// PadRight pads s with spaces to width cells.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// FirstLine returns s up to its first newline.
func FirstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
