package components

import "github.com/charmbracelet/x/ansi"

// stripStyles removes escape sequences so a line can be truncated by cell
// width.
func stripStyles(s string) string {
	return ansi.Strip(s)
}
