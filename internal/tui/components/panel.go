package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ddalabctl/internal/tui/design"
	"ddalabctl/internal/tui/utils"
)

// Panel is a bordered box with a title line.
type Panel struct {
	Title   string
	Content string
	Width   int
	Height  int
	Focused bool
}

// NewPanel creates a new panel with default settings
func NewPanel(title string) *Panel {
	return &Panel{
		Title:  title,
		Width:  design.MinPanelWidth,
		Height: design.MinPanelHeight,
	}
}

// WithContent sets the panel content
func (p *Panel) WithContent(content string) *Panel {
	p.Content = content
	return p
}

// WithDimensions sets the panel dimensions
func (p *Panel) WithDimensions(width, height int) *Panel {
	p.Width = width
	p.Height = height
	return p
}

// SetFocused updates the focus state
func (p *Panel) SetFocused(focused bool) *Panel {
	p.Focused = focused
	return p
}

// Render returns the styled panel. Content beyond the panel height is cut
// with a trailing "…" line; long lines are truncated.
func (p *Panel) Render() string {
	width := max(p.Width, design.MinPanelWidth)
	height := max(p.Height, design.MinPanelHeight)

	style := design.PanelStyle
	if p.Focused {
		style = design.PanelFocusedStyle
	}
	innerWidth := max(width-style.GetHorizontalFrameSize(), 1)
	innerHeight := max(height-style.GetVerticalFrameSize(), 1)

	var lines []string
	if p.Title != "" {
		titleStyle := design.TitleStyle
		if p.Focused {
			titleStyle = titleStyle.Foreground(design.ColorPrimary)
		}
		lines = append(lines, titleStyle.Render(utils.TruncateString(p.Title, innerWidth)))
	}

	if p.Content != "" {
		contentLines := strings.Split(p.Content, "\n")
		avail := innerHeight - len(lines)
		if avail > 0 && len(contentLines) > avail {
			contentLines = append(contentLines[:avail-1], "…")
		}
		for _, line := range contentLines {
			if lipgloss.Width(line) > innerWidth {
				line = utils.TruncateString(stripStyles(line), innerWidth)
			}
			lines = append(lines, line)
		}
	}

	for len(lines) < innerHeight {
		lines = append(lines, "")
	}
	if len(lines) > innerHeight {
		lines = lines[:innerHeight]
	}

	return style.
		Width(width - style.GetHorizontalBorderSize()).
		Height(innerHeight).
		Render(strings.Join(lines, "\n"))
}
