package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ddalabctl/internal/tui/design"
	"ddalabctl/internal/tui/model"
)

func renderHelpOverlay(m *model.Model) string {
	h := m.Help
	h.ShowAll = true
	content := lipgloss.JoinVertical(lipgloss.Left,
		design.TitleStyle.Render("Keyboard shortcuts"),
		"",
		h.FullHelpView(m.Keys.FullHelp()),
		"",
		design.DimStyle.Render("esc or h to close"),
	)
	container := design.DialogStyle.Render(content)
	if m.Width == 0 || m.Height == 0 {
		return container
	}
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, container)
}

func renderLogOverlay(m *model.Model, title, body string) string {
	hints := "↑/↓ scroll • y copy • esc close"
	if m.CurrentAppMode == model.ModeBackendLogs {
		hints = "↑/↓ scroll • f refresh • y copy • esc close"
	}
	header := design.TitleStyle.Render(title) + "  " + design.DimStyle.Render(hints)
	content := lipgloss.JoinVertical(lipgloss.Left, header, body)
	return renderDialogScreen(m, design.DialogStyle.Render(content))
}

// PrepareLogContent colours activity log lines by level.
func PrepareLogContent(lines []string, maxWidth int) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = styleLogLine(line)
	}
	return strings.Join(out, "\n")
}

func styleLogLine(l string) string {
	switch {
	case strings.Contains(l, "[ERROR]"):
		return design.LogErrorStyle.Render(l)
	case strings.Contains(l, "[WARN]"):
		return design.LogWarnStyle.Render(l)
	case strings.Contains(l, "[DEBUG]"):
		return design.LogDebugStyle.Render(l)
	default:
		return design.LogInfoStyle.Render(l)
	}
}
