package view

import (
	"github.com/charmbracelet/lipgloss"

	"ddalabctl/internal/tui/design"
	"ddalabctl/internal/tui/model"
)

// Render renders the UI according to the current model state.
func Render(m *model.Model) string {
	switch m.CurrentAppMode {
	case model.ModeQuitting:
		return design.DimStyle.Render("Shutting down…") + "\n"
	case model.ModeLoading:
		return renderLoading(m)
	case model.ModeHelpOverlay:
		return renderHelpOverlay(m)
	case model.ModeLogOverlay:
		return renderLogOverlay(m, "Activity Log", m.LogViewport.View())
	case model.ModeBackendLogs:
		body := m.BackendLogViewport.View()
		if m.LogsBusy && m.BackendLogs == "" {
			body = m.Spinner.View() + " Loading logs…"
		}
		return renderLogOverlay(m, "DDALAB Logs", body)
	case model.ModePathSelector:
		return renderDialogScreen(m, renderPathDialog(m))
	case model.ModeEnvEditor:
		return renderDialogScreen(m, renderEnvDialog(m))
	default:
		return renderDashboard(m)
	}
}

func renderLoading(m *model.Model) string {
	text := m.Spinner.View() + " Connecting to DDALAB backend…"
	if m.Width == 0 || m.Height == 0 {
		return text
	}
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, text)
}

// renderDialogScreen stacks a dialog above the status bar.
func renderDialogScreen(m *model.Model, dialog string) string {
	bar := renderStatusBar(m)
	if m.Width == 0 || m.Height == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, dialog, bar)
	}
	height := max(m.Height-lipgloss.Height(bar), 1)
	placed := lipgloss.Place(m.Width, height, lipgloss.Center, lipgloss.Center, dialog)
	return lipgloss.JoinVertical(lipgloss.Left, placed, bar)
}

func dialogWidth(m *model.Model) int {
	if m.Width <= 0 {
		return design.DialogMaxWidth
	}
	return min(max(m.Width-4, 40), design.DialogMaxWidth)
}
