package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ddalabctl/internal/backend"
	"ddalabctl/internal/tui/components"
	"ddalabctl/internal/tui/design"
	"ddalabctl/internal/tui/model"
	"ddalabctl/internal/tui/utils"
)

const fallbackWidth = 80

func renderDashboard(m *model.Model) string {
	width := m.Width
	if width <= 0 {
		width = fallbackWidth
	}

	sections := []string{
		renderHeader(m, width),
		renderCards(m, width),
		renderServices(m, width),
		renderInstallation(m, width),
		renderShortHelp(m, width),
	}
	body := lipgloss.JoinVertical(lipgloss.Left, sections...)
	bar := renderStatusBar(m)

	if m.Height > 0 {
		gap := m.Height - lipgloss.Height(body) - lipgloss.Height(bar)
		if gap > 0 {
			body += strings.Repeat("\n", gap)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, bar)
}

func renderHeader(m *model.Model, width int) string {
	title := "DDALAB Control"
	if m.DebugMode {
		title += "  [debug]"
	}
	right := ""
	if !m.LastStatusTime.IsZero() {
		right = "updated " + m.LastStatusTime.Format("15:04:05")
	}
	inner := width - design.HeaderStyle.GetHorizontalPadding()
	gap := inner - lipgloss.Width(title) - lipgloss.Width(right)
	line := title
	if gap > 0 {
		line += strings.Repeat(" ", gap) + design.DimStyle.Render(right)
	}
	return design.HeaderStyle.Width(width).MaxWidth(width).Render(line)
}

func renderCards(m *model.Model, width int) string {
	overall := components.NewStatusCard("Overall Status", capitalize(m.OverallStatus())).
		WithType(components.CardTypeStatus).
		WithIcon("◆")
	services := components.NewStatusCard("Services",
		fmt.Sprintf("%d/%d", m.Status.RunningCount(), len(m.Status.Services))).
		WithSubtitle("running").
		WithIcon("▤")
	version := components.NewStatusCard("Version", m.Status.Version).WithIcon("◇")
	health := components.NewStatusCard("Health", m.Health()).
		WithType(components.CardTypeHealth).
		WithIcon("♥")

	if m.LastStatusErr != nil {
		overall.WithSubtitle("unreachable")
	}
	return components.CardRow(width, overall, services, version, health)
}

func renderServices(m *model.Model, width int) string {
	var lines []string
	if len(m.Status.Services) == 0 {
		msg := "No services reported"
		if !m.StatusLoaded {
			msg = "Waiting for status…"
		}
		lines = append(lines, design.DimStyle.Render(msg))
	}

	nameWidth := 0
	for _, s := range m.Status.Services {
		nameWidth = max(nameWidth, lipgloss.Width(s.Name))
	}
	for i, s := range m.Status.Services {
		ind := components.NewStatusIndicator(s.Status)
		if action, busy := m.ServiceBusy[s.Name]; busy {
			ind.WithBusy(action, m.Spinner.View())
		}
		line := utils.PadRight(s.Name, nameWidth) + "  " + ind.Render()
		if i == m.ServiceCursor {
			line = design.ListItemSelectedStyle.Render("› " + line)
		} else {
			line = design.ListItemStyle.Render("  " + line)
		}
		lines = append(lines, line)
	}

	if m.StackBusy != "" {
		lines = append(lines, "", design.TextWarningStyle.Render(
			fmt.Sprintf("%s %s all services…", m.Spinner.View(), capitalize(string(m.StackBusy)))))
	}
	if hint := serviceHint(m); hint != "" {
		lines = append(lines, "", design.DimStyle.Render(hint))
	}

	height := len(lines) + 1 + design.PanelStyle.GetVerticalFrameSize()
	return components.NewPanel("Services").
		WithContent(strings.Join(lines, "\n")).
		WithDimensions(width, height).
		SetFocused(true).
		Render()
}

// serviceHint lists the actions valid for the selected service.
func serviceHint(m *model.Model) string {
	if !m.HasPath() {
		return "Select an installation path (p) to control services"
	}
	svc, ok := m.SelectedService()
	if !ok {
		return ""
	}
	if m.IsServiceBusy(svc.Name) {
		return "Action in progress…"
	}
	if svc.Status == backend.ServiceRunning {
		return "r restart • x stop • R/X restart/stop all"
	}
	return "s start • S start all"
}

func renderInstallation(m *model.Model, width int) string {
	var lines []string
	if m.HasPath() {
		lines = append(lines, "Path: "+design.MonoPathStyle.Render(m.CurrentPath))
	} else {
		lines = append(lines, design.TextWarningStyle.Render("No installation selected"))
	}
	if url := m.WebsiteURL(); url != "" {
		lines = append(lines, "URL:  "+design.TextInfoStyle.Render(url))
	}

	var busy []string
	if m.BackupBusy {
		busy = append(busy, "backup")
	}
	if m.UpdateBusy {
		busy = append(busy, "update")
	}
	if len(busy) > 0 {
		lines = append(lines, design.TextWarningStyle.Render(
			m.Spinner.View()+" Running "+strings.Join(busy, ", ")+"…"))
	}

	height := len(lines) + 1 + design.PanelStyle.GetVerticalFrameSize()
	return components.NewPanel("Installation").
		WithContent(strings.Join(lines, "\n")).
		WithDimensions(width, height).
		Render()
}

func renderShortHelp(m *model.Model, width int) string {
	h := m.Help
	h.Width = width
	return h.ShortHelpView(m.Keys.ShortHelp())
}

func renderStatusBar(m *model.Model) string {
	width := m.Width
	if width <= 0 {
		width = fallbackWidth
	}
	left := m.CurrentAppMode.String()
	if m.HasPath() {
		left += " • " + m.CurrentPath
	}
	right := "h help • q quit"
	return components.NewStatusBar(width).
		WithLeftText(left).
		WithRightText(right).
		WithMessage(m.StatusBarMessage, m.StatusBarMessageType).
		Render()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
