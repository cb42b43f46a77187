package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ddalabctl/internal/tui/design"
	"ddalabctl/internal/tui/model"
	"ddalabctl/internal/tui/utils"
)

func renderPathDialog(m *model.Model) string {
	d := m.PathDialog
	width := dialogWidth(m)
	inner := width - design.DialogStyle.GetHorizontalFrameSize()
	if d == nil {
		return design.DialogStyle.Width(inner).Render("")
	}

	lines := []string{design.TitleStyle.Render("Select DDALAB installation")}
	if d.Current != "" {
		lines = append(lines, design.DimStyle.Render("Current: ")+design.MonoPathStyle.Render(utils.TruncateString(d.Current, inner-12)))
	}
	lines = append(lines, "")

	listLines := renderCandidates(m, inner)
	lines = append(lines, listLines...)
	lines = append(lines, "", design.SectionStyle.Render("Custom path"))

	inputStyle := design.InputStyle
	if d.Focus == model.PathFocusInput {
		inputStyle = design.InputFocusedStyle
	}
	if d.Result != nil && !d.Result.Valid {
		inputStyle = design.InputErrorStyle
	}
	d.Input.Width = max(inner-inputStyle.GetHorizontalFrameSize()-3, 10)
	lines = append(lines, inputStyle.Render(d.Input.View()))

	if r := renderValidation(m); r != "" {
		lines = append(lines, r)
	}

	h := m.Help
	h.Width = inner
	lines = append(lines, "", h.ShortHelpView(m.Keys.PathSelectorHelp()))

	return design.DialogStyle.Width(inner + design.DialogStyle.GetHorizontalPadding()).
		Render(strings.Join(lines, "\n"))
}

func renderCandidates(m *model.Model, width int) []string {
	d := m.PathDialog
	switch {
	case d.LoadErr != nil && len(d.Candidates) == 0:
		return []string{design.TextErrorStyle.Render("Failed to load paths: " + d.LoadErr.Error())}
	case d.Loading() && len(d.Candidates) == 0:
		return []string{m.Spinner.View() + " Discovering installations…"}
	case len(d.Candidates) == 0:
		return []string{design.DimStyle.Render("No installations found. Enter a path below.")}
	}

	var out []string
	for i, c := range d.Candidates {
		var chips []string
		if c.Current {
			chips = append(chips, design.ChipCurrentStyle.Render("current"))
		}
		if c.Known {
			chips = append(chips, design.ChipKnownStyle.Render("known"))
		} else {
			chips = append(chips, design.DimStyle.Render("discovered"))
		}
		chipText := strings.Join(chips, " ")
		pathWidth := max(width-lipgloss.Width(chipText)-6, 8)
		line := utils.PadRight(utils.TruncateString(c.Path, pathWidth), pathWidth) + " " + chipText

		switch {
		case i == d.Cursor && d.Focus == model.PathFocusList:
			line = design.ListItemSelectedStyle.Render("› " + line)
		default:
			line = design.ListItemStyle.Render("  " + line)
		}
		out = append(out, line)
	}
	if d.Loading() {
		out = append(out, design.DimStyle.Render("  "+m.Spinner.View()+" still discovering…"))
	}
	return out
}

func renderValidation(m *model.Model) string {
	d := m.PathDialog
	if d.Selecting {
		return m.Spinner.View() + " Selecting…"
	}
	if d.Validating && d.Result == nil {
		return m.Spinner.View() + " Validating…"
	}
	r := d.Result
	if r == nil {
		return ""
	}
	if !r.Valid {
		msg := r.Message
		if msg == "" {
			msg = "Invalid DDALAB installation"
		}
		return design.TextErrorStyle.Render("✖ " + msg)
	}

	msg := r.Message
	if msg == "" {
		msg = "Valid DDALAB installation"
	}
	lines := []string{design.TextSuccessStyle.Render("✔ " + msg)}
	lines = append(lines, checkLine("docker-compose.yml", r.HasCompose), checkLine("ddalab.sh", r.HasDDALABScript))
	return strings.Join(lines, "\n")
}

func checkLine(name string, ok bool) string {
	if ok {
		return design.TextSuccessStyle.Render("  ✔ ") + name
	}
	return design.DimStyle.Render("  ✖ " + name)
}
