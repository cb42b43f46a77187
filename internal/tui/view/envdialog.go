package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ddalabctl/internal/tui/design"
	"ddalabctl/internal/tui/model"
	"ddalabctl/internal/tui/utils"
)

// visible variable rows in the editor list
const envListHeight = 14

func renderEnvDialog(m *model.Model) string {
	d := m.EnvDialog
	width := dialogWidth(m)
	inner := width - design.DialogStyle.GetHorizontalFrameSize()
	if d == nil {
		return design.DialogStyle.Render("")
	}

	title := design.TitleStyle.Render("Environment configuration")
	if f := d.Editor.File(); f != nil && f.Path != "" {
		title += "  " + design.DimStyle.Render(utils.TruncateString(f.Path, max(inner-30, 10)))
	}
	lines := []string{title}

	switch {
	case d.Loading:
		lines = append(lines, "", m.Spinner.View()+" Loading environment file…")
		return design.DialogStyle.Width(inner + design.DialogStyle.GetHorizontalPadding()).Render(strings.Join(lines, "\n"))
	case d.LoadErr != nil:
		lines = append(lines, "", design.TextErrorStyle.Render("Failed to load environment file: "+d.LoadErr.Error()),
			"", design.DimStyle.Render("esc to close"))
		return design.DialogStyle.Width(inner + design.DialogStyle.GetHorizontalPadding()).Render(strings.Join(lines, "\n"))
	}

	lines = append(lines, renderEnvSummary(m), renderEnvToolbar(m, inner), "")
	lines = append(lines, renderEnvRows(m, inner)...)

	if v := d.Editor.Validation(); v != nil {
		lines = append(lines, "")
		if v.Valid {
			lines = append(lines, design.TextSuccessStyle.Render("✔ Configuration is valid"))
		} else {
			lines = append(lines, design.TextErrorStyle.Render(
				fmt.Sprintf("✖ %d validation error(s)", len(v.Errors))))
			for _, msg := range v.GeneralErrors() {
				lines = append(lines, design.TextErrorStyle.Render("  "+msg))
			}
		}
		for _, w := range v.Warnings {
			lines = append(lines, design.TextWarningStyle.Render("⚠ "+w))
		}
	}

	switch d.Focus {
	case model.EnvFocusEdit:
		d.Value.Width = max(inner-len(d.EditingKey)-8, 10)
		lines = append(lines, "", design.SectionStyle.Render(d.EditingKey),
			design.InputFocusedStyle.Render(d.Value.View()),
			design.DimStyle.Render("enter apply • esc cancel"))
	case model.EnvFocusImport:
		d.ImportPath.Width = max(inner-14, 10)
		lines = append(lines, "", design.InputFocusedStyle.Render(d.ImportPath.View()),
			design.DimStyle.Render("enter import • esc cancel"))
	}

	if d.Saving {
		lines = append(lines, "", m.Spinner.View()+" Saving…")
	} else if d.Validating {
		lines = append(lines, "", m.Spinner.View()+" Validating…")
	}

	h := m.Help
	h.Width = inner
	lines = append(lines, "", h.ShortHelpView(m.Keys.EnvEditorHelp()))

	return design.DialogStyle.Width(inner + design.DialogStyle.GetHorizontalPadding()).
		Render(strings.Join(lines, "\n"))
}

func renderEnvSummary(m *model.Model) string {
	s := m.EnvDialog.Editor.Summary()
	text := fmt.Sprintf("%d variables • %d required • %d secret • %d empty", s.Total, s.Required, s.Secret, s.Empty)
	if s.Edited > 0 {
		text += " • " + design.TextWarningStyle.Render(fmt.Sprintf("%d edited", s.Edited))
	}
	return design.DimStyle.Render(text)
}

func renderEnvToolbar(m *model.Model, width int) string {
	d := m.EnvDialog
	ed := d.Editor

	search := d.Search.View()
	if d.Focus != model.EnvFocusSearch && d.Search.Value() == "" {
		search = design.DimStyle.Render("/ search")
	}

	var flags []string
	flags = append(flags, "sort: "+string(ed.Sort))
	if ed.Filter.RequiredOnly {
		flags = append(flags, design.ChipRequiredStyle.Render("required only"))
	}
	if ed.Filter.SecretOnly {
		flags = append(flags, design.ChipSecretStyle.Render("secrets only"))
	}
	if ed.ShowSecrets() {
		flags = append(flags, design.ChipSecretStyle.Render("secrets shown"))
	}
	right := strings.Join(flags, " • ")

	gap := width - lipgloss.Width(search) - lipgloss.Width(right)
	if gap < 1 {
		return search + "\n" + right
	}
	return search + strings.Repeat(" ", gap) + right
}

func renderEnvRows(m *model.Model, width int) []string {
	d := m.EnvDialog
	rows := d.Rows()
	if len(rows) == 0 {
		return []string{design.DimStyle.Render("No variables match")}
	}

	start := 0
	if d.Cursor >= envListHeight {
		start = d.Cursor - envListHeight + 1
	}
	end := min(start+envListHeight, len(rows))

	keyWidth := 0
	for _, r := range rows {
		if !r.Header {
			keyWidth = max(keyWidth, lipgloss.Width(r.Var.Key))
		}
	}
	keyWidth = min(keyWidth, width/3)

	var out []string
	if start > 0 {
		out = append(out, design.DimStyle.Render(fmt.Sprintf("  ↑ %d more", start)))
	}
	for i := start; i < end; i++ {
		out = append(out, renderEnvRow(m, rows[i], i == d.Cursor, keyWidth, width)...)
	}
	if end < len(rows) {
		out = append(out, design.DimStyle.Render(fmt.Sprintf("  ↓ %d more", len(rows)-end)))
	}
	return out
}

func renderEnvRow(m *model.Model, row model.EnvRow, selected bool, keyWidth, width int) []string {
	ed := m.EnvDialog.Editor
	if row.Header {
		fold := "▸"
		if ed.Expanded(row.Section) {
			fold = "▾"
		}
		section := row.Section
		if section == "" {
			section = "General"
		}
		line := fmt.Sprintf("%s %s (%d)", fold, section, row.Count)
		if selected {
			return []string{design.ListItemSelectedStyle.Render(line)}
		}
		return []string{design.SectionStyle.Render(line)}
	}

	v := row.Var
	var chips []string
	if v.Required {
		chips = append(chips, design.ChipRequiredStyle.Render("req"))
	}
	if v.Secret {
		chips = append(chips, design.ChipSecretStyle.Render("secret"))
	}
	if ed.IsEdited(v.Key) {
		chips = append(chips, design.TextWarningStyle.Render("*"))
	}
	chipText := strings.Join(chips, " ")

	valueWidth := max(width-keyWidth-lipgloss.Width(chipText)-8, 6)
	value := utils.TruncateString(utils.FirstLine(ed.Display(v)), valueWidth)
	if value == "" {
		value = design.DimStyle.Render("(empty)")
	}

	line := utils.PadRight(utils.TruncateString(v.Key, keyWidth), keyWidth) + " = " + value
	if chipText != "" {
		line += " " + chipText
	}
	if selected {
		line = design.ListItemSelectedStyle.Render("› " + line)
	} else {
		line = design.ListItemStyle.Render("  " + line)
	}

	out := []string{line}
	if msg, ok := ed.ErrorFor(v.Key); ok {
		out = append(out, design.TextErrorStyle.Render("      ✖ "+utils.TruncateString(msg, width-8)))
	}
	if selected && v.Comment != "" {
		out = append(out, design.DimStyle.Render("      # "+utils.TruncateString(utils.FirstLine(v.Comment), width-8)))
	}
	return out
}
