package controller

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ddalabctl/internal/tui/model"
)

const envEditorSubsystem = "EnvEditor"

func openEnvEditor(m *model.Model) (*model.Model, tea.Cmd) {
	if cmd := requirePath(m); cmd != nil {
		return m, cmd
	}
	m.EnvDialog = model.NewEnvDialog()
	m.LastAppMode = m.CurrentAppMode
	m.CurrentAppMode = model.ModeEnvEditor
	return m, model.LoadEnvFileCmd(m.Backend)
}

// closeEnvEditor discards pending edits and returns to the dashboard.
func closeEnvEditor(m *model.Model) {
	if m.EnvDialog != nil {
		m.EnvDialog.Editor.Cancel()
	}
	m.EnvDialog = nil
	m.CurrentAppMode = model.ModeDashboard
}

func handleEnvEditorKey(m *model.Model, keyMsg tea.KeyMsg) (*model.Model, tea.Cmd) {
	d := m.EnvDialog
	if d == nil {
		m.CurrentAppMode = model.ModeDashboard
		return m, nil
	}

	switch d.Focus {
	case model.EnvFocusSearch:
		return handleEnvSearchKey(m, keyMsg)
	case model.EnvFocusEdit:
		return handleEnvValueKey(m, keyMsg)
	case model.EnvFocusImport:
		return handleEnvImportKey(m, keyMsg)
	}

	if key.Matches(keyMsg, m.Keys.Esc) {
		closeEnvEditor(m)
		return m, nil
	}
	if d.Loading || d.LoadErr != nil {
		return m, nil
	}

	ed := d.Editor
	switch {
	case key.Matches(keyMsg, m.Keys.Up):
		d.MoveCursor(-1)
	case key.Matches(keyMsg, m.Keys.Down):
		d.MoveCursor(1)
	case key.Matches(keyMsg, m.Keys.Enter), keyMsg.String() == " ":
		row, ok := d.CurrentRow()
		if !ok {
			return m, nil
		}
		if row.Header {
			ed.ToggleSection(row.Section)
			d.ClampCursor()
			return m, nil
		}
		if !d.BeginEdit(row.Var) {
			return m, m.Alert("Reveal secrets (v) to edit "+row.Var.Key, model.StatusBarInfo)
		}
		return m, textinput.Blink
	case key.Matches(keyMsg, m.Keys.Search):
		d.Focus = model.EnvFocusSearch
		d.Search.Focus()
		return m, textinput.Blink
	case key.Matches(keyMsg, m.Keys.CycleSort):
		ed.Sort = ed.Sort.Next()
		d.ClampCursor()
	case key.Matches(keyMsg, m.Keys.RequiredOnly):
		ed.Filter.RequiredOnly = !ed.Filter.RequiredOnly
		d.ClampCursor()
	case key.Matches(keyMsg, m.Keys.SecretOnly):
		ed.Filter.SecretOnly = !ed.Filter.SecretOnly
		d.ClampCursor()
	case key.Matches(keyMsg, m.Keys.ToggleSecrets):
		ed.ToggleSecrets()
	case key.Matches(keyMsg, m.Keys.ExpandAll):
		ed.ExpandAll()
	case key.Matches(keyMsg, m.Keys.Validate):
		return validateEnv(m)
	case key.Matches(keyMsg, m.Keys.Save):
		return saveEnv(m)
	case key.Matches(keyMsg, m.Keys.Export):
		return exportEnv(m)
	case key.Matches(keyMsg, m.Keys.Import):
		d.Focus = model.EnvFocusImport
		d.ImportPath.SetValue("")
		d.ImportPath.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func handleEnvSearchKey(m *model.Model, keyMsg tea.KeyMsg) (*model.Model, tea.Cmd) {
	d := m.EnvDialog
	switch keyMsg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		d.Search.Blur()
		d.Focus = model.EnvFocusList
		return m, nil
	}
	var cmd tea.Cmd
	d.Search, cmd = d.Search.Update(keyMsg)
	d.Editor.Filter.Query = d.Search.Value()
	d.ClampCursor()
	return m, cmd
}

func handleEnvValueKey(m *model.Model, keyMsg tea.KeyMsg) (*model.Model, tea.Cmd) {
	d := m.EnvDialog
	switch keyMsg.Type {
	case tea.KeyEsc:
		d.EndEdit()
		return m, nil
	case tea.KeyEnter:
		if err := d.CommitEdit(); err != nil {
			return m, m.Alert(err.Error(), model.StatusBarError)
		}
		d.ClampCursor()
		return m, nil
	}
	var cmd tea.Cmd
	d.Value, cmd = d.Value.Update(keyMsg)
	return m, cmd
}

func handleEnvImportKey(m *model.Model, keyMsg tea.KeyMsg) (*model.Model, tea.Cmd) {
	d := m.EnvDialog
	switch keyMsg.Type {
	case tea.KeyEsc:
		d.ImportPath.Blur()
		d.Focus = model.EnvFocusList
		return m, nil
	case tea.KeyEnter:
		path := strings.TrimSpace(d.ImportPath.Value())
		d.ImportPath.Blur()
		d.Focus = model.EnvFocusList
		if path == "" {
			return m, nil
		}
		if !filepath.IsAbs(path) && m.ExportDir != "" {
			path = filepath.Join(m.ExportDir, path)
		}
		return m, model.ReadImportCmd(path)
	}
	var cmd tea.Cmd
	d.ImportPath, cmd = d.ImportPath.Update(keyMsg)
	return m, cmd
}

func saveEnv(m *model.Model) (*model.Model, tea.Cmd) {
	d := m.EnvDialog
	if d.Busy() || !d.Editor.Loaded() {
		return m, nil
	}
	d.Saving = true
	return m, model.SaveEnvCmd(m.Backend, d.Editor.Merged())
}

func validateEnv(m *model.Model) (*model.Model, tea.Cmd) {
	d := m.EnvDialog
	if d.Busy() || !d.Editor.Loaded() {
		return m, nil
	}
	d.Validating = true
	return m, model.ValidateEnvCmd(m.Backend, d.Editor.Merged())
}

func exportEnv(m *model.Model) (*model.Model, tea.Cmd) {
	d := m.EnvDialog
	if !d.Editor.Loaded() {
		return m, nil
	}
	dir := m.ExportDir
	if dir == "" {
		dir = "."
	}
	return m, model.ExportEnvCmd(dir, d.Editor.Export(time.Now()))
}

func handleEnvFileLoadedMsg(m *model.Model, msg model.EnvFileLoadedMsg) (*model.Model, tea.Cmd) {
	d := m.EnvDialog
	if d == nil {
		return m, nil
	}
	d.Loading = false
	if msg.Err != nil {
		LogError(envEditorSubsystem, msg.Err, "Failed to load env file")
		d.LoadErr = msg.Err
		return m, nil
	}
	d.Editor.Load(msg.File)
	d.Cursor = 0
	return m, nil
}

func handleEnvSavedMsg(m *model.Model, msg model.EnvSavedMsg) (*model.Model, tea.Cmd) {
	d := m.EnvDialog
	if d == nil {
		return m, nil
	}
	d.Saving = false
	if msg.Err != nil {
		LogError(envEditorSubsystem, msg.Err, "Failed to save env file")
		return m, m.Alert("Failed to save configuration", model.StatusBarError)
	}
	if msg.Result == nil || !msg.Result.Valid {
		d.Editor.SetValidation(msg.Result)
		return m, nil
	}

	closeEnvEditor(m)
	return m, tea.Batch(
		m.Alert("Environment configuration saved successfully", model.StatusBarSuccess),
		model.FetchEnvConfigCmd(m.Backend, false),
	)
}

func handleEnvValidatedMsg(m *model.Model, msg model.EnvValidatedMsg) (*model.Model, tea.Cmd) {
	d := m.EnvDialog
	if d == nil {
		return m, nil
	}
	d.Validating = false
	if msg.Err != nil {
		LogError(envEditorSubsystem, msg.Err, "Failed to validate env file")
		return m, m.Alert("Failed to validate configuration", model.StatusBarError)
	}
	d.Editor.SetValidation(msg.Result)
	return m, nil
}

func handleEnvExportedMsg(m *model.Model, msg model.EnvExportedMsg) (*model.Model, tea.Cmd) {
	if msg.Err != nil {
		LogError(envEditorSubsystem, msg.Err, "Failed to export configuration")
		return m, m.Alert(fmt.Sprintf("Export failed: %v", msg.Err), model.StatusBarError)
	}
	return m, m.Alert("Configuration exported to "+msg.Path, model.StatusBarSuccess)
}

func handleEnvImportReadMsg(m *model.Model, msg model.EnvImportReadMsg) (*model.Model, tea.Cmd) {
	d := m.EnvDialog
	if d == nil {
		return m, nil
	}
	if msg.Err != nil {
		LogError(envEditorSubsystem, msg.Err, "Failed to read %s", msg.Path)
		return m, m.Alert(fmt.Sprintf("Import failed: %v", msg.Err), model.StatusBarError)
	}
	applied, skipped, err := d.Editor.Import(bytes.NewReader(msg.Data))
	if err != nil {
		LogError(envEditorSubsystem, err, "Failed to import %s", msg.Path)
		return m, m.Alert(fmt.Sprintf("Import failed: %v", err), model.StatusBarError)
	}
	if len(skipped) > 0 {
		LogWarn(envEditorSubsystem, "Import skipped unknown keys: %s", strings.Join(skipped, ", "))
	}
	return m, m.Alert(fmt.Sprintf("Imported %d values from %s", applied, filepath.Base(msg.Path)), model.StatusBarSuccess)
}
