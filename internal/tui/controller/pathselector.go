package controller

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ddalabctl/internal/pathselect"
	"ddalabctl/internal/tui/model"
)

const pathSelectorSubsystem = "PathSelector"

func openPathSelector(m *model.Model) (*model.Model, tea.Cmd) {
	m.PathDialog = model.NewPathDialog(m.CurrentPath)
	m.LastAppMode = m.CurrentAppMode
	m.CurrentAppMode = model.ModePathSelector
	return m, model.LoadPathCandidatesCmd(m.Backend)
}

func closePathSelector(m *model.Model) {
	if m.PathDialog != nil {
		// Answers still in flight must not land in a later dialog.
		m.PathDialog.Tracker.Invalidate()
	}
	m.PathDialog = nil
	m.CurrentAppMode = model.ModeDashboard
}

func handlePathSelectorKey(m *model.Model, keyMsg tea.KeyMsg) (*model.Model, tea.Cmd) {
	d := m.PathDialog
	if d == nil {
		m.CurrentAppMode = model.ModeDashboard
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.Keys.Esc):
		closePathSelector(m)
		return m, nil
	case key.Matches(keyMsg, m.Keys.Tab):
		if d.Focus == model.PathFocusList {
			d.SetFocus(model.PathFocusInput)
			return m, textinput.Blink
		}
		d.SetFocus(model.PathFocusList)
		return m, nil
	case key.Matches(keyMsg, m.Keys.Enter):
		return submitPath(m)
	}

	if d.Focus == model.PathFocusList {
		switch {
		case key.Matches(keyMsg, m.Keys.Up):
			d.MoveCursor(-1)
		case key.Matches(keyMsg, m.Keys.Down):
			d.MoveCursor(1)
		}
		return m, nil
	}

	before := d.Input.Value()
	var cmd tea.Cmd
	d.Input, cmd = d.Input.Update(keyMsg)
	if d.Input.Value() == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, validateCustomPath(m))
}

// validateCustomPath issues a numbered validation request for the current
// input. Empty input clears the result and drops answers still in flight.
func validateCustomPath(m *model.Model) tea.Cmd {
	d := m.PathDialog
	path := pathselect.Normalize(d.Input.Value())
	if path == "" {
		d.Tracker.Invalidate()
		d.Result = nil
		d.Validating = false
		return nil
	}
	seq := d.Tracker.Next()
	d.Validating = true
	return model.ValidatePathCmd(m.Backend, seq, path)
}

func submitPath(m *model.Model) (*model.Model, tea.Cmd) {
	d := m.PathDialog
	if d.Selecting {
		return m, nil
	}
	var path string
	if d.Focus == model.PathFocusInput {
		path = pathselect.Normalize(d.Input.Value())
	} else if c, ok := d.SelectedCandidate(); ok {
		path = c.Path
	}
	if path == "" {
		return m, nil
	}
	// The selection answer replaces whatever live validation was pending.
	d.Tracker.Invalidate()
	d.Validating = false
	d.Selecting = true
	LogInfo(pathSelectorSubsystem, "Selecting installation path %s", path)
	return m, model.SelectPathCmd(m.Backend, path)
}

func handleKnownPathsMsg(m *model.Model, msg model.KnownPathsMsg) (*model.Model, tea.Cmd) {
	if m.PathDialog == nil {
		return m, nil
	}
	if msg.Err != nil {
		LogError(pathSelectorSubsystem, msg.Err, "Failed to load known paths")
		m.PathDialog.LoadErr = msg.Err
	}
	m.PathDialog.SetKnown(msg.Info)
	return m, nil
}

func handleDiscoveredPathsMsg(m *model.Model, msg model.DiscoveredPathsMsg) (*model.Model, tea.Cmd) {
	if m.PathDialog == nil {
		return m, nil
	}
	if msg.Err != nil {
		LogError(pathSelectorSubsystem, msg.Err, "Failed to discover paths")
		m.PathDialog.LoadErr = msg.Err
	}
	m.PathDialog.SetDiscovered(msg.Paths)
	return m, nil
}

func handlePathValidatedMsg(m *model.Model, msg model.PathValidatedMsg) (*model.Model, tea.Cmd) {
	d := m.PathDialog
	if d == nil || !d.Tracker.Accept(msg.Seq) {
		LogDebug(m, pathSelectorSubsystem, "Dropping stale validation #%d for %s", msg.Seq, msg.Path)
		return m, nil
	}
	d.Validating = false
	if msg.Err != nil {
		d.Result = pathselect.ValidationFailed(msg.Path, msg.Err)
		return m, nil
	}
	d.Result = msg.Result
	return m, nil
}

func handlePathSelectedMsg(m *model.Model, msg model.PathSelectedMsg) (*model.Model, tea.Cmd) {
	d := m.PathDialog
	if d == nil {
		return m, nil
	}
	d.Selecting = false
	if msg.Err != nil {
		LogError(pathSelectorSubsystem, msg.Err, "Failed to select %s", msg.Path)
		d.Result = pathselect.SelectionFailed(msg.Path, msg.Err)
		return m, nil
	}
	if msg.Result == nil || !msg.Result.Valid {
		d.Result = msg.Result
		return m, nil
	}

	closePathSelector(m)
	m.CurrentPath = msg.Path
	return m, tea.Batch(
		m.Alert("Switched to DDALAB installation at: "+msg.Path, model.StatusBarSuccess),
		model.FetchEnvConfigCmd(m.Backend, false),
		model.FetchStatusCmd(m.Backend, false),
	)
}
