package controller

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"ddalabctl/internal/tui/model"
	"ddalabctl/internal/tui/view"
)

const controllerDispatchSubsystem = "ControllerDispatch"

// mainControllerDispatch routes every message to its handler. It is the only
// place the model is mutated.
func mainControllerDispatch(m *model.Model, msg tea.Msg) (*model.Model, tea.Cmd) {
	switch msg.(type) {
	case spinner.TickMsg, model.NewLogEntryMsg, model.PollTickMsg:
	default:
		LogDebug(m, controllerDispatchSubsystem, "Received msg: %T", msg)
	}

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return quit(m)
		}
		return handleKeyMsg(m, msg)

	case tea.WindowSizeMsg:
		return handleWindowSizeMsg(m, msg)

	case model.ClearStatusBarMsg:
		m.ClearStatusMessageFor(msg.Generation)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case model.PollTickMsg:
		return handlePollTick(m, msg)

	case model.StatusMsg:
		return handleStatusMsg(m, msg)
	case model.CurrentPathMsg:
		return handleCurrentPathMsg(m, msg)
	case model.EnvConfigMsg:
		return handleEnvConfigMsg(m, msg)

	case model.ServiceActionMsg:
		return handleServiceActionMsg(m, msg)
	case model.StackActionMsg:
		return handleStackActionMsg(m, msg)
	case model.BackupMsg:
		return handleBackupMsg(m, msg)
	case model.UpdateMsg:
		return handleUpdateMsg(m, msg)
	case model.BackendLogsMsg:
		return handleBackendLogsMsg(m, msg)
	case model.OpenURLMsg:
		return handleOpenURLMsg(m, msg)

	case model.KnownPathsMsg:
		return handleKnownPathsMsg(m, msg)
	case model.DiscoveredPathsMsg:
		return handleDiscoveredPathsMsg(m, msg)
	case model.PathValidatedMsg:
		return handlePathValidatedMsg(m, msg)
	case model.PathSelectedMsg:
		return handlePathSelectedMsg(m, msg)

	case model.EnvFileLoadedMsg:
		return handleEnvFileLoadedMsg(m, msg)
	case model.EnvSavedMsg:
		return handleEnvSavedMsg(m, msg)
	case model.EnvValidatedMsg:
		return handleEnvValidatedMsg(m, msg)
	case model.EnvExportedMsg:
		return handleEnvExportedMsg(m, msg)
	case model.EnvImportReadMsg:
		return handleEnvImportReadMsg(m, msg)

	case model.NewLogEntryMsg:
		m = handleNewLogEntry(m, msg)
		cmds = append(cmds, model.ListenForLogEntriesCmd(m.LogChannel))

	case tea.MouseMsg:
		var cmd tea.Cmd
		switch m.CurrentAppMode {
		case model.ModeLogOverlay:
			m.LogViewport, cmd = m.LogViewport.Update(msg)
		case model.ModeBackendLogs:
			m.BackendLogViewport, cmd = m.BackendLogViewport.Update(msg)
		}
		cmds = append(cmds, cmd)

	default:
		cmds = append(cmds, forwardToFocusedInput(m, msg))
	}

	if m.ActivityLogDirty {
		m.LogViewport.SetContent(view.PrepareLogContent(m.ActivityLog, m.LogViewport.Width))
		if m.CurrentAppMode != model.ModeLogOverlay || m.LogViewport.AtBottom() {
			m.LogViewport.GotoBottom()
		}
		m.ActivityLogDirty = false
	}

	return m, tea.Batch(cmds...)
}

// forwardToFocusedInput passes cursor blink and similar messages to the
// text input that currently has focus.
func forwardToFocusedInput(m *model.Model, msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case m.CurrentAppMode == model.ModePathSelector && m.PathDialog != nil && m.PathDialog.Focus == model.PathFocusInput:
		m.PathDialog.Input, cmd = m.PathDialog.Input.Update(msg)
	case m.CurrentAppMode == model.ModeEnvEditor && m.EnvDialog != nil:
		d := m.EnvDialog
		switch d.Focus {
		case model.EnvFocusSearch:
			d.Search, cmd = d.Search.Update(msg)
		case model.EnvFocusEdit:
			d.Value, cmd = d.Value.Update(msg)
		case model.EnvFocusImport:
			d.ImportPath, cmd = d.ImportPath.Update(msg)
		}
	}
	return cmd
}

func quit(m *model.Model) (*model.Model, tea.Cmd) {
	m.CurrentAppMode = model.ModeQuitting
	m.QuitApp = true
	m.StopPolling()
	m.ClearStatusMessage()
	return m, tea.Quit
}
