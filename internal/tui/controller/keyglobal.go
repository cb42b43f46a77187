package controller

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"ddalabctl/internal/backend"
	"ddalabctl/internal/tui/model"
)

// handleKeyMsg routes a key press to the handler of the current mode.
func handleKeyMsg(m *model.Model, keyMsg tea.KeyMsg) (*model.Model, tea.Cmd) {
	switch m.CurrentAppMode {
	case model.ModePathSelector:
		return handlePathSelectorKey(m, keyMsg)
	case model.ModeEnvEditor:
		return handleEnvEditorKey(m, keyMsg)
	case model.ModeLogOverlay, model.ModeBackendLogs:
		return handleLogOverlayKey(m, keyMsg)
	case model.ModeQuitting:
		return m, nil
	}
	return handleKeyMsgGlobal(m, keyMsg)
}

// handleKeyMsgGlobal processes key presses on the dashboard, the loading
// screen and the help overlay.
func handleKeyMsgGlobal(m *model.Model, keyMsg tea.KeyMsg) (*model.Model, tea.Cmd) {
	if m.CurrentAppMode == model.ModeHelpOverlay && key.Matches(keyMsg, m.Keys.Esc) {
		m.CurrentAppMode = model.ModeDashboard
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.Keys.Quit):
		return quit(m)
	case key.Matches(keyMsg, m.Keys.Help):
		if m.CurrentAppMode == model.ModeHelpOverlay {
			m.CurrentAppMode = model.ModeDashboard
		} else if m.CurrentAppMode == model.ModeDashboard {
			m.CurrentAppMode = model.ModeHelpOverlay
		}
		return m, nil
	case key.Matches(keyMsg, m.Keys.ToggleDebug):
		m.DebugMode = !m.DebugMode
		return m, nil
	case key.Matches(keyMsg, m.Keys.ToggleLog):
		m.LastAppMode = m.CurrentAppMode
		m.CurrentAppMode = model.ModeLogOverlay
		m.LogViewport.GotoBottom()
		return m, nil
	}

	// Everything below needs the dashboard.
	if m.CurrentAppMode != model.ModeDashboard || m.Backend == nil {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.Keys.Up):
		if m.ServiceCursor > 0 {
			m.ServiceCursor--
		}
	case key.Matches(keyMsg, m.Keys.Down):
		if m.ServiceCursor < len(m.Status.Services)-1 {
			m.ServiceCursor++
		}
	case key.Matches(keyMsg, m.Keys.Refresh):
		return refresh(m)
	case key.Matches(keyMsg, m.Keys.Start):
		return startServiceAction(m, backend.ActionStart)
	case key.Matches(keyMsg, m.Keys.Stop):
		return startServiceAction(m, backend.ActionStop)
	case key.Matches(keyMsg, m.Keys.Restart):
		return startServiceAction(m, backend.ActionRestart)
	case key.Matches(keyMsg, m.Keys.StackStart):
		return startStackAction(m, backend.ActionStart)
	case key.Matches(keyMsg, m.Keys.StackStop):
		return startStackAction(m, backend.ActionStop)
	case key.Matches(keyMsg, m.Keys.StackRestart):
		return startStackAction(m, backend.ActionRestart)
	case key.Matches(keyMsg, m.Keys.Backup):
		return startBackup(m)
	case key.Matches(keyMsg, m.Keys.Update):
		return startUpdate(m)
	case key.Matches(keyMsg, m.Keys.Open):
		return startOpenWebsite(m)
	case key.Matches(keyMsg, m.Keys.BackendLogs):
		return openBackendLogs(m)
	case key.Matches(keyMsg, m.Keys.SelectPath):
		return openPathSelector(m)
	case key.Matches(keyMsg, m.Keys.EditConfig):
		return openEnvEditor(m)
	}
	return m, nil
}

func handleLogOverlayKey(m *model.Model, keyMsg tea.KeyMsg) (*model.Model, tea.Cmd) {
	vp := &m.LogViewport
	content := strings.Join(m.ActivityLog, "\n")
	if m.CurrentAppMode == model.ModeBackendLogs {
		vp = &m.BackendLogViewport
		content = m.BackendLogs
	}

	switch {
	case key.Matches(keyMsg, m.Keys.Esc), key.Matches(keyMsg, m.Keys.ToggleLog) && m.CurrentAppMode == model.ModeLogOverlay,
		key.Matches(keyMsg, m.Keys.BackendLogs) && m.CurrentAppMode == model.ModeBackendLogs:
		m.CurrentAppMode = model.ModeDashboard
		return m, nil
	case key.Matches(keyMsg, m.Keys.Quit):
		return quit(m)
	case key.Matches(keyMsg, m.Keys.Refresh) && m.CurrentAppMode == model.ModeBackendLogs:
		if m.LogsBusy {
			return m, nil
		}
		m.LogsBusy = true
		return m, model.FetchBackendLogsCmd(m.Backend)
	case keyMsg.String() == "y":
		if err := clipboard.WriteAll(content); err != nil {
			LogError(controllerSubsystem, err, "Failed to copy logs")
			return m, m.Alert("Copy logs failed", model.StatusBarError)
		}
		return m, m.Alert("Logs copied to clipboard", model.StatusBarSuccess)
	}

	var cmd tea.Cmd
	*vp, cmd = vp.Update(keyMsg)
	return m, cmd
}
