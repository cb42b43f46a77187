package controller

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"ddalabctl/internal/backend"
	"ddalabctl/internal/tui/model"
	"ddalabctl/pkg/logging"
)

const connectFailedMessage = "Failed to connect to DDALAB backend"

func handlePollTick(m *model.Model, msg model.PollTickMsg) (*model.Model, tea.Cmd) {
	if msg.Generation != m.PollGeneration || m.QuitApp {
		return m, nil
	}
	cmds := []tea.Cmd{model.PollTickCmd(m.PollInterval, m.PollGeneration)}
	if m.Backend != nil {
		cmds = append(cmds, model.FetchStatusCmd(m.Backend, false))
	}
	return m, tea.Batch(cmds...)
}

func handleStatusMsg(m *model.Model, msg model.StatusMsg) (*model.Model, tea.Cmd) {
	if msg.Initial {
		m.CompleteInitialStep()
	}
	if msg.Err != nil {
		m.LastStatusErr = msg.Err
		LogError(controllerSubsystem, msg.Err, "Failed to fetch status")
		if m.HasAlert() {
			return m, nil
		}
		return m, m.Alert(connectFailedMessage, model.StatusBarError)
	}

	m.LastStatusErr = nil
	m.LastStatusTime = time.Now()
	m.StatusLoaded = true
	if msg.Status != nil {
		m.Status = *msg.Status
		if msg.Status.Path != "" {
			m.CurrentPath = msg.Status.Path
		}
	}
	m.ClampServiceCursor()
	return m, nil
}

func handleCurrentPathMsg(m *model.Model, msg model.CurrentPathMsg) (*model.Model, tea.Cmd) {
	if msg.Initial {
		m.CompleteInitialStep()
	}
	if msg.Err != nil {
		LogError(controllerSubsystem, msg.Err, "Failed to load initial path")
		return m, nil
	}
	if msg.Info != nil && msg.Info.SelectedPath != "" {
		m.CurrentPath = msg.Info.SelectedPath
	}
	return m, nil
}

func handleEnvConfigMsg(m *model.Model, msg model.EnvConfigMsg) (*model.Model, tea.Cmd) {
	if msg.Initial {
		m.CompleteInitialStep()
	}
	if msg.Err != nil {
		LogError(controllerSubsystem, msg.Err, "Failed to fetch env config")
		return m, nil
	}
	m.EnvConfig = msg.Config
	return m, nil
}

// requirePath returns an alert command when no installation is selected.
func requirePath(m *model.Model) tea.Cmd {
	if m.HasPath() {
		return nil
	}
	return m.Alert("Select a DDALAB installation path to control services", model.StatusBarWarning)
}

func startServiceAction(m *model.Model, action backend.Action) (*model.Model, tea.Cmd) {
	if cmd := requirePath(m); cmd != nil {
		return m, cmd
	}
	svc, ok := m.SelectedService()
	if !ok || m.IsServiceBusy(svc.Name) {
		return m, nil
	}
	running := svc.Status == backend.ServiceRunning
	switch action {
	case backend.ActionStart:
		if running {
			return m, m.Alert(fmt.Sprintf("%s is already running", svc.Name), model.StatusBarInfo)
		}
	case backend.ActionStop, backend.ActionRestart:
		if !running {
			return m, m.Alert(fmt.Sprintf("%s is not running", svc.Name), model.StatusBarInfo)
		}
	}
	m.ServiceBusy[svc.Name] = action
	LogInfo(controllerSubsystem, "Requested %s of service %s", action, svc.Name)
	return m, model.ServiceActionCmd(m.Backend, svc.Name, action)
}

func handleServiceActionMsg(m *model.Model, msg model.ServiceActionMsg) (*model.Model, tea.Cmd) {
	delete(m.ServiceBusy, msg.Name)
	if msg.Err != nil {
		LogError(controllerSubsystem, msg.Err, "Failed to %s %s", msg.Action, msg.Name)
		return m, m.Alert(fmt.Sprintf("Failed to %s %s", msg.Action, msg.Name), model.StatusBarError)
	}
	return m, tea.Batch(
		m.Alert(fmt.Sprintf("%s %s successfully", msg.Action, msg.Name), model.StatusBarSuccess),
		model.FetchStatusCmd(m.Backend, false),
	)
}

func startStackAction(m *model.Model, action backend.Action) (*model.Model, tea.Cmd) {
	if cmd := requirePath(m); cmd != nil {
		return m, cmd
	}
	if m.StackBusy != "" {
		return m, nil
	}
	m.StackBusy = action
	LogInfo(controllerSubsystem, "Requested stack %s", action)
	return m, model.StackActionCmd(m.Backend, action)
}

func handleStackActionMsg(m *model.Model, msg model.StackActionMsg) (*model.Model, tea.Cmd) {
	m.StackBusy = ""
	if msg.Err != nil {
		LogError(controllerSubsystem, msg.Err, "Stack %s failed", msg.Action)
		return m, m.Alert(fmt.Sprintf("Failed to %s DDALAB", msg.Action), model.StatusBarError)
	}
	return m, tea.Batch(
		m.Alert(fmt.Sprintf("DDALAB %s initiated", msg.Action), model.StatusBarSuccess),
		model.FetchStatusCmd(m.Backend, false),
	)
}

func startBackup(m *model.Model) (*model.Model, tea.Cmd) {
	if cmd := requirePath(m); cmd != nil {
		return m, cmd
	}
	if !m.Status.Running {
		return m, m.Alert("Backups need a running stack", model.StatusBarWarning)
	}
	if m.BackupBusy {
		return m, nil
	}
	m.BackupBusy = true
	return m, model.BackupCmd(m.Backend)
}

func handleBackupMsg(m *model.Model, msg model.BackupMsg) (*model.Model, tea.Cmd) {
	m.BackupBusy = false
	if msg.Err != nil {
		LogError(controllerSubsystem, msg.Err, "Backup failed")
		return m, m.Alert("Failed to create backup", model.StatusBarError)
	}
	return m, m.Alert("Backup created: "+msg.Result.Describe(), model.StatusBarSuccess)
}

func startUpdate(m *model.Model) (*model.Model, tea.Cmd) {
	if cmd := requirePath(m); cmd != nil {
		return m, cmd
	}
	if m.UpdateBusy {
		return m, nil
	}
	m.UpdateBusy = true
	return m, model.UpdateCmd(m.Backend)
}

func handleUpdateMsg(m *model.Model, msg model.UpdateMsg) (*model.Model, tea.Cmd) {
	m.UpdateBusy = false
	if msg.Err != nil {
		LogError(controllerSubsystem, msg.Err, "Update failed")
		return m, m.Alert("Failed to update DDALAB", model.StatusBarError)
	}
	text := "DDALAB updated successfully"
	if msg.Result != nil && msg.Result.Message != "" {
		text = msg.Result.Message
	}
	return m, tea.Batch(
		m.Alert(text, model.StatusBarSuccess),
		model.FetchStatusCmd(m.Backend, false),
	)
}

func startOpenWebsite(m *model.Model) (*model.Model, tea.Cmd) {
	if cmd := requirePath(m); cmd != nil {
		return m, cmd
	}
	url := m.WebsiteURL()
	if url == "" {
		return m, m.Alert("DDALAB URL not configured or found", model.StatusBarWarning)
	}
	if m.Opener == nil {
		return m, m.Alert("Please open: "+url, model.StatusBarInfo)
	}
	return m, model.OpenURLCmd(m.Opener, url)
}

func handleOpenURLMsg(m *model.Model, msg model.OpenURLMsg) (*model.Model, tea.Cmd) {
	if msg.Err != nil {
		LogError(controllerSubsystem, msg.Err, "Failed to open website")
		return m, m.Alert(fmt.Sprintf("Failed to open website: %v", msg.Err), model.StatusBarError)
	}
	return m, m.Alert(msg.Result.Message(), model.StatusBarInfo)
}

func openBackendLogs(m *model.Model) (*model.Model, tea.Cmd) {
	m.LastAppMode = m.CurrentAppMode
	m.CurrentAppMode = model.ModeBackendLogs
	if m.LogsBusy {
		return m, nil
	}
	m.LogsBusy = true
	return m, model.FetchBackendLogsCmd(m.Backend)
}

func handleBackendLogsMsg(m *model.Model, msg model.BackendLogsMsg) (*model.Model, tea.Cmd) {
	m.LogsBusy = false
	if msg.Err != nil {
		LogError(controllerSubsystem, msg.Err, "Failed to fetch logs")
		return m, m.Alert("Failed to fetch logs", model.StatusBarError)
	}
	m.BackendLogs = msg.Logs
	m.BackendLogViewport.SetContent(msg.Logs)
	m.BackendLogViewport.GotoBottom()
	return m, nil
}

func refresh(m *model.Model) (*model.Model, tea.Cmd) {
	return m, tea.Batch(
		model.FetchStatusCmd(m.Backend, false),
		model.FetchEnvConfigCmd(m.Backend, false),
	)
}

func handleNewLogEntry(m *model.Model, msg model.NewLogEntryMsg) *model.Model {
	entry := msg.Entry
	if entry.Level < logging.LevelInfo && !m.DebugMode {
		return m
	}
	line := fmt.Sprintf("%s [%s] [%s] %s",
		entry.Timestamp.Format("15:04:05.000"),
		entry.Level.String(),
		entry.Subsystem,
		entry.Message)
	if attrs := entry.AttrString(); attrs != "" {
		line += " " + attrs
	}
	if entry.Err != nil {
		line = fmt.Sprintf("%s -- Error: %v", line, entry.Err)
	}
	model.AddRawLineToActivityLog(m, line)
	return m
}
