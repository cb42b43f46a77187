package model

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"ddalabctl/internal/backend"
	"ddalabctl/internal/opener"
	"ddalabctl/pkg/logging"
)

// AppMode represents the current mode of the application
type AppMode int

const (
	ModeLoading AppMode = iota
	ModeDashboard
	ModeHelpOverlay
	ModeLogOverlay
	ModeBackendLogs
	ModePathSelector
	ModeEnvEditor
	ModeQuitting
)

// String provides a human-readable representation of the AppMode.
func (m AppMode) String() string {
	switch m {
	case ModeLoading:
		return "Loading"
	case ModeDashboard:
		return "Dashboard"
	case ModeHelpOverlay:
		return "HelpOverlay"
	case ModeLogOverlay:
		return "LogOverlay"
	case ModeBackendLogs:
		return "BackendLogs"
	case ModePathSelector:
		return "PathSelector"
	case ModeEnvEditor:
		return "EnvEditor"
	case ModeQuitting:
		return "Quitting"
	default:
		return "Unknown"
	}
}

// MessageType is the severity of a status bar alert.
type MessageType int

const (
	StatusBarInfo MessageType = iota
	StatusBarSuccess
	StatusBarError
	StatusBarWarning
)

func (t MessageType) String() string {
	switch t {
	case StatusBarSuccess:
		return "success"
	case StatusBarError:
		return "error"
	case StatusBarWarning:
		return "warning"
	default:
		return "info"
	}
}

// Constants for UI
const (
	MaxActivityLogLines = 1000
	InitialLoadSteps    = 3
)

// TUIConfig carries everything the model needs from the outside.
type TUIConfig struct {
	Backend       backend.Backend
	Opener        opener.URLOpener
	PollInterval  time.Duration
	AlertDuration time.Duration
	ExportDir     string
	DebugMode     bool
	LogChannel    <-chan logging.LogEntry
}

// Model is the complete state of the dashboard. It is only mutated from
// the controller's update loop.
type Model struct {
	// Terminal dimensions
	Width  int
	Height int

	CurrentAppMode AppMode
	LastAppMode    AppMode
	DebugMode      bool
	QuitApp        bool

	// Dependencies
	Backend       backend.Backend
	Opener        opener.URLOpener
	PollInterval  time.Duration
	AlertDuration time.Duration
	ExportDir     string

	// Initial load: the loading screen stays until every step reported.
	IsLoading          bool
	InitialLoadPending int

	// Backend state
	Status         backend.Status
	StatusLoaded   bool
	CurrentPath    string
	EnvConfig      *backend.EnvConfig
	LastStatusErr  error
	LastStatusTime time.Time

	// Poll loop; a tick is honoured only when it carries the current
	// generation.
	PollGeneration int

	// In-flight actions
	ServiceCursor int
	ServiceBusy   map[string]backend.Action
	StackBusy     backend.Action
	BackupBusy    bool
	UpdateBusy    bool
	LogsBusy      bool

	// Dialogs
	PathDialog *PathDialog
	EnvDialog  *EnvDialog

	// UI State & Output
	ActivityLog          []string
	ActivityLogDirty     bool
	LogViewport          viewport.Model
	BackendLogViewport   viewport.Model
	BackendLogs          string
	Spinner              spinner.Model
	Keys                 KeyMap
	Help                 help.Model
	StatusBarMessage     string
	StatusBarMessageType MessageType
	StatusBarClearCancel chan struct{}
	// StatusBarGeneration numbers alerts; a ClearStatusBarMsg only removes
	// the alert it was scheduled for.
	StatusBarGeneration int

	// Logging
	LogChannel <-chan logging.LogEntry
}

// SetStatusMessage shows an alert and schedules its removal. Setting a new
// alert cancels the pending removal of the previous one.
func (m *Model) SetStatusMessage(message string, msgType MessageType, clearAfter time.Duration) tea.Cmd {
	m.StatusBarMessage = message
	m.StatusBarMessageType = msgType

	if m.StatusBarClearCancel != nil {
		close(m.StatusBarClearCancel)
	}

	m.StatusBarGeneration++
	gen := m.StatusBarGeneration
	m.StatusBarClearCancel = make(chan struct{})
	captured := m.StatusBarClearCancel

	return tea.Tick(clearAfter, func(t time.Time) tea.Msg {
		select {
		case <-captured:
			return nil
		default:
			return ClearStatusBarMsg{Generation: gen}
		}
	})
}

// Alert is SetStatusMessage with the configured alert duration.
func (m *Model) Alert(message string, msgType MessageType) tea.Cmd {
	return m.SetStatusMessage(message, msgType, m.AlertDuration)
}

// ClearStatusMessage removes the current alert.
func (m *Model) ClearStatusMessage() {
	m.StatusBarMessage = ""
	if m.StatusBarClearCancel != nil {
		close(m.StatusBarClearCancel)
		m.StatusBarClearCancel = nil
	}
}

// ClearStatusMessageFor removes the current alert if it is still the one
// numbered gen.
func (m *Model) ClearStatusMessageFor(gen int) {
	if gen != m.StatusBarGeneration {
		return
	}
	m.ClearStatusMessage()
}

// HasAlert reports whether an alert is currently shown.
func (m *Model) HasAlert() bool {
	return m.StatusBarMessage != ""
}

// HasPath reports whether an installation path is selected. Every control
// action requires one.
func (m *Model) HasPath() bool {
	return m.CurrentPath != ""
}

// SelectedService returns the service under the cursor.
func (m *Model) SelectedService() (backend.Service, bool) {
	if m.ServiceCursor < 0 || m.ServiceCursor >= len(m.Status.Services) {
		return backend.Service{}, false
	}
	return m.Status.Services[m.ServiceCursor], true
}

// ClampServiceCursor keeps the cursor inside the service list after it
// changed size.
func (m *Model) ClampServiceCursor() {
	if n := len(m.Status.Services); m.ServiceCursor >= n {
		m.ServiceCursor = n - 1
	}
	if m.ServiceCursor < 0 {
		m.ServiceCursor = 0
	}
}

// IsServiceBusy reports whether an action on name is in flight.
func (m *Model) IsServiceBusy(name string) bool {
	_, ok := m.ServiceBusy[name]
	return ok
}

// OverallStatus is "running" when the stack reports running, else "stopped".
func (m *Model) OverallStatus() string {
	if m.Status.Running {
		return string(backend.ServiceRunning)
	}
	return string(backend.ServiceStopped)
}

// Health is the label of the health card.
func (m *Model) Health() string {
	if m.Status.Running {
		return "Healthy"
	}
	return "Stopped"
}

// WebsiteURL returns the DDALAB URL from the env config, or "".
func (m *Model) WebsiteURL() string {
	if m.EnvConfig == nil {
		return ""
	}
	return m.EnvConfig.URL
}
