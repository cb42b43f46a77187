package model

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ddalabctl/internal/backend"
	"ddalabctl/internal/config"
	"ddalabctl/internal/tui/design"
)

// InitializeModel builds the model for a fresh session.
func InitializeModel(cfg TUIConfig) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(design.ColorPrimary)

	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = config.DefaultPollInterval
	}
	alertDuration := cfg.AlertDuration
	if alertDuration <= 0 {
		alertDuration = config.DefaultAlertDuration
	}

	return &Model{
		CurrentAppMode:     ModeLoading,
		LastAppMode:        ModeDashboard,
		DebugMode:          cfg.DebugMode,
		Backend:            cfg.Backend,
		Opener:             cfg.Opener,
		PollInterval:       pollInterval,
		AlertDuration:      alertDuration,
		ExportDir:          cfg.ExportDir,
		IsLoading:          true,
		InitialLoadPending: InitialLoadSteps,
		ServiceBusy:        map[string]backend.Action{},
		LogViewport:        viewport.New(0, 0),
		BackendLogViewport: viewport.New(0, 0),
		Spinner:            s,
		Keys:               DefaultKeyMap(),
		Help:               help.New(),
		LogChannel:         cfg.LogChannel,
	}
}

// Init starts the initial load, the poll loop, the spinner and the log
// listener.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.Spinner.Tick,
		PollTickCmd(m.PollInterval, m.PollGeneration),
	}
	if m.Backend != nil {
		cmds = append(cmds, InitialLoadCmd(m.Backend))
	}
	if m.LogChannel != nil {
		cmds = append(cmds, ListenForLogEntriesCmd(m.LogChannel))
	}
	return tea.Batch(cmds...)
}

// CompleteInitialStep records one finished step of the initial load and
// leaves the loading screen once all are done.
func (m *Model) CompleteInitialStep() {
	if !m.IsLoading {
		return
	}
	m.InitialLoadPending--
	if m.InitialLoadPending <= 0 {
		m.IsLoading = false
		if m.CurrentAppMode == ModeLoading {
			m.CurrentAppMode = ModeDashboard
		}
	}
}

// StopPolling invalidates any scheduled poll tick.
func (m *Model) StopPolling() {
	m.PollGeneration++
}
