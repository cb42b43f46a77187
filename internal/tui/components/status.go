package components

import (
	"github.com/charmbracelet/lipgloss"

	"ddalabctl/internal/backend"
	"ddalabctl/internal/tui/design"
)

// StatusIndicator renders a service state as icon and label.
type StatusIndicator struct {
	State    backend.ServiceState
	Busy     backend.Action
	Spinner  string
	ShowText bool
}

// NewStatusIndicator creates an indicator for state.
func NewStatusIndicator(state backend.ServiceState) *StatusIndicator {
	return &StatusIndicator{State: state, ShowText: true}
}

// WithBusy marks an action in flight; spinner is the current spinner frame.
func (s *StatusIndicator) WithBusy(action backend.Action, spinner string) *StatusIndicator {
	s.Busy = action
	s.Spinner = spinner
	return s
}

// IconOnly hides the label
func (s *StatusIndicator) IconOnly() *StatusIndicator {
	s.ShowText = false
	return s
}

// Render returns the styled indicator.
func (s *StatusIndicator) Render() string {
	if s.Busy != "" {
		text := s.Spinner
		if s.ShowText {
			text += " " + busyLabel(s.Busy)
		}
		return design.TextWarningStyle.Render(text)
	}
	style := design.GetStateStyle(string(s.State))
	text := stateIcon(s.State)
	if s.ShowText {
		text += " " + string(s.State)
	}
	return style.Render(text)
}

// Width returns the rendered cell width.
func (s *StatusIndicator) Width() int {
	return lipgloss.Width(s.Render())
}

func stateIcon(state backend.ServiceState) string {
	switch state {
	case backend.ServiceRunning:
		return "●"
	case backend.ServiceStopped:
		return "○"
	default:
		return "?"
	}
}

func busyLabel(a backend.Action) string {
	switch a {
	case backend.ActionStart:
		return "starting"
	case backend.ActionStop:
		return "stopping"
	case backend.ActionRestart:
		return "restarting"
	default:
		return string(a)
	}
}
