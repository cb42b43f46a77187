package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ddalabctl/internal/tui/design"
	"ddalabctl/internal/tui/model"
	"ddalabctl/internal/tui/utils"
)

// StatusBar represents the bottom status bar
type StatusBar struct {
	Width       int
	Message     string
	MessageType model.MessageType
	LeftText    string
	RightText   string
	ShowMessage bool
}

// NewStatusBar creates a new status bar
func NewStatusBar(width int) *StatusBar {
	return &StatusBar{Width: width}
}

// WithMessage sets the alert to show
func (s *StatusBar) WithMessage(message string, msgType model.MessageType) *StatusBar {
	s.Message = message
	s.MessageType = msgType
	s.ShowMessage = message != ""
	return s
}

// WithLeftText sets the left side text
func (s *StatusBar) WithLeftText(text string) *StatusBar {
	s.LeftText = text
	return s
}

// WithRightText sets the right side text
func (s *StatusBar) WithRightText(text string) *StatusBar {
	s.RightText = text
	return s
}

// Render returns the styled status bar. An alert replaces the left and
// right texts.
func (s *StatusBar) Render() string {
	style := s.getStyle()
	avail := s.Width - style.GetHorizontalPadding()

	var content string
	switch {
	case s.ShowMessage:
		content = utils.TruncateString(severityIcon(s.MessageType)+" "+s.Message, avail)
	case s.LeftText != "" && s.RightText != "":
		gap := avail - lipgloss.Width(s.LeftText) - lipgloss.Width(s.RightText)
		if gap > 0 {
			content = s.LeftText + strings.Repeat(" ", gap) + s.RightText
		} else {
			content = utils.TruncateString(s.LeftText, avail)
		}
	default:
		content = utils.TruncateString(s.LeftText+s.RightText, avail)
	}

	return style.Width(max(s.Width, 0)).MaxWidth(max(s.Width, 0)).Render(content)
}

func (s *StatusBar) getStyle() lipgloss.Style {
	if !s.ShowMessage {
		return design.StatusBarStyle
	}
	switch s.MessageType {
	case model.StatusBarSuccess:
		return design.StatusBarSuccessStyle
	case model.StatusBarError:
		return design.StatusBarErrorStyle
	case model.StatusBarWarning:
		return design.StatusBarWarningStyle
	default:
		return design.StatusBarInfoStyle
	}
}

func severityIcon(t model.MessageType) string {
	switch t {
	case model.StatusBarSuccess:
		return "✔"
	case model.StatusBarError:
		return "✖"
	case model.StatusBarWarning:
		return "⚠"
	default:
		return "ℹ"
	}
}
