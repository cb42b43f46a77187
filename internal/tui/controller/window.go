package controller

import (
	tea "github.com/charmbracelet/bubbletea"

	"ddalabctl/internal/tui/model"
)

// overlay frame: border, padding and title lines around a viewport
const (
	overlayHorizontalFrame = 8
	overlayVerticalFrame   = 8
)

func handleWindowSizeMsg(m *model.Model, msg tea.WindowSizeMsg) (*model.Model, tea.Cmd) {
	m.Width = msg.Width
	m.Height = msg.Height

	w := max(msg.Width-overlayHorizontalFrame, 10)
	h := max(msg.Height-overlayVerticalFrame, 3)
	m.LogViewport.Width, m.LogViewport.Height = w, h
	m.BackendLogViewport.Width, m.BackendLogViewport.Height = w, h
	m.Help.Width = msg.Width
	m.ActivityLogDirty = true
	return m, nil
}
