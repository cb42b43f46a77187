package controller

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"ddalabctl/internal/tui/model"
)

// NewProgram creates the Bubble Tea program for the dashboard. Cancelling
// ctx ends the program.
func NewProgram(ctx context.Context, cfg model.TUIConfig) *tea.Program {
	m := model.InitializeModel(cfg)
	return tea.NewProgram(NewAppModel(m),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
}
