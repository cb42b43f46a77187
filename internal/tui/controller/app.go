package controller

import (
	tea "github.com/charmbracelet/bubbletea"

	"ddalabctl/internal/tui/model"
	"ddalabctl/internal/tui/view"
)

// AppModel is the tea.Model handed to the program. Messages go through
// mainControllerDispatch and rendering through view.Render.
type AppModel struct {
	model *model.Model
}

func NewAppModel(m *model.Model) AppModel {
	return AppModel{model: m}
}

func (a AppModel) Init() tea.Cmd {
	return a.model.Init()
}

func (a AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	updatedModel, cmd := mainControllerDispatch(a.model, msg)
	a.model = updatedModel
	return a, cmd
}

func (a AppModel) View() string {
	return view.Render(a.model)
}
