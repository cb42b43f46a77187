package model

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all the key bindings for the application
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Esc     key.Binding
	Tab     key.Binding
	Quit    key.Binding
	Help    key.Binding
	Refresh key.Binding

	Start   key.Binding
	Stop    key.Binding
	Restart key.Binding

	StackStart   key.Binding
	StackStop    key.Binding
	StackRestart key.Binding

	Backup      key.Binding
	Update      key.Binding
	Open        key.Binding
	EditConfig  key.Binding
	SelectPath  key.Binding
	BackendLogs key.Binding
	ToggleLog   key.Binding
	ToggleDebug key.Binding

	// Env editor
	Search        key.Binding
	Save          key.Binding
	Validate      key.Binding
	CycleSort     key.Binding
	RequiredOnly  key.Binding
	SecretOnly    key.Binding
	ToggleSecrets key.Binding
	ExpandAll     key.Binding
	Export        key.Binding
	Import        key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Esc:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Tab:     key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch focus")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:    key.NewBinding(key.WithKeys("h", "?"), key.WithHelp("h/?", "help")),
		Refresh: key.NewBinding(key.WithKeys("f", "ctrl+r"), key.WithHelp("f", "refresh")),

		Start:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start service")),
		Stop:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop service")),
		Restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart service")),

		StackStart:   key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "start all")),
		StackStop:    key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "stop all")),
		StackRestart: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "restart all")),

		Backup:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "backup database")),
		Update:      key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "update DDALAB")),
		Open:        key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open website")),
		EditConfig:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit configuration")),
		SelectPath:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "change path")),
		BackendLogs: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "backend logs")),
		ToggleLog:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "activity log")),
		ToggleDebug: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "toggle debug")),

		Search:        key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Save:          key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Validate:      key.NewBinding(key.WithKeys("V"), key.WithHelp("V", "validate")),
		CycleSort:     key.NewBinding(key.WithKeys("O"), key.WithHelp("O", "cycle sort")),
		RequiredOnly:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "required only")),
		SecretOnly:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "secrets only")),
		ToggleSecrets: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "show secrets")),
		ExpandAll:     key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "expand all")),
		Export:        key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "export")),
		Import:        key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "import")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.SelectPath, k.EditConfig, k.Refresh, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Start, k.Stop, k.Restart},
		{k.StackStart, k.StackStop, k.StackRestart, k.Backup, k.Update},
		{k.Open, k.EditConfig, k.SelectPath, k.BackendLogs, k.ToggleLog},
		{k.Refresh, k.ToggleDebug, k.Help, k.Quit},
	}
}

// EnvEditorHelp lists the bindings of the env editor.
func (k KeyMap) EnvEditorHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Enter, k.Search, k.CycleSort, k.RequiredOnly, k.SecretOnly,
		k.ToggleSecrets, k.ExpandAll, k.Validate, k.Save, k.Export, k.Import, k.Esc,
	}
}

// PathSelectorHelp lists the bindings of the path selector.
func (k KeyMap) PathSelectorHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Tab, k.Enter, k.Esc}
}
