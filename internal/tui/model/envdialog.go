package model

import (
	"github.com/charmbracelet/bubbles/textinput"

	"ddalabctl/internal/backend"
	"ddalabctl/internal/envedit"
)

// EnvFocus is the focused area of the env editor.
type EnvFocus int

const (
	EnvFocusList EnvFocus = iota
	EnvFocusSearch
	EnvFocusEdit
	EnvFocusImport
)

// EnvRow is one visible line of the editor list: either a section header
// or a variable of an unfolded section.
type EnvRow struct {
	Header  bool
	Section string
	Count   int
	Var     backend.EnvVar
}

// EnvDialog is the state of the environment editor.
type EnvDialog struct {
	Editor *envedit.Editor

	Loading    bool
	LoadErr    error
	Saving     bool
	Validating bool

	Cursor     int
	Focus      EnvFocus
	Search     textinput.Model
	Value      textinput.Model
	ImportPath textinput.Model
	EditingKey string
}

// NewEnvDialog returns a dialog waiting for GET /env/file.
func NewEnvDialog() *EnvDialog {
	search := textinput.New()
	search.Placeholder = "search keys, values, comments"
	search.Prompt = "/ "

	value := textinput.New()
	value.Prompt = "= "
	value.CharLimit = 8192

	imp := textinput.New()
	imp.Placeholder = "ddalab-config-YYYY-MM-DD.json"
	imp.Prompt = "import: "

	return &EnvDialog{
		Editor:     envedit.NewEditor(),
		Loading:    true,
		Search:     search,
		Value:      value,
		ImportPath: imp,
	}
}

// Rows returns the visible rows for the current filter, sort and folding.
func (d *EnvDialog) Rows() []EnvRow {
	var rows []EnvRow
	for _, g := range d.Editor.Groups() {
		rows = append(rows, EnvRow{Header: true, Section: g.Section, Count: len(g.Vars)})
		if !d.Editor.Expanded(g.Section) {
			continue
		}
		for _, v := range g.Vars {
			rows = append(rows, EnvRow{Section: g.Section, Var: v})
		}
	}
	return rows
}

// CurrentRow returns the row under the cursor.
func (d *EnvDialog) CurrentRow() (EnvRow, bool) {
	rows := d.Rows()
	if d.Cursor < 0 || d.Cursor >= len(rows) {
		return EnvRow{}, false
	}
	return rows[d.Cursor], true
}

// MoveCursor moves the cursor by delta, clamped to the visible rows.
func (d *EnvDialog) MoveCursor(delta int) {
	d.Cursor += delta
	d.ClampCursor()
}

// ClampCursor keeps the cursor inside the visible rows.
func (d *EnvDialog) ClampCursor() {
	n := len(d.Rows())
	if d.Cursor >= n {
		d.Cursor = n - 1
	}
	if d.Cursor < 0 {
		d.Cursor = 0
	}
}

// BeginEdit focuses the value input on v. It returns false for secrets that
// are currently hidden.
func (d *EnvDialog) BeginEdit(v backend.EnvVar) bool {
	if !d.Editor.Editable(v) {
		return false
	}
	d.EditingKey = v.Key
	d.Value.SetValue(d.Editor.Effective(v))
	d.Value.CursorEnd()
	d.Value.Focus()
	d.Focus = EnvFocusEdit
	return true
}

// CommitEdit stores the value input in the overlay.
func (d *EnvDialog) CommitEdit() error {
	key := d.EditingKey
	d.EndEdit()
	return d.Editor.Set(key, d.Value.Value())
}

// EndEdit leaves edit mode without storing anything.
func (d *EnvDialog) EndEdit() {
	d.EditingKey = ""
	d.Value.Blur()
	d.Focus = EnvFocusList
}

// Busy reports whether a request of the dialog is in flight.
func (d *EnvDialog) Busy() bool {
	return d.Loading || d.Saving || d.Validating
}
