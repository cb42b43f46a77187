package model

import (
	"github.com/charmbracelet/bubbles/textinput"

	"ddalabctl/internal/backend"
	"ddalabctl/internal/pathselect"
)

// PathFocus is the focused area of the path selector.
type PathFocus int

const (
	PathFocusList PathFocus = iota
	PathFocusInput
)

// PathDialog is the state of the installation path selector.
type PathDialog struct {
	Current    string
	Known      []string
	Discovered []string
	Candidates []pathselect.Candidate

	KnownLoaded      bool
	DiscoveredLoaded bool
	LoadErr          error

	Cursor int
	Focus  PathFocus
	Input  textinput.Model

	Tracker    pathselect.Tracker
	Validating bool
	Result     *backend.PathValidationResult
	Selecting  bool
}

// NewPathDialog returns a dialog that still waits for both path lists.
func NewPathDialog(current string) *PathDialog {
	ti := textinput.New()
	ti.Placeholder = "/path/to/ddalab"
	ti.Prompt = "› "
	ti.CharLimit = 4096
	return &PathDialog{Current: current, Input: ti}
}

// Loading reports whether a path list is still outstanding.
func (d *PathDialog) Loading() bool {
	return !d.KnownLoaded || !d.DiscoveredLoaded
}

// SetKnown records the answer of GET /paths.
func (d *PathDialog) SetKnown(info *backend.PathsInfo) {
	d.KnownLoaded = true
	if info != nil {
		d.Known = info.KnownPaths
		if info.SelectedPath != "" {
			d.Current = info.SelectedPath
		}
	}
	d.rebuild()
}

// SetDiscovered records the answer of GET /paths/discover.
func (d *PathDialog) SetDiscovered(paths []string) {
	d.DiscoveredLoaded = true
	d.Discovered = paths
	d.rebuild()
}

func (d *PathDialog) rebuild() {
	d.Candidates = pathselect.Merge(d.Current, d.Known, d.Discovered)
	if d.Cursor >= len(d.Candidates) {
		d.Cursor = len(d.Candidates) - 1
	}
	if d.Cursor < 0 {
		d.Cursor = 0
	}
}

// SelectedCandidate returns the candidate under the cursor.
func (d *PathDialog) SelectedCandidate() (pathselect.Candidate, bool) {
	if d.Cursor < 0 || d.Cursor >= len(d.Candidates) {
		return pathselect.Candidate{}, false
	}
	return d.Candidates[d.Cursor], true
}

// MoveCursor moves the list cursor by delta, clamped to the list.
func (d *PathDialog) MoveCursor(delta int) {
	d.Cursor += delta
	if d.Cursor >= len(d.Candidates) {
		d.Cursor = len(d.Candidates) - 1
	}
	if d.Cursor < 0 {
		d.Cursor = 0
	}
}

// SetFocus moves keyboard focus between the list and the input.
func (d *PathDialog) SetFocus(f PathFocus) {
	d.Focus = f
	if f == PathFocusInput {
		d.Input.Focus()
	} else {
		d.Input.Blur()
	}
}
