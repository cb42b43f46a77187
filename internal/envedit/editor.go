package envedit

import (
	"fmt"

	"ddalabctl/internal/backend"
)

// MaskedValue is displayed instead of a secret value while secrets are
// hidden.
const MaskedValue = "••••••••"

// Editor is the local editing state of one env file. It is not safe for
// concurrent use; the TUI only touches it from its update loop.
type Editor struct {
	file        *backend.EnvFile
	overlay     map[string]string
	validation  *backend.ValidationResult
	showSecrets bool
	expanded    map[string]bool

	Filter Filter
	Sort   SortMode
}

// NewEditor returns an empty editor with the default sort mode.
func NewEditor() *Editor {
	return &Editor{
		overlay:  map[string]string{},
		expanded: map[string]bool{},
		Sort:     DefaultSort,
	}
}

// Load replaces the snapshot with ef and discards pending edits and the
// previous validation result. The first section is expanded.
func (e *Editor) Load(ef *backend.EnvFile) {
	e.file = ef
	e.overlay = map[string]string{}
	e.validation = nil
	e.expanded = map[string]bool{}
	if ef != nil {
		if sections := Sections(ef.Variables); len(sections) > 0 {
			e.expanded[sections[0]] = true
		}
	}
}

// Loaded reports whether a snapshot is present.
func (e *Editor) Loaded() bool {
	return e.file != nil
}

// File returns the loaded snapshot, or nil.
func (e *Editor) File() *backend.EnvFile {
	return e.file
}

// Vars returns the snapshot variables in file order.
func (e *Editor) Vars() []backend.EnvVar {
	if e.file == nil {
		return nil
	}
	return e.file.Variables
}

// Lookup returns the snapshot variable named key.
func (e *Editor) Lookup(key string) (backend.EnvVar, bool) {
	for _, v := range e.Vars() {
		if v.Key == key {
			return v, true
		}
	}
	return backend.EnvVar{}, false
}

// Effective returns the pending value for v if one exists, else v.Value.
func (e *Editor) Effective(v backend.EnvVar) string {
	if val, ok := e.overlay[v.Key]; ok {
		return val
	}
	return v.Value
}

// Set records a pending value for key and clears the displayed validation
// result. Unknown keys are rejected so the overlay never carries entries
// that a save would silently drop.
func (e *Editor) Set(key, value string) error {
	if _, ok := e.Lookup(key); !ok {
		return fmt.Errorf("unknown variable %q", key)
	}
	e.overlay[key] = value
	e.validation = nil
	return nil
}

// Pending returns the number of keys with a pending value.
func (e *Editor) Pending() int {
	return len(e.overlay)
}

// IsEdited reports whether key has a pending value.
func (e *Editor) IsEdited(key string) bool {
	_, ok := e.overlay[key]
	return ok
}

// Merged returns the snapshot with every pending value applied. The
// snapshot and the overlay are left untouched.
func (e *Editor) Merged() []backend.EnvVar {
	vars := e.Vars()
	out := make([]backend.EnvVar, len(vars))
	for i, v := range vars {
		v.Value = e.Effective(v)
		out[i] = v
	}
	return out
}

// Cancel discards all pending edits.
func (e *Editor) Cancel() {
	e.overlay = map[string]string{}
	e.validation = nil
}

// SetValidation stores the result of a save or validate request.
func (e *Editor) SetValidation(vr *backend.ValidationResult) {
	e.validation = vr
}

// Validation returns the displayed validation result, or nil.
func (e *Editor) Validation() *backend.ValidationResult {
	return e.validation
}

// ErrorFor returns the validation message for key, if any.
func (e *Editor) ErrorFor(key string) (string, bool) {
	ve, ok := e.validation.ErrorFor(key)
	return ve.Message, ok
}

// ShowSecrets reports whether secret values are revealed.
func (e *Editor) ShowSecrets() bool {
	return e.showSecrets
}

// ToggleSecrets flips secret visibility.
func (e *Editor) ToggleSecrets() {
	e.showSecrets = !e.showSecrets
}

// Display returns the text shown for v: the effective value, or the mask
// for hidden secrets.
func (e *Editor) Display(v backend.EnvVar) string {
	if v.Secret && !e.showSecrets {
		return MaskedValue
	}
	return e.Effective(v)
}

// Editable reports whether v may be edited. Secrets are read-only while
// hidden.
func (e *Editor) Editable(v backend.EnvVar) bool {
	return !v.Secret || e.showSecrets
}

// Expanded reports whether section is unfolded.
func (e *Editor) Expanded(section string) bool {
	return e.expanded[section]
}

// ToggleSection folds or unfolds section.
func (e *Editor) ToggleSection(section string) {
	if e.expanded[section] {
		delete(e.expanded, section)
		return
	}
	e.expanded[section] = true
}

// ExpandAll unfolds every section of the snapshot.
func (e *Editor) ExpandAll() {
	for _, s := range Sections(e.Vars()) {
		e.expanded[s] = true
	}
}

// Groups returns the filtered, sorted and grouped variables. Searching
// uses effective values.
func (e *Editor) Groups() []Group {
	return View(e.Vars(), e.Filter, e.Sort, e.Effective)
}

// Summary counts variables of the snapshot.
type Summary struct {
	Total    int `json:"total" yaml:"total"`
	Required int `json:"required" yaml:"required"`
	Secret   int `json:"secret" yaml:"secret"`
	Empty    int `json:"empty" yaml:"empty"`
	Edited   int `json:"edited" yaml:"edited"`
}

// Summary returns counts over the effective values.
func (e *Editor) Summary() Summary {
	s := Summary{Edited: len(e.overlay)}
	for _, v := range e.Vars() {
		s.Total++
		if v.Required {
			s.Required++
		}
		if v.Secret {
			s.Secret++
		}
		if e.Effective(v) == "" {
			s.Empty++
		}
	}
	return s
}
