// Package envedit holds the editing model behind the environment file editor.
//
// An Editor keeps the last loaded EnvFile as an immutable snapshot and
// records user edits in a sparse overlay (key to pending value). The
// effective value of a variable is the overlay entry if present, otherwise
// the snapshot value. Saving merges the overlay into the snapshot in one
// step; the snapshot itself is only replaced by Load.
//
// Filtering, sorting and grouping are pure functions over a slice of
// variables (see View), so the TUI, the CLI and tests share one code path.
package envedit
