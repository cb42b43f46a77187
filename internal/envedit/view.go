package envedit

import (
	"fmt"
	"sort"
	"strings"

	"ddalabctl/internal/backend"
)

// SortMode selects the ordering of the variable list.
type SortMode string

const (
	SortByName     SortMode = "name"
	SortByRequired SortMode = "required"
	SortBySection  SortMode = "section"

	DefaultSort = SortBySection
)

// SortModes lists the modes in the order the UI cycles through them.
var SortModes = []SortMode{SortBySection, SortByName, SortByRequired}

// ParseSortMode validates a sort mode name. The empty string selects the
// default.
func ParseSortMode(s string) (SortMode, error) {
	switch m := SortMode(strings.ToLower(s)); m {
	case "":
		return DefaultSort, nil
	case SortByName, SortByRequired, SortBySection:
		return m, nil
	default:
		return "", fmt.Errorf("unknown sort mode %q (want name, required or section)", s)
	}
}

// Next returns the mode following m in SortModes.
func (m SortMode) Next() SortMode {
	for i, s := range SortModes {
		if s == m {
			return SortModes[(i+1)%len(SortModes)]
		}
	}
	return DefaultSort
}

// Filter is the conjunction of a search term and two flag filters.
type Filter struct {
	Query        string
	RequiredOnly bool
	SecretOnly   bool
}

// Matches reports whether v passes every active criterion. value is the
// effective value of v, which may differ from v.Value while edits are
// pending.
func (f Filter) Matches(v backend.EnvVar, value string) bool {
	if f.RequiredOnly && !v.Required {
		return false
	}
	if f.SecretOnly && !v.Secret {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	for _, field := range []string{v.Key, value, v.Comment, v.Section} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Group is one section of the grouped view.
type Group struct {
	Section string
	Vars    []backend.EnvVar
}

// less orders two variables under mode. Every mode falls back to the key,
// so the order is total whenever keys are unique.
func less(mode SortMode, a, b backend.EnvVar) bool {
	switch mode {
	case SortByName:
		return a.Key < b.Key
	case SortByRequired:
		if a.Required != b.Required {
			return a.Required
		}
		return a.Key < b.Key
	default:
		if a.Section != b.Section {
			return a.Section < b.Section
		}
		return a.Key < b.Key
	}
}

// Sort returns a sorted copy of vars.
func Sort(vars []backend.EnvVar, mode SortMode) []backend.EnvVar {
	out := make([]backend.EnvVar, len(vars))
	copy(out, vars)
	sort.SliceStable(out, func(i, j int) bool { return less(mode, out[i], out[j]) })
	return out
}

// GroupBySection partitions vars by section, keeping their order inside
// each group. Groups appear in order of first occurrence.
func GroupBySection(vars []backend.EnvVar) []Group {
	var groups []Group
	index := map[string]int{}
	for _, v := range vars {
		i, ok := index[v.Section]
		if !ok {
			i = len(groups)
			index[v.Section] = i
			groups = append(groups, Group{Section: v.Section})
		}
		groups[i].Vars = append(groups[i].Vars, v)
	}
	return groups
}

// View filters vars, sorts the result and groups it by section. valueOf
// supplies the effective value used for searching; nil means v.Value.
func View(vars []backend.EnvVar, f Filter, mode SortMode, valueOf func(backend.EnvVar) string) []Group {
	if valueOf == nil {
		valueOf = func(v backend.EnvVar) string { return v.Value }
	}
	filtered := make([]backend.EnvVar, 0, len(vars))
	for _, v := range vars {
		if f.Matches(v, valueOf(v)) {
			filtered = append(filtered, v)
		}
	}
	return GroupBySection(Sort(filtered, mode))
}

// Sections returns the distinct sections of vars in order of first
// occurrence.
func Sections(vars []backend.EnvVar) []string {
	var out []string
	seen := map[string]bool{}
	for _, v := range vars {
		if !seen[v.Section] {
			seen[v.Section] = true
			out = append(out, v.Section)
		}
	}
	return out
}
