package envedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ddalabctl/internal/backend"
)

func sampleVars() []backend.EnvVar {
	return []backend.EnvVar{
		{Key: "JWT_SECRET", Value: "abc", Section: "Security", Required: true, Secret: true},
		{Key: "PORT", Value: "8000", Section: "Network", Required: true, Comment: "API port"},
		{Key: "HOST", Value: "localhost", Section: "Network"},
		{Key: "ADMIN_PASSWORD", Value: "pw", Section: "Security", Secret: true},
		{Key: "DEBUG", Value: "false", Section: "App"},
	}
}

func keys(vars []backend.EnvVar) []string {
	out := make([]string, len(vars))
	for i, v := range vars {
		out[i] = v.Key
	}
	return out
}

func TestSort_Modes(t *testing.T) {
	tests := []struct {
		mode SortMode
		want []string
	}{
		{SortByName, []string{"ADMIN_PASSWORD", "DEBUG", "HOST", "JWT_SECRET", "PORT"}},
		{SortByRequired, []string{"JWT_SECRET", "PORT", "ADMIN_PASSWORD", "DEBUG", "HOST"}},
		{SortBySection, []string{"DEBUG", "HOST", "PORT", "ADMIN_PASSWORD", "JWT_SECRET"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			assert.Equal(t, tt.want, keys(Sort(sampleVars(), tt.mode)))
		})
	}
}

func TestSort_IdempotentAndTotal(t *testing.T) {
	vars := sampleVars()
	reversed := make([]backend.EnvVar, len(vars))
	for i, v := range vars {
		reversed[len(vars)-1-i] = v
	}
	for _, mode := range SortModes {
		once := Sort(vars, mode)
		assert.Equal(t, once, Sort(once, mode), "idempotent for %s", mode)
		assert.Equal(t, keys(once), keys(Sort(reversed, mode)), "input order must not matter for %s", mode)
	}
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	vars := sampleVars()
	before := keys(vars)
	_ = Sort(vars, SortByName)
	assert.Equal(t, before, keys(vars))
}

func TestFilter_Conjunction(t *testing.T) {
	vars := []backend.EnvVar{
		{Key: "A", Required: true},
		{Key: "B", Secret: true},
	}
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no filter", Filter{}, []string{"A", "B"}},
		{"required only", Filter{RequiredOnly: true}, []string{"A"}},
		{"secret only", Filter{SecretOnly: true}, []string{"B"}},
		{"required and secret", Filter{RequiredOnly: true, SecretOnly: true}, nil},
		{"query and required", Filter{Query: "b", RequiredOnly: true}, nil},
		{"query only", Filter{Query: "b"}, []string{"B"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, g := range View(vars, tt.filter, SortByName, nil) {
				got = append(got, keys(g.Vars)...)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_QueryMatchesEveryTextField(t *testing.T) {
	v := backend.EnvVar{Key: "PORT", Value: "8000", Comment: "API port", Section: "Network"}
	for _, q := range []string{"por", "800", "api", "NETWORK"} {
		assert.True(t, Filter{Query: q}.Matches(v, v.Value), q)
	}
	assert.False(t, Filter{Query: "secret"}.Matches(v, v.Value))
	assert.True(t, Filter{Query: "9000"}.Matches(v, "9000"), "search uses the supplied effective value")
}

func TestView_GroupsNetworkBeforeSecurity(t *testing.T) {
	vars := []backend.EnvVar{
		{Key: "JWT_SECRET", Section: "Security"},
		{Key: "PORT", Section: "Network"},
		{Key: "CORS_ORIGIN", Section: "Security"},
		{Key: "HOST", Section: "Network"},
	}
	groups := View(vars, Filter{}, DefaultSort, nil)
	require.Len(t, groups, 2)
	assert.Equal(t, "Network", groups[0].Section)
	assert.Equal(t, []string{"HOST", "PORT"}, keys(groups[0].Vars))
	assert.Equal(t, "Security", groups[1].Section)
	assert.Equal(t, []string{"CORS_ORIGIN", "JWT_SECRET"}, keys(groups[1].Vars))
}

func TestGroupBySection_FollowsFirstAppearance(t *testing.T) {
	groups := GroupBySection(Sort(sampleVars(), SortByRequired))
	var sections []string
	for _, g := range groups {
		sections = append(sections, g.Section)
	}
	assert.Equal(t, []string{"Security", "Network", "App"}, sections)
}

func TestParseSortMode(t *testing.T) {
	m, err := ParseSortMode("")
	require.NoError(t, err)
	assert.Equal(t, SortBySection, m)

	m, err = ParseSortMode("Name")
	require.NoError(t, err)
	assert.Equal(t, SortByName, m)

	_, err = ParseSortMode("size")
	assert.Error(t, err)
}

func TestSortModeNext_Cycles(t *testing.T) {
	m := DefaultSort
	seen := map[SortMode]bool{}
	for range SortModes {
		seen[m] = true
		m = m.Next()
	}
	assert.Equal(t, DefaultSort, m)
	assert.Len(t, seen, len(SortModes))
}
