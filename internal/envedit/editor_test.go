package envedit

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ddalabctl/internal/backend"
)

func loadedEditor() *Editor {
	e := NewEditor()
	e.Load(&backend.EnvFile{Path: "/opt/ddalab/.env", Variables: sampleVars()})
	return e
}

func TestEditor_OverlayPrecedence(t *testing.T) {
	e := loadedEditor()
	require.NoError(t, e.Set("HOST", "0.0.0.0"))

	for _, v := range e.Vars() {
		if v.Key == "HOST" {
			assert.Equal(t, "0.0.0.0", e.Effective(v))
		} else {
			assert.Equal(t, v.Value, e.Effective(v), v.Key)
		}
	}
	orig, _ := e.Lookup("HOST")
	assert.Equal(t, "localhost", orig.Value, "snapshot is never mutated")
	assert.True(t, e.IsEdited("HOST"))
	assert.Equal(t, 1, e.Pending())
}

func TestEditor_SetUnknownKey(t *testing.T) {
	e := loadedEditor()
	assert.Error(t, e.Set("NOPE", "x"))
	assert.Zero(t, e.Pending())
}

func TestEditor_SetClearsValidation(t *testing.T) {
	e := loadedEditor()
	e.SetValidation(&backend.ValidationResult{Valid: false, Errors: []backend.ValidationError{{Key: "PORT", Message: "bad"}}})
	msg, ok := e.ErrorFor("PORT")
	require.True(t, ok)
	assert.Equal(t, "bad", msg)

	require.NoError(t, e.Set("PORT", "8001"))
	assert.Nil(t, e.Validation())
	_, ok = e.ErrorFor("PORT")
	assert.False(t, ok)
}

func TestEditor_MergedAppliesOverlayWithoutMutating(t *testing.T) {
	e := loadedEditor()
	require.NoError(t, e.Set("PORT", "9000"))

	merged := e.Merged()
	require.Len(t, merged, len(sampleVars()))
	for _, v := range merged {
		if v.Key == "PORT" {
			assert.Equal(t, "9000", v.Value)
		}
	}
	orig, _ := e.Lookup("PORT")
	assert.Equal(t, "8000", orig.Value)
	assert.Equal(t, 1, e.Pending(), "merging keeps the overlay")
}

func TestEditor_LoadResetsStateAndExpandsFirstSection(t *testing.T) {
	e := loadedEditor()
	require.NoError(t, e.Set("PORT", "1"))
	e.ToggleSection("Network")

	e.Load(&backend.EnvFile{Variables: sampleVars()})
	assert.Zero(t, e.Pending())
	assert.True(t, e.Expanded("Security"), "first section in file order")
	assert.False(t, e.Expanded("Network"))
}

func TestEditor_CancelDiscardsOverlay(t *testing.T) {
	e := loadedEditor()
	require.NoError(t, e.Set("PORT", "1"))
	e.Cancel()
	assert.Zero(t, e.Pending())
	v, _ := e.Lookup("PORT")
	assert.Equal(t, "8000", e.Effective(v))
}

func TestEditor_SecretsMaskedAndReadOnly(t *testing.T) {
	e := loadedEditor()
	secret, _ := e.Lookup("JWT_SECRET")
	plain, _ := e.Lookup("HOST")

	assert.Equal(t, MaskedValue, e.Display(secret))
	assert.False(t, e.Editable(secret))
	assert.Equal(t, "localhost", e.Display(plain))
	assert.True(t, e.Editable(plain))

	e.ToggleSecrets()
	assert.Equal(t, "abc", e.Display(secret))
	assert.True(t, e.Editable(secret))
}

func TestEditor_ToggleSection(t *testing.T) {
	e := loadedEditor()
	e.ToggleSection("App")
	assert.True(t, e.Expanded("App"))
	e.ToggleSection("App")
	assert.False(t, e.Expanded("App"))
	e.ExpandAll()
	for _, s := range Sections(e.Vars()) {
		assert.True(t, e.Expanded(s), s)
	}
}

func TestEditor_GroupsSearchEffectiveValue(t *testing.T) {
	e := loadedEditor()
	require.NoError(t, e.Set("DEBUG", "verbose"))
	e.Filter.Query = "verbose"
	groups := e.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"DEBUG"}, keys(groups[0].Vars))
}

func TestEditor_Summary(t *testing.T) {
	e := loadedEditor()
	require.NoError(t, e.Set("DEBUG", ""))
	assert.Equal(t, Summary{Total: 5, Required: 2, Secret: 2, Empty: 1, Edited: 1}, e.Summary())
}

func TestExport_RedactsSecrets(t *testing.T) {
	e := loadedEditor()
	now := time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC)
	exp := e.Export(now)

	require.Len(t, exp.Variables, len(sampleVars()))
	for _, v := range exp.Variables {
		if v.Secret {
			assert.Equal(t, RedactedValue, v.Value, v.Key)
		} else {
			assert.NotEqual(t, RedactedValue, v.Value, v.Key)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, WriteExport(&buf, exp))
	assert.NotContains(t, buf.String(), `"abc"`)
	assert.Contains(t, buf.String(), `"exported_at": "2024-03-09T15:04:05Z"`)
	assert.Equal(t, "ddalab-config-2024-03-09.json", ExportFileName(now))
}

func TestImport_SkipsSecretsAndMarker(t *testing.T) {
	e := loadedEditor()
	doc := `{"exported_at":"2024-01-01T00:00:00Z","variables":[
		{"key":"HOST","value":"db.internal","secret":false},
		{"key":"PORT","value":"***REDACTED***","secret":false},
		{"key":"ADMIN_PASSWORD","value":"x","secret":true},
		{"key":"JWT_SECRET","value":"leaked","secret":false},
		{"key":"","value":"ignored"},
		{"key":"UNKNOWN","value":"1"}
	]}`

	applied, skipped, err := e.Import(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
	assert.Equal(t, []string{"UNKNOWN"}, skipped)
	assert.True(t, e.IsEdited("HOST"))
	assert.False(t, e.IsEdited("PORT"))
	assert.False(t, e.IsEdited("ADMIN_PASSWORD"))
	assert.False(t, e.IsEdited("JWT_SECRET"), "snapshot secrets are never overwritten")
}

func TestParseImport_SkipsNullValues(t *testing.T) {
	doc := `{"variables":[{"key":"HOST","value":null},{"key":"PORT","value":""}]}`

	values, err := ParseImport(strings.NewReader(doc))
	require.NoError(t, err)
	_, ok := values["HOST"]
	assert.False(t, ok, "null must not blank the variable")
	assert.Equal(t, map[string]string{"PORT": ""}, values)
}

func TestImport_MalformedLeavesOverlay(t *testing.T) {
	e := loadedEditor()
	require.NoError(t, e.Set("HOST", "keep"))

	for _, doc := range []string{`not json`, `{"exported_at":"x"}`, `{"variables":[{"key":"HOST","value":5}]}`} {
		_, _, err := e.Import(strings.NewReader(doc))
		assert.Error(t, err, doc)
		v, _ := e.Lookup("HOST")
		assert.Equal(t, "keep", e.Effective(v))
		assert.Equal(t, 1, e.Pending())
	}
}

func TestExportThenImportRoundTrip(t *testing.T) {
	src := loadedEditor()
	var buf bytes.Buffer
	require.NoError(t, WriteExport(&buf, src.Export(time.Now())))

	dst := loadedEditor()
	applied, skipped, err := dst.Import(&buf)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.Equal(t, 3, applied, "every non-secret variable")
	for _, v := range dst.Merged() {
		orig, _ := src.Lookup(v.Key)
		assert.Equal(t, orig.Value, v.Value, v.Key)
	}
}
