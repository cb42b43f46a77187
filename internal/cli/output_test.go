package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"ddalabctl/internal/backend"
	"ddalabctl/internal/doctor"
	"ddalabctl/internal/envedit"
	"ddalabctl/internal/pathselect"
)

func sampleStatus() *backend.Status {
	return &backend.Status{
		Running: true,
		Version: "1.4.2",
		Path:    "/opt/ddalab",
		Services: []backend.Service{
			{Name: "api", Status: backend.ServiceRunning},
			{Name: "web", Status: backend.ServiceStopped},
		},
	}
}

func sampleEditor() *envedit.Editor {
	ed := envedit.NewEditor()
	ed.Load(&backend.EnvFile{Path: "/opt/ddalab/.env", Variables: []backend.EnvVar{
		{Key: "DDALAB_PORT", Value: "8001", Section: "Network", Required: true},
		{Key: "JWT_SECRET", Value: "s3cret", Section: "Security", Secret: true},
	}})
	return ed
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", OutputFormatTable, false},
		{"table", OutputFormatTable, false},
		{"JSON", OutputFormatJSON, false},
		{" yaml ", OutputFormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrinter_StatusFormats(t *testing.T) {
	view := NewStatusView(sampleStatus())

	var tbl bytes.Buffer
	require.NoError(t, NewPrinter(OutputFormatTable, &tbl).Print(view))
	out := ansi.Strip(tbl.String())
	assert.Contains(t, out, "1/2 services running")
	assert.Contains(t, out, "● running")
	assert.Contains(t, out, "○ stopped")
	assert.Contains(t, out, "/opt/ddalab")

	var js bytes.Buffer
	require.NoError(t, NewPrinter(OutputFormatJSON, &js).Print(view))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, "1/2", decoded["services_running"])
	assert.Equal(t, true, decoded["running"])

	var ym bytes.Buffer
	require.NoError(t, NewPrinter(OutputFormatYAML, &ym).Print(view))
	var fromYAML map[string]any
	require.NoError(t, yaml.Unmarshal(ym.Bytes(), &fromYAML))
	assert.Equal(t, "1.4.2", fromYAML["version"])
}

func TestPrinter_TexterAndFallback(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(OutputFormatTable, &buf)

	require.NoError(t, p.Print(OK("restart %s successfully", "api")))
	assert.Equal(t, "✔ restart api successfully\n", ansi.Strip(buf.String()))

	buf.Reset()
	require.NoError(t, p.Print(map[string]int{"a": 1}))
	assert.Equal(t, "a: 1\n", buf.String())
}

func TestEnvFileView_MasksSecretsInEveryFormat(t *testing.T) {
	view := NewEnvFileView(sampleEditor(), false)

	var tbl bytes.Buffer
	require.NoError(t, NewPrinter(OutputFormatTable, &tbl).Print(view))
	out := ansi.Strip(tbl.String())
	assert.Contains(t, out, envedit.MaskedValue)
	assert.NotContains(t, out, "s3cret")
	assert.Contains(t, out, "2 variables, 1 required, 1 secret, 0 empty")

	var js bytes.Buffer
	require.NoError(t, NewPrinter(OutputFormatJSON, &js).Print(view))
	assert.Contains(t, js.String(), envedit.RedactedValue)
	assert.NotContains(t, js.String(), "s3cret")

	shown := NewEnvFileView(sampleEditor(), true)
	js.Reset()
	require.NoError(t, NewPrinter(OutputFormatJSON, &js).Print(shown))
	assert.Contains(t, js.String(), "s3cret")
}

func TestEnvFileView_ShowsValidationErrors(t *testing.T) {
	ed := sampleEditor()
	ed.SetValidation(&backend.ValidationResult{Errors: []backend.ValidationError{{Key: "DDALAB_PORT", Message: "port in use"}}})

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(OutputFormatTable, &buf).Print(NewEnvFileView(ed, false)))
	assert.Contains(t, ansi.Strip(buf.String()), "✖ port in use")
}

func TestValidationView(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(OutputFormatTable, &buf)

	require.NoError(t, p.Print(ValidationView{Valid: true}))
	assert.Contains(t, ansi.Strip(buf.String()), "Configuration is valid")

	buf.Reset()
	require.NoError(t, p.Print(ValidationView{Errors: []backend.ValidationError{{Key: "A", Message: "required"}}}))
	out := ansi.Strip(buf.String())
	assert.Contains(t, out, "A")
	assert.Contains(t, out, "required")
}

func TestCandidatesView(t *testing.T) {
	var buf bytes.Buffer
	view := CandidatesView{Selected: "/a", Candidates: pathselect.Merge("/a", []string{"/a"}, []string{"/b"})}
	require.NoError(t, NewPrinter(OutputFormatTable, &buf).Print(view))
	out := ansi.Strip(buf.String())
	assert.Contains(t, out, "/a")
	assert.Contains(t, out, "/b")
	assert.Contains(t, out, "✔")
}

func TestPathResultView(t *testing.T) {
	var buf bytes.Buffer
	res := PathResultView{Valid: false, Path: "/tmp", Message: "missing docker-compose.yml"}
	require.NoError(t, NewPrinter(OutputFormatTable, &buf).Print(res))
	out := ansi.Strip(buf.String())
	assert.Contains(t, out, "✖ invalid")
	assert.Contains(t, out, "missing docker-compose.yml")
}

func TestDoctorView(t *testing.T) {
	var buf bytes.Buffer
	view := DoctorView{Checks: []doctor.Check{
		{Name: "manager API", Severity: doctor.SeverityOK, Detail: "reachable"},
		{Name: "docker daemon", Severity: doctor.SeverityFail, Detail: "no socket"},
	}}
	require.NoError(t, NewPrinter(OutputFormatTable, &buf).Print(view))
	out := ansi.Strip(buf.String())
	assert.Contains(t, out, "✔ ok")
	assert.Contains(t, out, "✖ fail")
	assert.Contains(t, out, "no socket")
}
