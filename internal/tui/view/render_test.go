package view

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ddalabctl/internal/backend"
	"ddalabctl/internal/tui/model"
)

func newViewModel() *model.Model {
	m := model.InitializeModel(model.TUIConfig{})
	m.IsLoading = false
	m.CurrentAppMode = model.ModeDashboard
	m.Width, m.Height = 100, 40
	m.StatusLoaded = true
	m.CurrentPath = "/opt/ddalab"
	m.EnvConfig = &backend.EnvConfig{URL: "https://localhost"}
	m.Status = backend.Status{
		Running: true,
		Version: "1.2.0",
		Services: []backend.Service{
			{Name: "api", Status: backend.ServiceRunning},
			{Name: "web", Status: backend.ServiceStopped},
			{Name: "db", Status: backend.ServiceRunning},
		},
	}
	return m
}

func plain(s string) string {
	return ansi.Strip(s)
}

func TestRender_Loading(t *testing.T) {
	m := model.InitializeModel(model.TUIConfig{})
	assert.Contains(t, plain(Render(m)), "Connecting to DDALAB backend")
}

func TestRender_DashboardCards(t *testing.T) {
	out := plain(Render(newViewModel()))

	for _, want := range []string{
		"DDALAB Control",
		"Overall Status", "Running",
		"Services", "2/3",
		"Version", "1.2.0",
		"Health", "Healthy",
		"/opt/ddalab",
		"https://localhost",
	} {
		assert.Contains(t, out, want)
	}
}

func TestRender_DashboardServiceRows(t *testing.T) {
	m := newViewModel()
	m.ServiceBusy["web"] = backend.ActionStart
	out := plain(Render(m))

	assert.Contains(t, out, "api")
	assert.Contains(t, out, "● running")
	assert.Contains(t, out, "starting")
	assert.Contains(t, out, "r restart • x stop")
}

func TestRender_NoPathHint(t *testing.T) {
	m := newViewModel()
	m.CurrentPath = ""
	out := plain(Render(m))

	assert.Contains(t, out, "No installation selected")
	assert.Contains(t, out, "Select an installation path")
}

func TestRender_AlertInStatusBar(t *testing.T) {
	m := newViewModel()
	m.Alert("Backup created: b.sql", model.StatusBarSuccess)
	out := plain(Render(m))

	assert.Contains(t, out, "Backup created: b.sql")
}

func TestRender_FitsTerminalHeight(t *testing.T) {
	m := newViewModel()
	out := Render(m)
	assert.LessOrEqual(t, len(strings.Split(out, "\n")), m.Height)
}

func TestRender_PathDialog(t *testing.T) {
	m := newViewModel()
	m.CurrentAppMode = model.ModePathSelector
	d := model.NewPathDialog("/opt/ddalab")
	d.SetKnown(&backend.PathsInfo{SelectedPath: "/opt/ddalab", KnownPaths: []string{"/opt/ddalab"}})
	d.SetDiscovered([]string{"/home/me/ddalab"})
	d.Result = &backend.PathValidationResult{Valid: true, Path: "/x", HasCompose: true}
	m.PathDialog = d

	out := plain(Render(m))
	assert.Contains(t, out, "Select DDALAB installation")
	assert.Contains(t, out, "/home/me/ddalab")
	assert.Contains(t, out, "current")
	assert.Contains(t, out, "discovered")
	assert.Contains(t, out, "✔ docker-compose.yml")
	assert.Contains(t, out, "✖ ddalab.sh")
}

func TestRender_PathDialogInvalidResult(t *testing.T) {
	m := newViewModel()
	m.CurrentAppMode = model.ModePathSelector
	m.PathDialog = model.NewPathDialog("")
	m.PathDialog.Result = &backend.PathValidationResult{Valid: false, Message: "Failed to validate path: boom"}

	assert.Contains(t, plain(Render(m)), "Failed to validate path: boom")
}

func TestRender_EnvDialog(t *testing.T) {
	m := newViewModel()
	m.CurrentAppMode = model.ModeEnvEditor
	d := model.NewEnvDialog()
	d.Loading = false
	d.Editor.Load(&backend.EnvFile{Variables: []backend.EnvVar{
		{Key: "DDALAB_PORT", Value: "8001", Section: "Network", Required: true},
		{Key: "API_TOKEN", Value: "tok", Section: "Network", Secret: true},
	}})
	d.Editor.SetValidation(&backend.ValidationResult{Errors: []backend.ValidationError{{Key: "DDALAB_PORT", Message: "port in use"}}})
	m.EnvDialog = d

	out := plain(Render(m))
	assert.Contains(t, out, "Environment configuration")
	assert.Contains(t, out, "2 variables • 1 required • 1 secret • 0 empty")
	assert.Contains(t, out, "▾ Network (2)")
	assert.Contains(t, out, "••••••••")
	assert.NotContains(t, out, "tok ")
	assert.Contains(t, out, "✖ port in use")
	assert.Contains(t, out, "sort: section")
}

func TestRender_EnvDialogLoadError(t *testing.T) {
	m := newViewModel()
	m.CurrentAppMode = model.ModeEnvEditor
	m.EnvDialog = model.NewEnvDialog()
	m.EnvDialog.Loading = false
	m.EnvDialog.LoadErr = errors.New("no such file")

	assert.Contains(t, plain(Render(m)), "Failed to load environment file: no such file")
}

func TestRender_HelpOverlay(t *testing.T) {
	m := newViewModel()
	m.CurrentAppMode = model.ModeHelpOverlay
	out := plain(Render(m))
	assert.Contains(t, out, "Keyboard shortcuts")
	assert.Contains(t, out, "restart service")
}

func TestPrepareLogContent(t *testing.T) {
	lines := []string{
		"12:00:00.000 [INFO] [Backend] ok",
		"12:00:00.001 [ERROR] [Backend] failed",
	}
	out := PrepareLogContent(lines, 80)
	require.Equal(t, strings.Join(lines, "\n"), plain(out))
}
