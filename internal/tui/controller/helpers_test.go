package controller

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"ddalabctl/internal/backend"
	"ddalabctl/internal/tui/model"
)

var errBackendDown = errors.New("connection refused")

// stubBackend answers every call with canned values and records actions.
type stubBackend struct {
	mu sync.Mutex

	status    *backend.Status
	statusErr error
	paths     *backend.PathsInfo
	envFile   *backend.EnvFile
	actionErr error
	saveRes   *backend.ValidationResult
	validRes  *backend.ValidationResult
	validate  func(path string) (*backend.PathValidationResult, error)

	actions   []string
	saved     []backend.EnvVar
	validated []backend.EnvVar
}

func (s *stubBackend) Status(context.Context) (*backend.Status, error) {
	return s.status, s.statusErr
}

func (s *stubBackend) Logs(context.Context) (string, error) { return "line one\nline two", nil }

func (s *stubBackend) ServiceAction(_ context.Context, name string, action backend.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, string(action)+" "+name)
	return s.actionErr
}

func (s *stubBackend) StackAction(_ context.Context, action backend.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, string(action)+" all")
	return s.actionErr
}

func (s *stubBackend) Backup(context.Context) (*backend.BackupResult, error) {
	return &backend.BackupResult{Filename: "backup.sql"}, nil
}

func (s *stubBackend) Update(context.Context) (*backend.UpdateResult, error) {
	return &backend.UpdateResult{Message: "updated"}, nil
}

func (s *stubBackend) Paths(context.Context) (*backend.PathsInfo, error) {
	if s.paths == nil {
		return &backend.PathsInfo{}, nil
	}
	return s.paths, nil
}

func (s *stubBackend) DiscoverPaths(context.Context) ([]string, error) { return nil, nil }

func (s *stubBackend) ValidatePath(_ context.Context, path string) (*backend.PathValidationResult, error) {
	if s.validate != nil {
		return s.validate(path)
	}
	return &backend.PathValidationResult{Valid: true, Path: path}, nil
}

func (s *stubBackend) SelectPath(ctx context.Context, path string) (*backend.PathValidationResult, error) {
	return s.ValidatePath(ctx, path)
}

func (s *stubBackend) EnvConfig(context.Context) (*backend.EnvConfig, error) {
	return &backend.EnvConfig{URL: "https://localhost"}, nil
}

func (s *stubBackend) EnvFile(context.Context) (*backend.EnvFile, error) {
	return s.envFile, nil
}

func (s *stubBackend) SaveEnvFile(_ context.Context, vars []backend.EnvVar) (*backend.ValidationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = vars
	if s.saveRes == nil {
		return &backend.ValidationResult{Valid: true}, nil
	}
	return s.saveRes, nil
}

func (s *stubBackend) ValidateEnvFile(_ context.Context, vars []backend.EnvVar) (*backend.ValidationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.validated = vars
	if s.validRes != nil {
		return s.validRes, nil
	}
	return &backend.ValidationResult{Valid: true}, nil
}

// newTestModel returns a model past its initial load, sized 100x40, with a
// selected installation and two services.
func newTestModel(b backend.Backend) *model.Model {
	m := model.InitializeModel(model.TUIConfig{Backend: b})
	m.IsLoading = false
	m.InitialLoadPending = 0
	m.CurrentAppMode = model.ModeDashboard
	m.Width, m.Height = 100, 40
	m.CurrentPath = "/opt/ddalab"
	m.Status = backend.Status{
		Running: true,
		Version: "1.2.0",
		Services: []backend.Service{
			{Name: "api", Status: backend.ServiceRunning},
			{Name: "web", Status: backend.ServiceStopped},
		},
	}
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func dispatch(m *model.Model, msgs ...tea.Msg) (*model.Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		m, cmd = mainControllerDispatch(m, msg)
	}
	return m, cmd
}

// typeText sends one key press per rune and returns the command of each.
func typeText(m *model.Model, text string) []tea.Cmd {
	var cmds []tea.Cmd
	for _, r := range text {
		var cmd tea.Cmd
		m, cmd = mainControllerDispatch(m, keyRunes(string(r)))
		cmds = append(cmds, cmd)
	}
	return cmds
}

func sampleEnvFile() *backend.EnvFile {
	return &backend.EnvFile{
		Path: "/opt/ddalab/.env",
		Variables: []backend.EnvVar{
			{Key: "DDALAB_PORT", Value: "8001", Section: "Network", Required: true},
			{Key: "DDALAB_HOST", Value: "localhost", Section: "Network"},
			{Key: "JWT_SECRET", Value: "s3cret", Section: "Security", Secret: true, Required: true},
		},
	}
}
