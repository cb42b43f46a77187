package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"ddalabctl/internal/app"
	"ddalabctl/internal/backend"
	"ddalabctl/internal/doctor"
)

// stubBackend answers every call with canned values and records what the
// commands asked for.
type stubBackend struct {
	status   *backend.Status
	envFile  *backend.EnvFile
	pathRes  *backend.PathValidationResult
	saveRes  *backend.ValidationResult
	err      error
	actions  []string
	saved    []backend.EnvVar
	selected string
}

func (s *stubBackend) Status(context.Context) (*backend.Status, error) { return s.status, s.err }

func (s *stubBackend) Logs(context.Context) (string, error) { return "api | ready\n", s.err }

func (s *stubBackend) ServiceAction(_ context.Context, name string, action backend.Action) error {
	s.actions = append(s.actions, string(action)+" "+name)
	return s.err
}

func (s *stubBackend) StackAction(_ context.Context, action backend.Action) error {
	s.actions = append(s.actions, string(action)+" all")
	return s.err
}

func (s *stubBackend) Backup(context.Context) (*backend.BackupResult, error) {
	return &backend.BackupResult{Filename: "ddalab-2026-10-17.sql"}, s.err
}

func (s *stubBackend) Update(context.Context) (*backend.UpdateResult, error) {
	return &backend.UpdateResult{Status: "success"}, s.err
}

func (s *stubBackend) Paths(context.Context) (*backend.PathsInfo, error) {
	return &backend.PathsInfo{SelectedPath: "/opt/ddalab", KnownPaths: []string{"/opt/ddalab"}}, s.err
}

func (s *stubBackend) DiscoverPaths(context.Context) ([]string, error) {
	return []string{"/home/me/ddalab"}, s.err
}

func (s *stubBackend) ValidatePath(_ context.Context, path string) (*backend.PathValidationResult, error) {
	if s.pathRes != nil {
		return s.pathRes, nil
	}
	return &backend.PathValidationResult{Valid: true, Path: path, HasCompose: true, HasDDALABScript: true}, nil
}

func (s *stubBackend) SelectPath(ctx context.Context, path string) (*backend.PathValidationResult, error) {
	res, err := s.ValidatePath(ctx, path)
	if err == nil && res.Valid {
		s.selected = path
	}
	return res, err
}

func (s *stubBackend) EnvConfig(context.Context) (*backend.EnvConfig, error) {
	return &backend.EnvConfig{URL: "https://localhost", Scheme: "https", Host: "localhost", Port: "443"}, s.err
}

func (s *stubBackend) EnvFile(context.Context) (*backend.EnvFile, error) {
	return s.envFile, s.err
}

func (s *stubBackend) SaveEnvFile(_ context.Context, vars []backend.EnvVar) (*backend.ValidationResult, error) {
	s.saved = vars
	if s.saveRes != nil {
		return s.saveRes, nil
	}
	return &backend.ValidationResult{Valid: true}, nil
}

func (s *stubBackend) ValidateEnvFile(_ context.Context, vars []backend.EnvVar) (*backend.ValidationResult, error) {
	for _, v := range vars {
		if v.Required && v.Value == "" {
			return &backend.ValidationResult{Errors: []backend.ValidationError{{Key: v.Key, Message: "is required"}}}, nil
		}
	}
	return &backend.ValidationResult{Valid: true}, nil
}

func sampleEnvFile() *backend.EnvFile {
	return &backend.EnvFile{
		Path: "/opt/ddalab/.env",
		Variables: []backend.EnvVar{
			{Key: "DDALAB_HOST", Value: "localhost", Section: "Network", Required: true},
			{Key: "DDALAB_PORT", Value: "8080", Section: "Network"},
			{Key: "DB_PASSWORD", Value: "hunter2", Section: "Security", Secret: true},
		},
	}
}

// executeCommand runs a fresh command tree against stub and returns what
// it printed on stdout.
func executeCommand(t *testing.T, stub *stubBackend, stdin string, args ...string) (string, error) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("DDALAB_API_URL", "")

	origBackend, origDocker := backendFactory, dockerFactory
	backendFactory = func(*app.Application) backend.Backend { return stub }
	dockerFactory = func() (doctor.DockerAPI, error) { return nil, errors.New("docker not installed") }
	t.Cleanup(func() {
		backendFactory, dockerFactory = origBackend, origDocker
	})

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}
