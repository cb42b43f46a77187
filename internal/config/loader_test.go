package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withPaths points the user/project layers at dir and clears the env override.
func withPaths(t *testing.T, userPath, projectPath string) {
	t.Helper()
	origUser, origProject, origGetenv := getUserConfigPath, getProjectConfigPath, osGetenv
	t.Cleanup(func() {
		getUserConfigPath = origUser
		getProjectConfigPath = origProject
		osGetenv = origGetenv
	})
	getUserConfigPath = func() (string, error) { return userPath, nil }
	getProjectConfigPath = func() (string, error) { return projectPath, nil }
	osGetenv = func(string) string { return "" }
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadConfig_DefaultOnly(t *testing.T) {
	tempDir := t.TempDir()
	withPaths(t, filepath.Join(tempDir, "missing-user.yaml"), filepath.Join(tempDir, "missing-project.yaml"))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), cfg)
	assert.Equal(t, 30*time.Second, cfg.UI.PollInterval)
	assert.Equal(t, 5*time.Second, cfg.UI.AlertDuration)
}

func TestLoadConfig_LayersOverride(t *testing.T) {
	tempDir := t.TempDir()
	userPath := filepath.Join(tempDir, "user", configFileName)
	projectPath := filepath.Join(tempDir, "project", configFileName)
	withPaths(t, userPath, projectPath)

	writeFile(t, userPath, `
api:
  baseURL: http://ddalab-control:8080
  timeout: 10s
ui:
  opener: clipboard
`)
	writeFile(t, projectPath, `
api:
  baseURL: http://localhost:9090
ui:
  pollInterval: 15s
`)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9090", cfg.API.BaseURL, "project layer wins")
	assert.Equal(t, 10*time.Second, cfg.API.Timeout, "user layer kept when project is silent")
	assert.Equal(t, 15*time.Second, cfg.UI.PollInterval)
	assert.Equal(t, OpenerClipboard, cfg.UI.Opener)
	assert.Equal(t, DefaultAlertDuration, cfg.UI.AlertDuration)
}

func TestLoadConfig_EnvOverridesFiles(t *testing.T) {
	tempDir := t.TempDir()
	userPath := filepath.Join(tempDir, configFileName)
	withPaths(t, userPath, filepath.Join(tempDir, "none.yaml"))
	osGetenv = func(key string) string {
		if key == EnvBaseURL {
			return "https://ddalab.example:8443"
		}
		return ""
	}
	writeFile(t, userPath, "api:\n  baseURL: http://localhost:1\n")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://ddalab.example:8443", cfg.API.BaseURL)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	userPath := filepath.Join(tempDir, configFileName)
	withPaths(t, userPath, filepath.Join(tempDir, "none.yaml"))
	writeFile(t, userPath, "api: [unclosed")

	_, err := LoadConfig()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "error loading user config")
}

func TestLoadConfigFromPath(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "custom.yaml")
	withPaths(t, "", "")
	writeFile(t, path, "docker:\n  backendContainer: my-backend\n")

	cfg, err := LoadConfigFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "my-backend", cfg.Docker.BackendContainer)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)

	_, err = LoadConfigFromPath(filepath.Join(tempDir, "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "bad scheme", mutate: func(c *Config) { c.API.BaseURL = "ftp://host" }, wantErr: "scheme"},
		{name: "missing host", mutate: func(c *Config) { c.API.BaseURL = "http://" }, wantErr: "missing host"},
		{name: "zero timeout", mutate: func(c *Config) { c.API.Timeout = 0 }, wantErr: "api.timeout"},
		{name: "negative poll", mutate: func(c *Config) { c.UI.PollInterval = -time.Second }, wantErr: "pollInterval"},
		{name: "zero alert", mutate: func(c *Config) { c.UI.AlertDuration = 0 }, wantErr: "alertDuration"},
		{name: "unknown opener", mutate: func(c *Config) { c.UI.Opener = "xdg" }, wantErr: "ui.opener"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetUserConfigDir(t *testing.T) {
	orig := osUserHomeDir
	defer func() { osUserHomeDir = orig }()
	osUserHomeDir = func() (string, error) { return "/home/tester", nil }

	dir, err := GetUserConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester", ".config", "ddalabctl"), dir)
}
