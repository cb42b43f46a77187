package config

import "time"

// Config is the complete ddalabctl configuration.
type Config struct {
	API    APIConfig    `yaml:"api"`
	UI     UIConfig     `yaml:"ui"`
	Export ExportConfig `yaml:"export"`
	Docker DockerConfig `yaml:"docker"`
}

// APIConfig describes how to reach the manager backend.
type APIConfig struct {
	BaseURL string        `yaml:"baseURL"`
	Timeout time.Duration `yaml:"timeout"`
}

// UIConfig holds timings and behaviour of the interactive UI.
type UIConfig struct {
	PollInterval  time.Duration `yaml:"pollInterval"`
	AlertDuration time.Duration `yaml:"alertDuration"`
	Opener        string        `yaml:"opener"`
}

// ExportConfig controls where env snapshots are written.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// DockerConfig is used by the doctor command to locate the backend container.
type DockerConfig struct {
	BackendContainer string `yaml:"backendContainer"`
}

// Opener modes.
const (
	OpenerAuto      = "auto"
	OpenerBrowser   = "browser"
	OpenerClipboard = "clipboard"
)
