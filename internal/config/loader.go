package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd
var osGetenv = os.Getenv

const (
	userConfigDir    = ".config/ddalabctl"
	projectConfigDir = ".ddalabctl"
	configFileName   = "config.yaml"

	// EnvBaseURL overrides api.baseURL when set.
	EnvBaseURL = "DDALAB_API_URL"
)

// LoadConfig loads the configuration by layering default, user, project and
// environment settings.
func LoadConfig() (Config, error) {
	config := GetDefaultConfig()

	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// user config is optional
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else if fileExists(userConfigPath) {
		userConfig, err := loadConfigFromFile(userConfigPath)
		if err != nil {
			return Config{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
		}
		config = mergeConfigs(config, userConfig)
	}

	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine project config path: %v\n", err)
	} else if fileExists(projectConfigPath) {
		projectConfig, err := loadConfigFromFile(projectConfigPath)
		if err != nil {
			return Config{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
		}
		config = mergeConfigs(config, projectConfig)
	}

	config = applyEnv(config)
	return config, config.Validate()
}

// LoadConfigFromPath loads a single configuration file on top of the defaults,
// skipping the user and project layers.
func LoadConfigFromPath(path string) (Config, error) {
	fileConfig, err := loadConfigFromFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	config := applyEnv(mergeConfigs(GetDefaultConfig(), fileConfig))
	return config, config.Validate()
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// loadConfigFromFile loads a Config from a YAML file.
func loadConfigFromFile(filePath string) (Config, error) {
	var config Config
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config. Zero values in
// the overlay leave the base untouched.
func mergeConfigs(base, overlay Config) Config {
	merged := base

	if overlay.API.BaseURL != "" {
		merged.API.BaseURL = overlay.API.BaseURL
	}
	if overlay.API.Timeout != 0 {
		merged.API.Timeout = overlay.API.Timeout
	}
	if overlay.UI.PollInterval != 0 {
		merged.UI.PollInterval = overlay.UI.PollInterval
	}
	if overlay.UI.AlertDuration != 0 {
		merged.UI.AlertDuration = overlay.UI.AlertDuration
	}
	if overlay.UI.Opener != "" {
		merged.UI.Opener = overlay.UI.Opener
	}
	if overlay.Export.Dir != "" {
		merged.Export.Dir = overlay.Export.Dir
	}
	if overlay.Docker.BackendContainer != "" {
		merged.Docker.BackendContainer = overlay.Docker.BackendContainer
	}

	return merged
}

func applyEnv(config Config) Config {
	if v := strings.TrimSpace(osGetenv(EnvBaseURL)); v != "" {
		config.API.BaseURL = v
	}
	return config
}

// Validate checks the values a user can get wrong.
func (c Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid api.baseURL %q: %w", c.API.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api.baseURL %q: scheme must be http or https", c.API.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid api.baseURL %q: missing host", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.UI.PollInterval <= 0 {
		return fmt.Errorf("ui.pollInterval must be positive, got %s", c.UI.PollInterval)
	}
	if c.UI.AlertDuration <= 0 {
		return fmt.Errorf("ui.alertDuration must be positive, got %s", c.UI.AlertDuration)
	}
	switch c.UI.Opener {
	case OpenerAuto, OpenerBrowser, OpenerClipboard:
	default:
		return fmt.Errorf("ui.opener must be one of auto, browser, clipboard; got %q", c.UI.Opener)
	}
	return nil
}

// GetUserConfigDir returns the user configuration directory path
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir), nil
}
