package app

import (
	"ddalabctl/internal/config"
	"ddalabctl/pkg/logging"
)

// Config holds the settings given on the command line.
type Config struct {
	// ConfigPath loads a single config file instead of the layered lookup.
	ConfigPath string
	// APIURL overrides api.baseURL from files and environment.
	APIURL string

	Debug bool

	// Settings is filled in by NewApplication.
	Settings *config.Config
}

// NewConfig creates a new application configuration
func NewConfig(configPath, apiURL string, debug bool) *Config {
	return &Config{
		ConfigPath: configPath,
		APIURL:     apiURL,
		Debug:      debug,
	}
}

// LogLevel is DEBUG with --debug, INFO otherwise.
func (c *Config) LogLevel() logging.LogLevel {
	if c.Debug {
		return logging.LevelDebug
	}
	return logging.LevelInfo
}
