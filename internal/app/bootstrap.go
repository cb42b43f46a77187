package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"ddalabctl/internal/config"
	"ddalabctl/pkg/logging"
)

const bootstrapSubsystem = "Bootstrap"

// Application is the main application structure that bootstraps and runs
// ddalabctl.
type Application struct {
	config   *Config
	services *Services
}

// NewApplication loads the configuration and builds the services. Logging
// goes to logOut until a mode takes it over.
func NewApplication(cfg *Config, logOut io.Writer) (*Application, error) {
	if logOut == nil {
		logOut = os.Stderr
	}
	logging.InitForCLI(cfg.LogLevel(), logOut)

	settings, err := LoadSettings(cfg)
	if err != nil {
		logging.Error(bootstrapSubsystem, err, "Failed to load configuration")
		return nil, err
	}
	cfg.Settings = &settings

	services, err := InitializeServices(settings)
	if err != nil {
		logging.Error(bootstrapSubsystem, err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	logging.Debug(bootstrapSubsystem, "Using backend at %s", settings.API.BaseURL)

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// LoadSettings resolves the configuration layers and applies the --api-url
// override last.
func LoadSettings(cfg *Config) (config.Config, error) {
	var (
		settings config.Config
		err      error
	)
	if cfg.ConfigPath != "" {
		settings, err = config.LoadConfigFromPath(cfg.ConfigPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load configuration from path %s: %w", cfg.ConfigPath, err)
		}
		logging.Debug(bootstrapSubsystem, "Loaded configuration from custom path: %s", cfg.ConfigPath)
	} else {
		settings, err = config.LoadConfig()
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load configuration: %w", err)
		}
		logging.Debug(bootstrapSubsystem, "Loaded configuration using layered approach")
	}

	if u := strings.TrimSpace(cfg.APIURL); u != "" {
		settings.API.BaseURL = u
		if err := settings.Validate(); err != nil {
			return config.Config{}, fmt.Errorf("invalid --api-url: %w", err)
		}
	}
	return settings, nil
}

// Services returns the wired dependencies.
func (a *Application) Services() *Services {
	return a.services
}

// Settings returns the resolved configuration.
func (a *Application) Settings() config.Config {
	return *a.config.Settings
}

// RunTUI runs the interactive dashboard until the user quits.
func (a *Application) RunTUI(ctx context.Context) error {
	return runTUIMode(ctx, a.config, a.services)
}
