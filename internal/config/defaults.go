package config

import "time"

const (
	DefaultBaseURL          = "http://localhost:8080"
	DefaultTimeout          = 30 * time.Second
	DefaultPollInterval     = 30 * time.Second
	DefaultAlertDuration    = 5 * time.Second
	DefaultBackendContainer = "ddalab-control"
)

// GetDefaultConfig returns the configuration used when no file overrides it.
func GetDefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
		UI: UIConfig{
			PollInterval:  DefaultPollInterval,
			AlertDuration: DefaultAlertDuration,
			Opener:        OpenerAuto,
		},
		Export: ExportConfig{
			Dir: ".",
		},
		Docker: DockerConfig{
			BackendContainer: DefaultBackendContainer,
		},
	}
}
