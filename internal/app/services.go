package app

import (
	"fmt"

	"ddalabctl/internal/backend"
	"ddalabctl/internal/config"
	"ddalabctl/internal/opener"
)

// Services holds the dependencies every mode shares.
type Services struct {
	Backend *backend.Client
	Opener  opener.URLOpener
}

// InitializeServices builds the backend client and the URL opener from the
// resolved configuration.
func InitializeServices(settings config.Config) (*Services, error) {
	client, err := backend.NewClient(settings.API.BaseURL, settings.API.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}
	o, err := opener.New(settings.UI.Opener)
	if err != nil {
		return nil, fmt.Errorf("failed to create URL opener: %w", err)
	}
	return &Services{Backend: client, Opener: o}, nil
}
