package app

import (
	"context"

	"ddalabctl/internal/tui/controller"
	"ddalabctl/internal/tui/design"
	"ddalabctl/internal/tui/model"
	"ddalabctl/pkg/logging"
)

const tuiSubsystem = "TUI-Lifecycle"

// runTUIMode executes the interactive terminal UI mode
func runTUIMode(ctx context.Context, cfg *Config, services *Services) error {
	logging.Info("CLI", "Starting TUI mode...")

	design.Initialize(true)

	// From here on log entries go to the activity log.
	logChan := logging.InitForTUI(cfg.LogLevel())
	defer logging.CloseTUIChannel()

	settings := cfg.Settings
	p := controller.NewProgram(ctx, model.TUIConfig{
		Backend:       services.Backend,
		Opener:        services.Opener,
		PollInterval:  settings.UI.PollInterval,
		AlertDuration: settings.UI.AlertDuration,
		ExportDir:     settings.Export.Dir,
		DebugMode:     cfg.Debug,
		LogChannel:    logChan,
	})

	if _, err := p.Run(); err != nil {
		logging.Error(tuiSubsystem, err, "Error running TUI program")
		return err
	}
	logging.Info(tuiSubsystem, "TUI exited.")
	return nil
}
