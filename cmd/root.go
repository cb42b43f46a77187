package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ddalabctl/internal/app"
	"ddalabctl/internal/backend"
	"ddalabctl/internal/cli"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	apiURL     string
	configPath string
	debug      bool
	output     string
}

// rootCmd represents the base command when called without any subcommands
var rootCmd *cobra.Command

func init() {
	rootCmd = newRootCmd()
}

// backendFactory returns the backend a command talks to. Tests swap it.
var backendFactory = func(a *app.Application) backend.Backend {
	return a.Services().Backend
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "ddalabctl",
		Short: "Control a local DDALAB installation",
		Long: `ddalabctl monitors and controls a local DDALAB installation through its
manager API: start and stop services, pick the installation directory,
edit the .env configuration, take backups and open the web interface.

Without a subcommand it starts the interactive dashboard.`,
		// SilenceUsage is set to true to prevent printing usage message on errors
		// handled by us (e.g. unreachable backend, invalid configuration)
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.apiURL, "api-url", "", "Manager API base URL (overrides config and DDALAB_API_URL)")
	flags.StringVar(&opts.configPath, "config", "", "Load configuration from this file only")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flags.StringVarP(&opts.output, "output", "o", "table", "Output format (table, json, yaml)")

	cmd.AddCommand(
		newTUICmd(opts),
		newStatusCmd(opts),
		newServiceCmd(opts),
		newStackCmd(opts),
		newLogsCmd(opts),
		newBackupCmd(opts),
		newUpdateCmd(opts),
		newPathsCmd(opts),
		newEnvCmd(opts),
		newOpenCmd(opts),
		newDoctorCmd(opts),
		newMCPCmd(opts),
		newVersionCmd(),
		newSelfUpdateCmd(),
	)
	return cmd
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the root command with a context cancelled on SIGINT and
// SIGTERM. This is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "ddalabctl version %s\n" .Version}}`)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

// session is what a single command run needs: the bootstrapped application,
// the backend and a printer for the selected output format.
type session struct {
	app     *app.Application
	backend backend.Backend
	printer *cli.Printer
}

func (o *rootOptions) open(cmd *cobra.Command) (*session, error) {
	format, err := cli.ParseOutputFormat(o.output)
	if err != nil {
		return nil, err
	}
	a, err := app.NewApplication(app.NewConfig(o.configPath, o.apiURL, o.debug), cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	return &session{
		app:     a,
		backend: backendFactory(a),
		printer: cli.NewPrinter(format, cmd.OutOrStdout()),
	}, nil
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}
}

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	a, err := app.NewApplication(app.NewConfig(opts.configPath, opts.apiURL, opts.debug), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if err := a.RunTUI(cmd.Context()); err != nil {
		return fmt.Errorf("dashboard exited: %w", err)
	}
	return nil
}
