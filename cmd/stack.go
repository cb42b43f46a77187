package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ddalabctl/internal/backend"
	"ddalabctl/internal/cli"
)

var actionShort = map[backend.Action]string{
	backend.ActionStart:   "Start",
	backend.ActionStop:    "Stop",
	backend.ActionRestart: "Restart",
}

var allActions = []backend.Action{backend.ActionStart, backend.ActionStop, backend.ActionRestart}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state of the DDALAB stack and its services",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			st, err := s.backend.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get status: %w", err)
			}
			return s.printer.Print(cli.NewStatusView(st))
		},
	}
}

// newServiceCmd groups start, stop and restart of a single service.
func newServiceCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Control a single DDALAB service",
		Long: `Start, stop or restart one service of the DDALAB stack.

Use 'ddalabctl status' to see available services and their state.`,
	}
	for _, action := range allActions {
		cmd.AddCommand(newServiceActionCmd(opts, action))
	}
	return cmd
}

func newServiceActionCmd(opts *rootOptions, action backend.Action) *cobra.Command {
	return &cobra.Command{
		Use:   string(action) + " <service>",
		Short: actionShort[action] + " a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			name := args[0]
			if err := s.backend.ServiceAction(cmd.Context(), name, action); err != nil {
				return fmt.Errorf("failed to %s %s: %w", action, name, err)
			}
			return s.printer.Print(cli.OK("%s %s successfully", action, name))
		},
	}
}

func newStackCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stack",
		Short: "Control the whole DDALAB stack",
	}
	for _, action := range allActions {
		cmd.AddCommand(&cobra.Command{
			Use:   string(action),
			Short: actionShort[action] + " every DDALAB service",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := opts.open(cmd)
				if err != nil {
					return err
				}
				if err := s.backend.StackAction(cmd.Context(), action); err != nil {
					return fmt.Errorf("failed to %s DDALAB: %w", action, err)
				}
				return s.printer.Print(cli.OK("DDALAB %s initiated", action))
			},
		})
	}
	return cmd
}

func newLogsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logs",
		Short: "Print the recent logs of the DDALAB stack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			logs, err := s.backend.Logs(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to fetch logs: %w", err)
			}
			return s.printer.Print(cli.LogsView{Logs: logs})
		},
	}
}

func newBackupCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Create a database backup",
		Long:  `Create a database backup. The stack must be running.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			res, err := s.backend.Backup(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to create backup: %w", err)
			}
			msg := cli.OK("Backup created")
			if res != nil {
				msg.Detail = res.Describe()
			}
			return s.printer.Print(msg)
		},
	}
}

func newUpdateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Update the DDALAB installation to the latest release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			res, err := s.backend.Update(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to update DDALAB: %w", err)
			}
			msg := cli.OK("DDALAB updated successfully")
			if res != nil && res.Message != "" {
				msg.Message = res.Message
			}
			return s.printer.Print(msg)
		},
	}
}
