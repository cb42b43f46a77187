package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ddalabctl/internal/backend"
	"ddalabctl/internal/cli"
	"ddalabctl/internal/pathselect"
)

func newPathsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "List, check and select DDALAB installation directories",
		Long: `An installation directory holds the docker-compose.yml and ddalab.sh of a
DDALAB deployment. The manager remembers known installations and can
discover others on this machine.`,
	}
	cmd.AddCommand(
		newPathsListCmd(opts),
		newPathsDiscoverCmd(opts),
		newPathsValidateCmd(opts),
		newPathsSelectCmd(opts),
	)
	return cmd
}

func newPathsListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known and discovered installations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			current, candidates, err := pathselect.Load(cmd.Context(), s.backend)
			if err != nil {
				return err
			}
			return s.printer.Print(cli.CandidatesView{Selected: current, Candidates: candidates})
		},
	}
}

func newPathsDiscoverCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "Search this machine for installations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			discovered, err := s.backend.DiscoverPaths(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to discover paths: %w", err)
			}
			return s.printer.Print(cli.CandidatesView{Candidates: pathselect.Merge("", nil, discovered)})
		},
	}
}

func newPathsValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <path>",
		Short: "Check whether a directory is a DDALAB installation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			path, err := pathArg(args[0])
			if err != nil {
				return err
			}
			res, err := s.backend.ValidatePath(cmd.Context(), path)
			if err != nil {
				return fmt.Errorf("failed to validate %s: %w", path, err)
			}
			return printPathResult(s, res)
		},
	}
}

func newPathsSelectCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "select <path>",
		Short: "Make a directory the active installation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			path, err := pathArg(args[0])
			if err != nil {
				return err
			}
			res, err := s.backend.SelectPath(cmd.Context(), path)
			if err != nil {
				return fmt.Errorf("failed to select %s: %w", path, err)
			}
			return printPathResult(s, res)
		},
	}
}

func pathArg(raw string) (string, error) {
	path := pathselect.Normalize(raw)
	if path == "" {
		return "", fmt.Errorf("path must not be empty")
	}
	return path, nil
}

// printPathResult prints res and fails the command when the directory was
// rejected.
func printPathResult(s *session, res *backend.PathValidationResult) error {
	if err := s.printer.Print(cli.PathResultView(*res)); err != nil {
		return err
	}
	if !res.Valid {
		return fmt.Errorf("%s is not a valid DDALAB installation", res.Path)
	}
	return nil
}
