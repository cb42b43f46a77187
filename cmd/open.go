package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ddalabctl/internal/cli"
)

func newOpenCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "open",
		Short: "Open the DDALAB web interface",
		Long: `Open the DDALAB web interface in the default browser. When no browser
can be started the URL is copied to the clipboard, depending on ui.opener.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			cfg, err := s.backend.EnvConfig(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get env config: %w", err)
			}
			if cfg.URL == "" {
				return fmt.Errorf("DDALAB URL not configured or found")
			}
			res, err := s.app.Services().Opener.Open(cfg.URL)
			if err != nil {
				return fmt.Errorf("failed to open website: %w", err)
			}
			return s.printer.Print(cli.OK("%s", res.Message()))
		},
	}
}
