package cmd

import (
	"github.com/spf13/cobra"

	"ddalabctl/internal/mcpserver"
)

func newMCPCmd(opts *rootOptions) *cobra.Command {
	var (
		transport string
		addr      string
	)
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the DDALAB controls as MCP tools",
		Long: `Serve the DDALAB controls as Model Context Protocol tools so an AI
assistant can check status, control services and edit the configuration.

With the default stdio transport, add ddalabctl to your assistant's MCP
configuration:

  {"command": "ddalabctl", "args": ["mcp"]}

Logs are written to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := mcpserver.ParseTransport(transport)
			if err != nil {
				return err
			}
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			srv := mcpserver.New(s.backend, cmd.Root().Version)
			return srv.Serve(cmd.Context(), tr, addr)
		},
	}
	cmd.Flags().StringVar(&transport, "transport", string(mcpserver.TransportStdio), "Transport (stdio, sse)")
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8091", "Listen address for the sse transport")
	return cmd
}
