package cli

import (
	"github.com/spf13/cobra"

	"github.com/tides-mcp/tides/internal/server"
)

func newServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Long: `Start the MCP server on stdin/stdout. Logs go to stderr.

Register it with an MCP client as: tides serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts, cmd, true)
			if err != nil {
				return err
			}
			defer app.Close()

			s := server.New(cmd.Context(), app)
			if err := server.Serve(s); err != nil {
				return WrapExitError(ExitSysError, "mcp server", err)
			}
			return nil
		},
	}
}
