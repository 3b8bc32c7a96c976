package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tides-mcp/tides/internal/server"
)

func newVersionCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := map[string]string{"version": server.Version}
			return formatter(opts, cmd).Success(v, fmt.Sprintf("tides v%s\n", server.Version))
		},
	}
}
