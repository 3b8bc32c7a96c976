package cli

import (
	"github.com/spf13/cobra"

	"github.com/tides-mcp/tides/internal/tides"
)

func newListCommand(opts *RootOptions) *cobra.Command {
	var args tides.FilterArgs

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tides, oldest first",
		Long: `List tides, oldest first. Filters combine with AND.
--since and --until accept YYYY-MM-DD or RFC3339 and are inclusive.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := tides.ParseFilter(args)
			if err != nil {
				return err
			}

			app, err := openApp(opts, cmd, false)
			if err != nil {
				return err
			}
			defer app.Close()

			list, err := app.Tracker.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return formatter(opts, cmd).Success(list, tideTable(list))
		},
	}

	cmd.Flags().StringVarP(&args.Type, "type", "t", "", "only tides of this type")
	cmd.Flags().StringVarP(&args.Status, "status", "s", "", "only tides with this status (active|completed|paused)")
	cmd.Flags().BoolVarP(&args.ActiveOnly, "active", "a", false, "only active tides")
	cmd.Flags().StringVar(&args.Since, "since", "", "only tides created at or after this date")
	cmd.Flags().StringVar(&args.Until, "until", "", "only tides created at or before this date")

	return cmd
}
