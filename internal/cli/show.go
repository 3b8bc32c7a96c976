package cli

import (
	"github.com/spf13/cobra"
)

func newShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <tide-id>",
		Short: "Show one tide with its flow history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts, cmd, false)
			if err != nil {
				return err
			}
			defer app.Close()

			tide, err := app.Tracker.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return formatter(opts, cmd).Success(tide, tideDetailText(tide))
		},
	}
}
