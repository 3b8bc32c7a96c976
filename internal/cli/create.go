package cli

import (
	"github.com/spf13/cobra"

	"github.com/tides-mcp/tides/internal/tides"
	"github.com/tides-mcp/tides/internal/tracker"
)

func newCreateCommand(opts *RootOptions) *cobra.Command {
	var (
		tideType    string
		description string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new tide",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tt, err := tides.ParseTideType(tideType)
			if err != nil {
				return err
			}

			app, err := openApp(opts, cmd, false)
			if err != nil {
				return err
			}
			defer app.Close()

			tide, err := app.Tracker.Create(cmd.Context(), tracker.CreateInput{
				Name:        args[0],
				Type:        tt,
				Description: description,
			})
			if err != nil {
				return err
			}
			return formatter(opts, cmd).Success(tide, tideText(tide))
		},
	}

	cmd.Flags().StringVarP(&tideType, "type", "t", "", "tide type (daily|weekly|project|seasonal)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "what the tide is for")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}
