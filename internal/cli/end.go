package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tides-mcp/tides/internal/tides"
	"github.com/tides-mcp/tides/internal/tracker"
)

func newEndCommand(opts *RootOptions) *cobra.Command {
	var (
		outcome string
		note    string
	)

	cmd := &cobra.Command{
		Use:   "end <tide-id>",
		Short: "Complete or pause a tide",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := tides.ParseOutcome(outcome)
			if err != nil {
				return err
			}

			app, err := openApp(opts, cmd, false)
			if err != nil {
				return err
			}
			defer app.Close()

			tide, err := app.Tracker.End(cmd.Context(), tracker.EndInput{
				TideID:  args[0],
				Outcome: status,
				Note:    note,
			})
			if err != nil {
				return err
			}
			text := fmt.Sprintf("%s is now %s after %d flows.\n", tide.Name, tide.Status, len(tide.FlowHistory))
			return formatter(opts, cmd).Success(tide, text)
		},
	}

	cmd.Flags().StringVarP(&outcome, "outcome", "o", string(tides.StatusCompleted), "how the tide ends (completed|paused)")
	cmd.Flags().StringVarP(&note, "note", "n", "", "closing note")

	return cmd
}
