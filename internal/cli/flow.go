package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tides-mcp/tides/internal/tides"
	"github.com/tides-mcp/tides/internal/tracker"
)

func newFlowCommand(opts *RootOptions) *cobra.Command {
	var (
		intensity   string
		duration    int
		insight     string
		cadenceDays float64
	)

	cmd := &cobra.Command{
		Use:   "flow <tide-id>",
		Short: "Record a flow session on an active tide",
		Long: `Record a flow session on an active tide and schedule the next one.
Duration defaults by intensity: gentle 15, moderate 25, strong 50 minutes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := tracker.FlowInput{TideID: args[0], Insight: insight}

			var err error
			if in.Intensity, err = tides.ParseIntensity(intensity); err != nil {
				return err
			}
			if cmd.Flags().Changed("duration") {
				in.Duration = &duration
			}
			if cmd.Flags().Changed("cadence-days") {
				c, err := tides.CadenceDays(cadenceDays)
				if err != nil {
					return err
				}
				in.Cadence = &c
			}

			app, err := openApp(opts, cmd, true)
			if err != nil {
				return err
			}
			defer app.Close()

			res, err := app.Tracker.Flow(cmd.Context(), in)
			if err != nil {
				return err
			}

			text := fmt.Sprintf("Flow recorded on %s: %s, %d min, until ~%s\nNext flow: %s\n",
				res.Tide.Name, res.Flow.Intensity, res.Flow.DurationMinutes,
				res.Flow.EstimatedEnd().UTC().Format(time.RFC3339), fmtTime(res.Tide.NextFlowAt))
			return formatter(opts, cmd).Success(res, text)
		},
	}

	cmd.Flags().StringVarP(&intensity, "intensity", "i", string(tides.IntensityModerate), "effort tier (gentle|moderate|strong)")
	cmd.Flags().IntVarP(&duration, "duration", "m", 0, "session length in minutes (1-1440)")
	cmd.Flags().StringVarP(&insight, "insight", "n", "", "insight captured during the session")
	cmd.Flags().Float64Var(&cadenceDays, "cadence-days", 0, "days until the next session (at most 3650), overriding the type's cadence")

	return cmd
}
