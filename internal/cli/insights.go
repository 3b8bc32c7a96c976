package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/tides-mcp/tides/internal/journal"
)

func newInsightsCommand(opts *RootOptions) *cobra.Command {
	var (
		tideID string
		limit  int
		resync bool
	)

	cmd := &cobra.Command{
		Use:   "insights [query...]",
		Short: "Search insights recorded with flows",
		Long: `Full-text search over flow insights. Without a query the most
recent insights are listed. Requires the insight journal (journal.enabled).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts, cmd, true)
			if err != nil {
				return err
			}
			defer app.Close()

			if app.Journal == nil {
				return NewExitError(ExitUserError, "insight journal is disabled; set journal.enabled: true in config.yaml")
			}
			if resync {
				app.SyncJournal(cmd.Context())
			}

			results, err := app.Journal.Search(cmd.Context(), strings.Join(args, " "), journal.SearchOptions{
				TideID: tideID,
				Limit:  limit,
			})
			if err != nil {
				return WrapExitError(ExitSysError, "searching insights", err)
			}
			return formatter(opts, cmd).Success(results, insightsText(results))
		},
	}

	cmd.Flags().StringVar(&tideID, "tide", "", "only insights from this tide")
	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "max results")
	cmd.Flags().BoolVar(&resync, "resync", false, "rebuild the journal from the store first")

	return cmd
}
