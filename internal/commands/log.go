package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/activitylog"
)

func newLogCommand(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the activity log",
		Args:  cobra.NoArgs,
		RunE: runWith(opts, func(_ context.Context, a *app, _ []string) error {
			entries, err := activitylog.Read(a.root)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(a.out, "No activity recorded")
				return nil
			}
			tw := newTable(a.out)
			fmt.Fprintln(tw, "TIME\tACTION\tOUTCOME\tDETAILS")
			for _, e := range activitylog.Last(entries, limit) {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					e.Timestamp.Local().Format(time.DateTime), e.Action, e.Outcome, e.Details)
			}
			return tw.Flush()
		}),
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "show the most recent n entries (0 for all)")
	return cmd
}
