package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/reducer"
)

func newRefreshCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Recompute analytics and budget totals",
		Args:  cobra.NoArgs,
		RunE: runWith(opts, func(ctx context.Context, a *app, _ []string) error {
			if err := a.dispatch(ctx, reducer.RefreshAnalytics{}); err != nil {
				return err
			}
			t := a.today()
			fmt.Fprintf(a.out, "Analytics refreshed for %d-%02d\n", t.Year, int(t.Month))
			return nil
		}),
	}
}
