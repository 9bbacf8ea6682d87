package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/reducer"
)

func newResetCommand(opts *rootOptions) *cobra.Command {
	var hard, yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase all ledger data",
		Long: `Erase transactions, categories, budget, goals and notifications.

By default the profile preferences are kept. With --hard the ledger starts
over from scratch. Either way "tally init" must be run again.`,
		Args: cobra.NoArgs,
		RunE: runWith(opts, func(ctx context.Context, a *app, _ []string) error {
			if !yes {
				return errors.New("reset erases all data; pass --yes to confirm")
			}
			var action reducer.Action = reducer.ResetAllData{}
			if hard {
				action = reducer.ForceFreshStart{}
			}
			if err := a.dispatch(ctx, action); err != nil {
				return err
			}
			fmt.Fprintln(a.out, `Ledger erased; run "tally init" to start again`)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&hard, "hard", false, "also forget the profile preferences")
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}
