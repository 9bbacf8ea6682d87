package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/analytics"
	"github.com/cleared-dev/tally/internal/reducer"
)

func newBudgetCommand(opts *rootOptions) *cobra.Command {
	budgetCmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage the monthly budget",
	}
	budgetCmd.AddCommand(
		newBudgetSetCommand(opts),
		newBudgetDeleteCommand(opts),
		newBudgetShowCommand(opts),
	)
	return budgetCmd
}

func newBudgetSetCommand(opts *rootOptions) *cobra.Command {
	var monthly, weekly string
	var alerts bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the monthly or weekly limit and alerts",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = runWith(opts, func(ctx context.Context, a *app, _ []string) error {
		var p reducer.BudgetPatch
		if cmd.Flags().Changed("monthly") {
			d, err := parseDecimal("monthly", monthly)
			if err != nil {
				return err
			}
			p.MonthlyLimit = &d
		}
		if cmd.Flags().Changed("weekly") {
			d, err := parseDecimal("weekly", weekly)
			if err != nil {
				return err
			}
			p.WeeklyLimit = &d
		}
		if cmd.Flags().Changed("alerts") {
			p.AlertsEnabled = &alerts
		}

		if err := a.dispatch(ctx, reducer.SetBudget{BudgetPatch: p}); err != nil {
			return err
		}
		b := a.state().Budget
		prefs := a.state().Preferences
		fmt.Fprintf(a.out, "Budget %s, spent %s, remaining %s\n",
			money(prefs, b.MonthlyLimit), money(prefs, b.Spent), money(prefs, b.Remaining))
		return nil
	})

	cmd.Flags().StringVar(&monthly, "monthly", "", "monthly limit")
	cmd.Flags().StringVar(&weekly, "weekly", "", "weekly limit")
	cmd.Flags().BoolVar(&alerts, "alerts", true, "notify at 80% and 100% of the monthly limit")
	return cmd
}

func newBudgetDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Remove the budget limits",
		Args:  cobra.NoArgs,
		RunE: runWith(opts, func(ctx context.Context, a *app, _ []string) error {
			if err := a.dispatch(ctx, reducer.DeleteBudget{}); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Budget removed")
			return nil
		}),
	}
}

func newBudgetShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the budget for the current month",
		Args:  cobra.NoArgs,
		RunE: runWith(opts, func(_ context.Context, a *app, _ []string) error {
			s := a.state()
			p := analytics.Project(s.Transactions, s.Budget.MonthlyLimit, a.today())

			tw := newTable(a.out)
			fmt.Fprintf(tw, "Monthly limit\t%s\n", money(s.Preferences, s.Budget.MonthlyLimit))
			fmt.Fprintf(tw, "Weekly limit\t%s\n", money(s.Preferences, s.Budget.WeeklyLimit))
			fmt.Fprintf(tw, "Spent\t%s\n", money(s.Preferences, s.Budget.Spent))
			fmt.Fprintf(tw, "Remaining\t%s\n", money(s.Preferences, s.Budget.Remaining))
			fmt.Fprintf(tw, "Used\t%s\n", percent(p.BudgetUtilization))
			fmt.Fprintf(tw, "Alerts\t%t\n", s.Budget.AlertsEnabled)
			return tw.Flush()
		}),
	}
}
