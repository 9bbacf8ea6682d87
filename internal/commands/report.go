package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/analytics"
	"github.com/cleared-dev/tally/internal/model"
)

type reportOptions struct {
	month  string
	asOf   string
	top    int
	json   bool
	daily  bool
	yearly bool
}

func newReportCommand(opts *rootOptions) *cobra.Command {
	var o reportOptions

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show spending analytics for a month",
		Args:  cobra.NoArgs,
		RunE: runWith(opts, func(_ context.Context, a *app, _ []string) error {
			params := analytics.Params{AsOf: a.today(), TopCategories: o.top}
			if params.TopCategories == 0 {
				params.TopCategories = a.cfg.Analytics.TopCategories
			}
			if o.asOf != "" {
				d, err := model.ParseDate(o.asOf)
				if err != nil {
					return err
				}
				params.AsOf = d
			}
			if o.month != "" {
				y, m, err := model.ParseMonth(o.month)
				if err != nil {
					return err
				}
				params.Year, params.Month = y, m
			}

			s := a.state()
			v := analytics.Build(s, params)
			if o.json {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(v)
			}
			return printReport(a.out, s, v, params, o)
		}),
	}

	cmd.Flags().StringVar(&o.month, "month", "", "month to report, as YYYY-MM (default: the current month)")
	cmd.Flags().StringVar(&o.asOf, "as-of", "", "treat this YYYY-MM-DD as today")
	cmd.Flags().IntVar(&o.top, "top", 0, "number of top categories (default from tally.yaml)")
	cmd.Flags().BoolVar(&o.json, "json", false, "print the full report as JSON")
	cmd.Flags().BoolVar(&o.daily, "daily", false, "include the daily series")
	cmd.Flags().BoolVar(&o.yearly, "yearly", false, "include the month-by-month rollup of the year")
	return cmd
}

func printReport(w io.Writer, s model.State, v analytics.View, params analytics.Params, o reportOptions) error {
	prefs := s.Preferences

	fmt.Fprintf(w, "Report for %s %d (as of %s)\n\n", v.Month, v.Year, formatDate(prefs, params.AsOf))

	tw := newTable(w)
	fmt.Fprintln(tw, "SUMMARY\t")
	fmt.Fprintf(tw, "Income\t%s\n", money(prefs, v.Income))
	fmt.Fprintf(tw, "Expenses\t%s\n", money(prefs, v.Summary.Total))
	fmt.Fprintf(tw, "Balance\t%s\n", money(prefs, v.Balance))
	fmt.Fprintf(tw, "Daily average\t%s\n", money(prefs, v.Summary.Average))
	fmt.Fprintf(tw, "Highest day\t%s\n", money(prefs, v.Summary.Highest))
	fmt.Fprintf(tw, "Lowest day\t%s\n", money(prefs, v.Summary.Lowest))
	fmt.Fprintf(tw, "Consistency\t%d/100\n", v.Consistency)
	fmt.Fprintf(tw, "Trend\t%+.1f%%\n", v.Trend)
	fmt.Fprintf(tw, "Savings rate\t%s\n", percent(v.SavingsRate))
	fmt.Fprintf(tw, "Month over month\t%+.1f%%\n", v.MonthOverMonth)
	fmt.Fprintln(tw, "\t")

	p := v.Projection
	if p.MonthlyLimit.IsPositive() {
		fmt.Fprintln(tw, "BUDGET\t")
		fmt.Fprintf(tw, "Limit\t%s\n", money(prefs, p.MonthlyLimit))
		fmt.Fprintf(tw, "Spent\t%s (%s)\n", money(prefs, p.TotalSpent), percent(p.BudgetUtilization))
		fmt.Fprintf(tw, "Projected month end\t%s\n", money(prefs, p.ProjectedMonthEnd))
		fmt.Fprintf(tw, "Recommended daily spend\t%s\n", money(prefs, p.RecommendedDailySpend))
		fmt.Fprintf(tw, "Risk\t%s\n", v.Risk)
		if r := v.Rebalance; r != nil {
			fmt.Fprintf(tw, "Strategy\t%s\n", r.Strategy)
			fmt.Fprintf(tw, "New daily limit\t%s (was %s, %s less)\n",
				money(prefs, r.NewDailyLimit), money(prefs, r.OriginalDailyLimit), percent(r.ReductionPercent))
			fmt.Fprintf(tw, "Weekly budget\t%s for %d week(s)\n", money(prefs, r.WeeklyBudget), r.WeeksRemaining)
			if !r.Feasible {
				fmt.Fprintln(tw, "Feasible\tno")
			}
			if r.Overspend.IsPositive() {
				fmt.Fprintf(tw, "Overspend\t%s\n", money(prefs, r.Overspend))
			}
		}
		fmt.Fprintln(tw, "\t")
	}

	if v.Prediction.Sufficient {
		fmt.Fprintf(tw, "Predicted month end\t%s%.2f (confidence %.0f%%)\n",
			model.CurrencySymbol(prefs.Currency), v.Prediction.Predicted, v.Prediction.Confidence*100)
	}
	if v.Acceleration.Accelerating {
		fmt.Fprintf(tw, "Spending is accelerating\t+%.0f%% over the first days of the month\n", v.Acceleration.Increase)
	}
	for _, an := range v.Anomalies {
		fmt.Fprintf(tw, "Unusual spending\tday %d: %s (%.1fx the average day)\n", an.Day, money(prefs, an.Amount), an.Severity)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(v.TopCategories) > 0 {
		fmt.Fprintln(w)
		tw = newTable(w)
		fmt.Fprintln(tw, "CATEGORY\tAMOUNT\tCOUNT\tSHARE")
		for _, c := range v.TopCategories {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", c.Name, money(prefs, c.Amount), c.Count, percent(c.Share))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(v.CategoryBudget) > 0 {
		fmt.Fprintln(w)
		tw = newTable(w)
		fmt.Fprintln(tw, "CATEGORY BUDGET\tLIMIT\tSPENT\tREMAINING\tUSED")
		for _, cb := range v.CategoryBudget {
			used := percent(cb.Percent)
			if cb.Over {
				used += " over"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				cb.Name, money(prefs, cb.Budget), money(prefs, cb.Spent), money(prefs, cb.Remaining), used)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(w)
	tw = newTable(w)
	fmt.Fprintln(tw, "WEEK\tAMOUNT\tCOUNT")
	for _, wk := range v.Weekly {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", wk.Week, money(prefs, wk.Amount), wk.Count)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	tw = newTable(w)
	fmt.Fprintln(tw, "WEEKDAY\tAMOUNT")
	for i, amt := range v.Weekdays {
		fmt.Fprintf(tw, "%s\t%s\n", analytics.Weekdays[i], money(prefs, amt))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(v.PaymentMethods) > 0 {
		fmt.Fprintln(w)
		tw = newTable(w)
		fmt.Fprintln(tw, "METHOD\tAMOUNT")
		for _, pm := range v.PaymentMethods {
			fmt.Fprintf(tw, "%s\t%s\n", pm.Method, money(prefs, pm.Amount))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if o.daily {
		fmt.Fprintln(w)
		tw = newTable(w)
		fmt.Fprintln(tw, "DATE\tAMOUNT\tCUMULATIVE")
		for _, d := range v.Daily {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", formatDate(prefs, d.Date), money(prefs, d.Amount), money(prefs, d.Cumulative))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if o.yearly {
		fmt.Fprintln(w)
		tw = newTable(w)
		fmt.Fprintln(tw, "MONTH\tEXPENSES\tINCOME\tCOUNT")
		for _, mt := range v.Monthly {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", mt.Month, money(prefs, mt.Expenses), money(prefs, mt.Income), mt.Count)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
