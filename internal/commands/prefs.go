package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/reducer"
)

func newPrefsCommand(opts *rootOptions) *cobra.Command {
	prefsCmd := &cobra.Command{
		Use:     "prefs",
		Aliases: []string{"preferences"},
		Short:   "Show or change profile and display preferences",
	}
	prefsCmd.AddCommand(newPrefsSetCommand(opts), newPrefsShowCommand(opts))
	return prefsCmd
}

func newPrefsSetCommand(opts *rootOptions) *cobra.Command {
	var income string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change preferences",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = runWith(opts, func(ctx context.Context, a *app, _ []string) error {
		var p reducer.PreferencesPatch
		changed := cmd.Flags().Changed
		for flag, dst := range map[string]**string{
			"name":        &p.Name,
			"email":       &p.Email,
			"initials":    &p.Initials,
			"theme":       &p.Theme,
			"currency":    &p.Currency,
			"language":    &p.Language,
			"date-format": &p.DateFormat,
			"timezone":    &p.Timezone,
		} {
			if changed(flag) {
				v, _ := cmd.Flags().GetString(flag)
				*dst = &v
			}
		}
		if changed("income") {
			d, err := parseDecimal("income", income)
			if err != nil {
				return err
			}
			p.MonthlyIncome = &d
		}
		if err := a.dispatch(ctx, reducer.UpdatePreferences{Patch: p}); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Preferences updated")
		return nil
	})

	f := cmd.Flags()
	f.String("name", "", "display name")
	f.String("email", "", "email")
	f.String("initials", "", "initials (default: from the name)")
	f.String("theme", "", "theme: dark or light")
	f.String("currency", "", "currency code: INR, USD or EUR")
	f.String("language", "", "language code")
	f.String("date-format", "", "DD/MM/YYYY, MM/DD/YYYY or YYYY-MM-DD")
	f.String("timezone", "", "IANA time zone")
	f.StringVar(&income, "income", "", "monthly income")
	return cmd
}

func newPrefsShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show preferences",
		Args:  cobra.NoArgs,
		RunE: runWith(opts, func(_ context.Context, a *app, _ []string) error {
			p := a.state().Preferences
			tw := newTable(a.out)
			fmt.Fprintf(tw, "Name\t%s\n", p.Name)
			fmt.Fprintf(tw, "Initials\t%s\n", p.Initials)
			fmt.Fprintf(tw, "Email\t%s\n", p.Email)
			fmt.Fprintf(tw, "Currency\t%s\n", p.Currency)
			fmt.Fprintf(tw, "Monthly income\t%s\n", money(p, p.MonthlyIncome))
			fmt.Fprintf(tw, "Theme\t%s\n", p.Theme)
			fmt.Fprintf(tw, "Language\t%s\n", p.Language)
			fmt.Fprintf(tw, "Date format\t%s\n", p.DateFormat)
			fmt.Fprintf(tw, "Timezone\t%s\n", p.Timezone)
			return tw.Flush()
		}),
	}
}
