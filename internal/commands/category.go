package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/analytics"
	"github.com/cleared-dev/tally/internal/categories"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/reducer"
)

func newCategoryCommand(opts *rootOptions) *cobra.Command {
	catCmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories"},
		Short:   "Manage categories",
	}
	catCmd.AddCommand(
		newCategoryAddCommand(opts),
		newCategoryUpdateCommand(opts),
		newCategoryDeleteCommand(opts),
		newCategoryListCommand(opts),
		newCategoryExportCommand(opts),
		newCategoryImportCommand(opts),
	)
	return catCmd
}

type categoryFlags struct {
	name        string
	icon        string
	color       string
	budget      string
	description string
}

func (f *categoryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.icon, "icon", "", "icon, usually an emoji")
	cmd.Flags().StringVar(&f.color, "color", "", "hex color such as #4ECDC4 (default: picked automatically)")
	cmd.Flags().StringVar(&f.budget, "budget", "0", "monthly cap for this category")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
}

func newCategoryAddCommand(opts *rootOptions) *cobra.Command {
	var f categoryFlags

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: runWith(opts, func(ctx context.Context, a *app, args []string) error {
			budget, err := parseDecimal("budget", f.budget)
			if err != nil {
				return err
			}
			err = a.dispatch(ctx, reducer.AddCategory{
				Name:        args[0],
				Icon:        f.icon,
				Color:       f.color,
				Budget:      budget,
				Description: f.description,
			})
			if err != nil {
				return err
			}
			s := a.state()
			c := s.Categories[len(s.Categories)-1]
			fmt.Fprintf(a.out, "Added category %s %s (%s)\n", c.ID, c.Name, c.Color)
			return nil
		}),
	}
	f.register(cmd)
	return cmd
}

func newCategoryUpdateCommand(opts *rootOptions) *cobra.Command {
	var f categoryFlags

	cmd := &cobra.Command{
		Use:   "update <id|name>",
		Short: "Change a category",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = runWith(opts, func(ctx context.Context, a *app, args []string) error {
		id, err := resolveCategory(categories.NewIndex(a.state().Categories), args[0])
		if err != nil {
			return err
		}

		var p reducer.CategoryPatch
		changed := cmd.Flags().Changed
		if changed("name") {
			p.Name = &f.name
		}
		if changed("icon") {
			p.Icon = &f.icon
		}
		if changed("color") {
			p.Color = &f.color
		}
		if changed("budget") {
			budget, err := parseDecimal("budget", f.budget)
			if err != nil {
				return err
			}
			p.Budget = &budget
		}
		if changed("description") {
			p.Description = &f.description
		}

		if err := a.dispatch(ctx, reducer.UpdateCategory{ID: id, Patch: p}); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Updated category %s\n", id)
		return nil
	})
	f.register(cmd)
	cmd.Flags().StringVar(&f.name, "name", "", "new name")
	return cmd
}

func newCategoryDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete a category; its transactions become Uncategorized",
		Args:  cobra.ExactArgs(1),
		RunE: runWith(opts, func(ctx context.Context, a *app, args []string) error {
			id, err := resolveCategory(categories.NewIndex(a.state().Categories), args[0])
			if err != nil {
				return err
			}
			if id == model.Uncategorized {
				return fmt.Errorf("%s cannot be deleted", model.Uncategorized)
			}
			if err := a.dispatch(ctx, reducer.DeleteCategory{ID: id}); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted category %s\n", id)
			return nil
		}),
	}
}

func newCategoryListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories with this month's spending",
		Args:  cobra.NoArgs,
		RunE: runWith(opts, func(_ context.Context, a *app, _ []string) error {
			s := a.state()
			today := a.today()
			spent := make(map[model.ID]string)
			for _, ct := range analytics.ByCategory(analytics.Expenses(s.Transactions, today.Year, today.Month), s.Categories) {
				spent[ct.CategoryID] = money(s.Preferences, ct.Amount)
			}

			idx := categories.NewIndex(s.Categories)
			tw := newTable(a.out)
			fmt.Fprintln(tw, "ID\tNAME\tCOLOR\tBUDGET\tSPENT")
			for _, c := range idx.All() {
				budget := "-"
				if c.Budget.IsPositive() {
					budget = money(s.Preferences, c.Budget)
				}
				sp, ok := spent[c.ID]
				if !ok {
					sp = money(s.Preferences, decimal.Zero)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ID, categoryName(idx, c.ID), c.Color, budget, sp)
			}
			return tw.Flush()
		}),
	}
}

func newCategoryExportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the categories as CSV",
		Args:  cobra.NoArgs,
		RunE: runWith(opts, func(_ context.Context, a *app, _ []string) error {
			return categories.WriteCategories(a.out, a.state().Categories)
		}),
	}
}

func newCategoryImportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add categories from a CSV written by category export",
		Long:  "Add categories from a CSV written by category export. Names already in use are skipped.",
		Args:  cobra.ExactArgs(1),
		RunE: runWith(opts, func(ctx context.Context, a *app, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			cats, err := categories.ReadCategories(f)
			if err != nil {
				return err
			}
			before := len(a.state().Categories)
			if err := a.dispatch(ctx, reducer.ImportData{Categories: cats}); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Added %d categories\n", len(a.state().Categories)-before)
			return nil
		}),
	}
}
