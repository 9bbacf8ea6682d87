package commands

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/categories"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/reducer"
)

func newTxCommand(opts *rootOptions) *cobra.Command {
	txCmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transaction"},
		Short:   "Record and edit transactions",
	}
	txCmd.AddCommand(
		newTxAddCommand(opts),
		newTxUpdateCommand(opts),
		newTxDeleteCommand(opts),
		newTxListCommand(opts),
	)
	return txCmd
}

// txFlags are the transaction fields settable from the command line.
type txFlags struct {
	typ      string
	amount   string
	date     string
	category string
	title    string
	notes    string
	method   string
}

func (f *txFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.typ, "type", string(model.TypeExpense), "expense or income")
	cmd.Flags().StringVar(&f.amount, "amount", "", "amount, e.g. 12.50")
	cmd.Flags().StringVar(&f.date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&f.category, "category", "", "category id or name (default Uncategorized)")
	cmd.Flags().StringVar(&f.title, "title", "", "short description")
	cmd.Flags().StringVar(&f.notes, "notes", "", "free-form notes")
	cmd.Flags().StringVar(&f.method, "method", "", "payment method, e.g. Cash, UPI, Credit Card")
}

func newTxAddCommand(opts *rootOptions) *cobra.Command {
	var f txFlags

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Record an expense or income",
		RunE: runWith(opts, func(ctx context.Context, a *app, args []string) error {
			if f.title == "" {
				f.title = strings.Join(args, " ")
			}
			amount, err := parseAmount(f.amount)
			if err != nil {
				return err
			}
			date := a.today()
			if f.date != "" {
				if date, err = model.ParseDate(f.date); err != nil {
					return err
				}
			}
			s := a.state()
			category, err := resolveCategory(categories.NewIndex(s.Categories), f.category)
			if err != nil {
				return err
			}

			err = a.dispatch(ctx, reducer.AddTransaction{
				Type:          model.TransactionType(strings.ToLower(f.typ)),
				Amount:        amount,
				Date:          date,
				Category:      category,
				Title:         f.title,
				Notes:         f.notes,
				PaymentMethod: f.method,
			})
			if err != nil {
				return err
			}

			s = a.state()
			t := s.Transactions[0]
			fmt.Fprintf(a.out, "Added %s %s %s %q\n", t.ID, t.Type, money(s.Preferences, t.Amount), t.Title)
			return nil
		}),
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newTxUpdateCommand(opts *rootOptions) *cobra.Command {
	var f txFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a transaction",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = runWith(opts, func(ctx context.Context, a *app, args []string) error {
		var p reducer.TransactionPatch
		changed := cmd.Flags().Changed

		if changed("type") {
			typ := model.TransactionType(strings.ToLower(f.typ))
			p.Type = &typ
		}
		if changed("amount") {
			amount, err := parseAmount(f.amount)
			if err != nil {
				return err
			}
			p.Amount = &amount
		}
		if changed("date") {
			date, err := model.ParseDate(f.date)
			if err != nil {
				return err
			}
			p.Date = &date
		}
		if changed("category") {
			category, err := resolveCategory(categories.NewIndex(a.state().Categories), f.category)
			if err != nil {
				return err
			}
			p.Category = &category
		}
		if changed("title") {
			p.Title = &f.title
		}
		if changed("notes") {
			p.Notes = &f.notes
		}
		if changed("method") {
			p.PaymentMethod = &f.method
		}

		id := model.ID(args[0])
		if err := a.dispatch(ctx, reducer.UpdateTransaction{ID: id, Patch: p}); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Updated %s\n", id)
		return nil
	})
	f.register(cmd)
	return cmd
}

func newTxDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete one or more transactions",
		Args:  cobra.MinimumNArgs(1),
		RunE: runWith(opts, func(ctx context.Context, a *app, args []string) error {
			var action reducer.Action = reducer.DeleteTransaction{ID: model.ID(args[0])}
			if len(args) > 1 {
				ids := make([]model.ID, len(args))
				for i, arg := range args {
					ids[i] = model.ID(arg)
				}
				action = reducer.DeleteTransactions{IDs: ids}
			}
			if err := a.dispatch(ctx, action); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted %d transaction(s)\n", len(args))
			return nil
		}),
	}
}

type txListOptions struct {
	month    string
	category string
	typ      string
	search   string
	limit    int
}

func newTxListCommand(opts *rootOptions) *cobra.Command {
	var o txListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: runWith(opts, func(_ context.Context, a *app, _ []string) error {
			s := a.state()
			idx := categories.NewIndex(s.Categories)
			txns, err := filterTransactions(s.Transactions, idx, o)
			if err != nil {
				return err
			}

			tw := newTable(a.out)
			fmt.Fprintln(tw, "ID\tDATE\tTYPE\tAMOUNT\tCATEGORY\tTITLE\tMETHOD")
			for _, t := range txns {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					t.ID, formatDate(s.Preferences, t.Date), t.Type, money(s.Preferences, t.Amount),
					categoryName(idx, t.Category), t.Title, t.PaymentMethod)
			}
			return tw.Flush()
		}),
	}

	cmd.Flags().StringVar(&o.month, "month", "", "only this month, as YYYY-MM")
	cmd.Flags().StringVar(&o.category, "category", "", "only this category (id or name)")
	cmd.Flags().StringVar(&o.typ, "type", "", "only expense or income")
	cmd.Flags().StringVar(&o.search, "search", "", "case-insensitive match on title and notes")
	cmd.Flags().IntVar(&o.limit, "limit", 0, "show at most this many (0 for all)")

	return cmd
}

// filterTransactions applies the list filters and orders by date, newest
// first. Transactions on the same day keep their recorded order.
func filterTransactions(txns []model.Transaction, idx *categories.Index, o txListOptions) ([]model.Transaction, error) {
	var (
		year     int
		month    int
		category model.ID
	)
	if o.month != "" {
		y, m, err := model.ParseMonth(o.month)
		if err != nil {
			return nil, err
		}
		year, month = y, int(m)
	}
	if o.category != "" {
		id, err := resolveCategory(idx, o.category)
		if err != nil {
			return nil, err
		}
		category = id
	}
	search := strings.ToLower(o.search)

	var out []model.Transaction
	for _, t := range txns {
		if year != 0 && (t.Date.Year != year || int(t.Date.Month) != month) {
			continue
		}
		if category != "" && t.Category != category {
			continue
		}
		if o.typ != "" && string(t.Type) != strings.ToLower(o.typ) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Title+" "+t.Notes), search) {
			continue
		}
		out = append(out, t)
	}

	slices.SortStableFunc(out, func(x, y model.Transaction) int {
		switch {
		case y.Date.Before(x.Date):
			return -1
		case x.Date.Before(y.Date):
			return 1
		default:
			return 0
		}
	})
	if o.limit > 0 && len(out) > o.limit {
		out = out[:o.limit]
	}
	return out, nil
}
