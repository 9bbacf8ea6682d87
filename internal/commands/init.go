package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/categories"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/gitops"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/persist"
)

type initOptions struct {
	name       string
	email      string
	currency   string
	income     string
	budget     string
	starter    bool
	categories []string
	git        bool
}

func newInitCommand(opts *rootOptions) *cobra.Command {
	var o initOptions

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Set up a new ledger",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.repo = args[0]
			}
			absDir, err := filepath.Abs(opts.repo)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			if err := prepareProject(absDir, o.git); err != nil {
				return err
			}
			return runWith(opts, func(ctx context.Context, a *app, _ []string) error {
				return runInit(ctx, a, o)
			})(cmd, args)
		},
	}

	cmd.Flags().StringVar(&o.name, "name", "", "your name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&o.email, "email", "", "your email")
	cmd.Flags().StringVar(&o.currency, "currency", "", "currency code: INR, USD or EUR")
	cmd.Flags().StringVar(&o.income, "income", "0", "monthly income")
	cmd.Flags().StringVar(&o.budget, "budget", "0", "monthly spending limit")
	cmd.Flags().BoolVar(&o.starter, "starter", false, "add the starter categories")
	cmd.Flags().StringSliceVar(&o.categories, "category", nil, "custom category to add (repeatable)")
	cmd.Flags().BoolVar(&o.git, "git", false, "keep a git history of the ledger")

	return cmd
}

// prepareProject creates the directory layout and a default tally.yaml.
func prepareProject(dir string, git bool) error {
	for _, d := range []string{"logs", "import", filepath.Join("import", "processed")} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	path := filepath.Join(dir, config.FileName)
	cfg, err := config.Load(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		cfg = config.Default()
	case err != nil:
		return err
	}
	if git {
		cfg.Git.AutoCommit = true
	}
	if err := config.Save(path, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(".env\n"), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	if git && !gitops.IsRepo(dir) {
		if err := gitops.Init(dir); err != nil {
			return err
		}
	}
	return nil
}

func runInit(ctx context.Context, a *app, o initOptions) error {
	if a.state().UI.IsSetupComplete {
		return fmt.Errorf("ledger at %s is already set up", a.root)
	}

	income, err := parseDecimal("income", o.income)
	if err != nil {
		return err
	}
	budget, err := parseDecimal("budget", o.budget)
	if err != nil {
		return err
	}

	rec := persist.SetupRecord{
		Profile: persist.SetupProfile{
			Name:          o.name,
			Email:         o.email,
			Currency:      o.currency,
			MonthlyIncome: income,
		},
		Budget: budget,
	}
	if o.starter {
		for _, tpl := range categories.Starter() {
			rec.Categories = append(rec.Categories, model.Category{
				Name:        tpl.Name,
				Icon:        tpl.Icon,
				Budget:      tpl.Budget,
				Description: tpl.Description,
			})
		}
	}
	for _, name := range o.categories {
		rec.CustomCategories = append(rec.CustomCategories, model.Category{Name: name, Budget: decimal.Zero})
	}

	if err := a.store.SaveSetup(ctx, rec); err != nil {
		return err
	}
	if err := a.dispatch(ctx, rec.Action()); err != nil {
		return err
	}

	s := a.state()
	fmt.Fprintf(a.out, "Initialized tally ledger at %s (%d categories)\n", a.root, len(s.Categories))
	return nil
}
