package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/importer"
	"github.com/cleared-dev/tally/internal/persist"
	"github.com/cleared-dev/tally/internal/reducer"
)

func newImportCommand(opts *rootOptions) *cobra.Command {
	var format string
	var withPrefs, inbox bool

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a backup or a bank statement",
		Long: `Import a JSON backup written by "tally export", or a CSV of transactions.

CSV formats: ` + strings.Join(importer.DefaultRegistry().Formats(), ", ") + `.
With --inbox every CSV in the import/ directory is imported and moved to
import/processed/.`,
		Args: cobra.MaximumNArgs(1),
	}
	cmd.RunE = runWith(opts, func(ctx context.Context, a *app, args []string) error {
		switch {
		case inbox && len(args) > 0:
			return errors.New("--inbox takes no file argument")
		case inbox:
			if !cmd.Flags().Changed("format") {
				format = "tally"
			}
			return importInbox(ctx, a, format)
		case len(args) == 0:
			return errors.New("a file to import is required")
		}

		path := args[0]
		if !cmd.Flags().Changed("format") && strings.EqualFold(filepath.Ext(path), ".csv") {
			format = "tally"
		}
		if format == "json" {
			return importBackup(ctx, a, path, withPrefs)
		}
		n, err := importCSV(ctx, a, path, format)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Imported %d transactions\n", n)
		return nil
	})

	cmd.Flags().StringVar(&format, "format", "json", "json, tally or chase")
	cmd.Flags().BoolVar(&withPrefs, "with-preferences", false, "also apply preferences from a JSON backup")
	cmd.Flags().BoolVar(&inbox, "inbox", false, "import every CSV waiting in import/")
	return cmd
}

func importBackup(ctx context.Context, a *app, path string, withPrefs bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	imp, err := persist.ParseImport(f)
	if err != nil {
		return err
	}

	actions := []reducer.Action{imp.Data}
	if withPrefs && imp.Preferences != nil {
		actions = append(actions, reducer.UpdatePreferences{Patch: *imp.Preferences})
	}
	for _, g := range imp.Goals {
		actions = append(actions, reducer.AddGoal{Fields: g.Fields})
	}
	if err := a.dispatch(ctx, actions...); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Imported %d transactions, %d categories, %d goals\n",
		len(imp.Data.Transactions), len(imp.Data.Categories), len(imp.Goals))
	return nil
}

func importCSV(ctx context.Context, a *app, path, format string) (int, error) {
	p := importer.DefaultRegistry().Get(format)
	if p == nil {
		return 0, fmt.Errorf("unknown import format %q", format)
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	txns, err := p.Parse(f)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	if len(txns) == 0 {
		return 0, nil
	}
	if err := a.dispatch(ctx, reducer.ImportData{Transactions: txns}); err != nil {
		return 0, err
	}
	return len(txns), nil
}

// importInbox imports each waiting CSV on its own so one bad file does not
// hold back the rest.
func importInbox(ctx context.Context, a *app, format string) error {
	files, err := importer.Scan(a.root)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(a.out, "Nothing to import")
		return nil
	}

	var errs []error
	total := 0
	for _, file := range files {
		n, err := importCSV(ctx, a, file.Path, format)
		if err != nil {
			a.logger.Warn("import failed", "file", file.Name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", file.Name, err))
			continue
		}
		if err := importer.MarkProcessed(a.root, file.Name); err != nil {
			errs = append(errs, err)
			continue
		}
		a.logger.Info("imported file", "file", file.Name, "transactions", n)
		fmt.Fprintf(a.out, "%s: %d transactions\n", file.Name, n)
		total += n
	}
	fmt.Fprintf(a.out, "Imported %d transactions\n", total)
	return errors.Join(errs...)
}
