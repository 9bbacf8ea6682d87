package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/categories"
	"github.com/cleared-dev/tally/internal/importer"
	"github.com/cleared-dev/tally/internal/persist"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	var format, output string
	var minimal bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a backup of the ledger",
		Long: `Write a backup of the ledger as JSON or as a transactions CSV.

The JSON backup can be restored with "tally import". With --minimal only
preferences, categories and the budget are written.`,
		Args: cobra.NoArgs,
		RunE: runWith(opts, func(_ context.Context, a *app, _ []string) error {
			w := a.out
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			if err := writeExport(w, a, format, minimal); err != nil {
				return err
			}
			if output != "" && output != "-" {
				fmt.Fprintf(a.errOut, "Exported to %s\n", output)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&format, "format", "json", "json or csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&minimal, "minimal", false, "omit transactions, goals, analytics and UI state")
	return cmd
}

func writeExport(w io.Writer, a *app, format string, minimal bool) error {
	s := a.state()
	switch format {
	case "json":
		sections := persist.FullExport
		if minimal {
			sections = persist.ExportOptions{}
		}
		return persist.WriteExport(w, persist.Export(s, a.store.Now(), sections))
	case "csv":
		return importer.WriteTransactions(w, s.Transactions, categories.NewIndex(s.Categories))
	default:
		return fmt.Errorf("unknown export format %q: want json or csv", format)
	}
}
