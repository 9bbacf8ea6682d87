package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/buildinfo"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	repo      string
	logLevel  string
	logFormat string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "tally",
		Short:   "Personal expense tracker",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.repo, "repo", ".", "ledger project directory")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&opts.logFormat, "log-format", "", "log format: text or json")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newTxCommand(opts),
		newCategoryCommand(opts),
		newBudgetCommand(opts),
		newNotificationsCommand(opts),
		newGoalCommand(opts),
		newPrefsCommand(opts),
		newReportCommand(opts),
		newExportCommand(opts),
		newImportCommand(opts),
		newRefreshCommand(opts),
		newResetCommand(opts),
		newLogCommand(opts),
	)

	return rootCmd
}
