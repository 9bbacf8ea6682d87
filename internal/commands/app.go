package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/activitylog"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/gitops"
	"github.com/cleared-dev/tally/internal/logging"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/reducer"
	"github.com/cleared-dev/tally/internal/storage"
	"github.com/cleared-dev/tally/internal/store"
)

// app is one CLI invocation against an opened ledger.
type app struct {
	root   string
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
	out    io.Writer
	errOut io.Writer
	events []store.Event
}

// runWith opens the ledger, runs fn and closes the ledger again.
func runWith(opts *rootOptions, fn func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, opts)
		if err != nil {
			return err
		}
		err = fn(cmd.Context(), a, args)
		return errors.Join(err, a.close())
	}
}

func openApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	root, err := filepath.Abs(opts.repo)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := loadConfig(root)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Logging.Format = opts.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if _, err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr()); err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	st, err := storage.Open(ctx, cfg.StorageOptions(root))
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	a := &app{
		root:   root,
		cfg:    cfg,
		logger: logging.For(logging.ComponentCLI),
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
	}
	a.store = store.Open(ctx, st,
		store.WithLogger(slog.Default()),
		store.OnDispatch(func(ev store.Event) { a.events = append(a.events, ev) }),
	)
	return a, nil
}

// loadConfig reads tally.yaml from root, falling back to the defaults, and
// applies environment overrides.
func loadConfig(root string) (*config.Config, error) {
	cfg, err := config.Load(filepath.Join(root, config.FileName))
	switch {
	case errors.Is(err, os.ErrNotExist):
		cfg = config.Default()
	case err != nil:
		return nil, err
	}
	if err := config.ApplyEnv(cfg, root); err != nil {
		return nil, err
	}
	return cfg, nil
}

// state returns a snapshot of the ledger.
func (a *app) state() model.State {
	return a.store.State()
}

// today is the ledger's current day.
func (a *app) today() model.Date {
	return model.DateOf(a.store.Now())
}

// dispatch applies actions in order and prints any budget alert they raise.
func (a *app) dispatch(ctx context.Context, actions ...reducer.Action) error {
	before := a.state().Notifications
	seen := make(map[model.ID]bool, len(before))
	for _, n := range before {
		seen[n.ID] = true
	}

	err := a.store.DispatchAll(ctx, actions...)

	after := a.state().Notifications
	for i := len(after) - 1; i >= 0; i-- {
		n := after[i]
		if seen[n.ID] || n.Category != model.NotifyBudget {
			continue
		}
		fmt.Fprintf(a.errOut, "%s: %s\n", n.Type, n.Message)
	}
	return err
}

// close writes the activity log, commits history and releases storage.
func (a *app) close() error {
	var applied []string
	entries := make([]activitylog.Entry, 0, len(a.events))
	for _, ev := range a.events {
		e := activitylog.Entry{Timestamp: ev.Time, Action: ev.Action, Outcome: activitylog.OutcomeApplied}
		if ev.Err != nil {
			e.Outcome = activitylog.OutcomeRejected
			e.Details = ev.Err.Error()
		} else {
			applied = append(applied, ev.Action)
		}
		entries = append(entries, e)
	}

	if a.cfg.ActivityLog && len(entries) > 0 {
		if err := activitylog.Append(a.root, entries); err != nil {
			a.logger.Warn("writing activity log", "error", err)
		}
	}

	if a.cfg.Git.AutoCommit && len(applied) > 0 && gitops.IsRepo(a.root) {
		author := gitops.Author{Name: a.cfg.Git.AuthorName, Email: a.cfg.Git.AuthorEmail}
		if _, err := gitops.Commit(a.root, "tally: "+strings.Join(applied, ", "), author); err != nil {
			a.logger.Warn("committing history", "error", err)
		}
	}

	return a.store.Close()
}
