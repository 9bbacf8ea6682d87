package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/reducer"
)

func newGoalCommand(opts *rootOptions) *cobra.Command {
	goalCmd := &cobra.Command{
		Use:     "goal",
		Aliases: []string{"goals"},
		Short:   "Keep track of savings goals",
	}
	goalCmd.AddCommand(
		newGoalAddCommand(opts),
		newGoalUpdateCommand(opts),
		newGoalDeleteCommand(opts),
		newGoalListCommand(opts),
	)
	return goalCmd
}

// parseFields turns key=value arguments into goal fields. Numbers and
// booleans keep their type; everything else is a string.
func parseFields(args []string) (map[string]any, error) {
	fields := make(map[string]any, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid field %q: want key=value", arg)
		}
		k = strings.TrimSpace(k)
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			fields[k] = f
		} else if b, err := strconv.ParseBool(v); err == nil {
			fields[k] = b
		} else {
			fields[k] = v
		}
	}
	return fields, nil
}

func newGoalAddCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "add key=value...",
		Short:   "Add a goal",
		Example: "  tally goal add title=Laptop target=90000 deadline=2026-03-01",
		Args:    cobra.MinimumNArgs(1),
		RunE: runWith(opts, func(ctx context.Context, a *app, args []string) error {
			fields, err := parseFields(args)
			if err != nil {
				return err
			}
			if err := a.dispatch(ctx, reducer.AddGoal{Fields: fields}); err != nil {
				return err
			}
			goals := a.state().Goals
			fmt.Fprintf(a.out, "Added goal %s\n", goals[len(goals)-1].ID)
			return nil
		}),
	}
}

func newGoalUpdateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update <id> key=value...",
		Short: "Set fields of a goal",
		Args:  cobra.MinimumNArgs(2),
		RunE: runWith(opts, func(ctx context.Context, a *app, args []string) error {
			fields, err := parseFields(args[1:])
			if err != nil {
				return err
			}
			return a.dispatch(ctx, reducer.UpdateGoal{ID: model.ID(args[0]), Fields: fields})
		}),
	}
}

func newGoalDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a goal",
		Args:  cobra.ExactArgs(1),
		RunE: runWith(opts, func(ctx context.Context, a *app, args []string) error {
			return a.dispatch(ctx, reducer.DeleteGoal{ID: model.ID(args[0])})
		}),
	}
}

func newGoalListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List goals",
		Args:  cobra.NoArgs,
		RunE: runWith(opts, func(_ context.Context, a *app, _ []string) error {
			tw := newTable(a.out)
			fmt.Fprintln(tw, "ID\tFIELDS")
			for _, g := range a.state().Goals {
				var parts []string
				for _, k := range slices.Sorted(maps.Keys(g.Fields)) {
					v, _ := json.Marshal(g.Fields[k])
					parts = append(parts, k+"="+string(v))
				}
				fmt.Fprintf(tw, "%s\t%s\n", g.ID, strings.Join(parts, " "))
			}
			return tw.Flush()
		}),
	}
}
