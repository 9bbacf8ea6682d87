package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/reducer"
)

func newNotificationsCommand(opts *rootOptions) *cobra.Command {
	nCmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notification"},
		Short:   "Read and clear notifications",
	}
	nCmd.AddCommand(
		newNotificationsListCommand(opts),
		newNotificationsReadCommand(opts),
		newNotificationsClearCommand(opts),
	)
	return nCmd
}

func newNotificationsListCommand(opts *rootOptions) *cobra.Command {
	var unread bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications, newest first",
		Args:  cobra.NoArgs,
		RunE: runWith(opts, func(_ context.Context, a *app, _ []string) error {
			s := a.state()
			tw := newTable(a.out)
			fmt.Fprintln(tw, "ID\tWHEN\tTYPE\tCATEGORY\tREAD\tMESSAGE")
			for _, n := range s.Notifications {
				if unread && n.Read {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\t%s\n",
					n.ID, n.Timestamp.Local().Format("2006-01-02 15:04"), n.Type, n.Category, n.Read, n.Message)
			}
			return tw.Flush()
		}),
	}
	cmd.Flags().BoolVar(&unread, "unread", false, "only unread notifications")
	return cmd
}

func newNotificationsReadCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "read [id]...",
		Short: "Mark notifications read; all of them when no id is given",
		RunE: runWith(opts, func(ctx context.Context, a *app, args []string) error {
			if len(args) == 0 {
				return a.dispatch(ctx, reducer.MarkAllNotificationsRead{})
			}
			read := true
			actions := make([]reducer.Action, len(args))
			for i, arg := range args {
				actions[i] = reducer.UpdateNotification{ID: model.ID(arg), Read: &read}
			}
			return a.dispatch(ctx, actions...)
		}),
	}
}

func newNotificationsClearCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear [id]...",
		Short: "Delete notifications; all of them when no id is given",
		RunE: runWith(opts, func(ctx context.Context, a *app, args []string) error {
			if len(args) == 0 {
				return a.dispatch(ctx, reducer.ClearNotifications{})
			}
			actions := make([]reducer.Action, len(args))
			for i, arg := range args {
				actions[i] = reducer.DeleteNotification{ID: model.ID(arg)}
			}
			return a.dispatch(ctx, actions...)
		}),
	}
}
