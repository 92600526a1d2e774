package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/cristianoliveira/commandflow/cmd"
	"github.com/cristianoliveira/commandflow/internal/colors"
	"github.com/cristianoliveira/commandflow/internal/history"
	"github.com/spf13/cobra"
)

type historyClient interface {
	Recent(ctx context.Context, limit int) ([]history.Entry, error)
	ClearHistory(ctx context.Context) (int64, error)
}

const historyCommandLong = `Show recently dispatched command lines, newest first.

USAGE:
    commandflow history [OPTIONS]

OPTIONS:
    --limit <n>    Number of entries to show (default 20)
    --clear        Delete every recorded entry

EXAMPLES:
    # Show the last five dispatches
    commandflow history --limit 5

    # Forget everything
    commandflow history --clear`

// NewHistoryCmd creates the history command with explicit dependencies.
func NewHistoryCmd(client historyClient) *cobra.Command {
	if client == nil {
		panic("NewHistoryCmd: client dependency cannot be nil")
	}

	var (
		limit    int
		clearAll bool
	)
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently dispatched command lines",
		Long:  historyCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if clearAll {
				n, err := client.ClearHistory(ctx)
				if err != nil {
					return fmt.Errorf("history: %w", err)
				}
				colors.Success(fmt.Sprintf("removed %d history entries", n))
				return nil
			}
			if limit <= 0 {
				return fmt.Errorf("history: --limit must be positive, got %d", limit)
			}
			entries, err := client.Recent(ctx, limit)
			if err != nil {
				return fmt.Errorf("history: %w", err)
			}
			return printHistory(cmd.OutOrStdout(), entries)
		},
	}
	historyCmd.Flags().IntVar(&limit, "limit", 20, "Number of entries to show")
	historyCmd.Flags().BoolVar(&clearAll, "clear", false, "Delete every recorded entry")
	return historyCmd
}

func printHistory(w io.Writer, entries []history.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No history")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tOUTCOME\tLINE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.ID, e.Timestamp.Local().Format(time.DateTime), e.Outcome, e.Line)
	}
	return tw.Flush()
}

func init() {
	cmd.RootCmd.AddCommand(NewHistoryCmd(app))
}
