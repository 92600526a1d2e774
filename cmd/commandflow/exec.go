package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cristianoliveira/commandflow/cmd"
	"github.com/cristianoliveira/commandflow/internal/hint"
	"github.com/spf13/cobra"
)

type execClient interface {
	Execute(ctx context.Context, out io.Writer, tokens []string) (bool, error)
	ExecuteLine(ctx context.Context, out io.Writer, line string) (bool, error)
	Tokenize(line string) ([]string, error)
	Hints(token string) []string
}

const execCommandLong = `Dispatch one command line through the catalog.

Each argument is one token. With --line the single argument is split by
the configured tokenizer instead, so quoting works as in the shell.

USAGE:
    commandflow exec <token...>
    commandflow exec --line "<command line>"

EXAMPLES:
    # Run a command with arguments
    commandflow exec greet bob 2

    # Let the tokenizer split a quoted line
    commandflow exec --line 'repeat 2 "hello there"'`

// NewExecCmd creates the exec command with explicit dependencies.
func NewExecCmd(client execClient) *cobra.Command {
	if client == nil {
		panic("NewExecCmd: client dependency cannot be nil")
	}

	var line bool
	execCmd := &cobra.Command{
		Use:   "exec <token...>",
		Short: "Dispatch one command line",
		Long:  execCommandLong,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd.Context(), client, cmd.OutOrStdout(), args, line)
		},
	}
	execCmd.Flags().BoolVar(&line, "line", false, "Tokenize the arguments as one command line")
	// Flags after the command label belong to the dispatched command.
	execCmd.Flags().SetInterspersed(false)
	return execCmd
}

func runExec(ctx context.Context, client execClient, out io.Writer, args []string, line bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var (
		ok     bool
		err    error
		joined = strings.Join(args, " ")
	)
	if line {
		ok, err = client.ExecuteLine(ctx, out, joined)
	} else {
		ok, err = client.Execute(ctx, out, args)
	}
	if err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	if !ok {
		token := args[0]
		if line {
			if tokens, tokErr := client.Tokenize(joined); tokErr == nil && len(tokens) > 0 {
				token = tokens[0]
			}
		}
		return fmt.Errorf("exec: %s", hint.Message(token, client.Hints(token)))
	}
	return nil
}

func init() {
	cmd.RootCmd.AddCommand(NewExecCmd(app))
}
