package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/commandflow/cmd"
	"github.com/cristianoliveira/commandflow/internal/shell"
	"github.com/spf13/cobra"
)

type shellClient interface {
	Shell(ctx context.Context) (*shell.Model, error)
}

// runShellFunc starts the program; replaced in tests.
var runShellFunc = shell.Run

// NewShellCmd creates the shell command with explicit dependencies.
func NewShellCmd(client shellClient) *cobra.Command {
	if client == nil {
		panic("NewShellCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive shell",
		Long: `Start an interactive prompt over the command catalog.

Tab completes the current token, Enter dispatches the line, up and down
browse history and ctrl+c quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			model, err := client.Shell(ctx)
			if err != nil {
				return fmt.Errorf("shell: %w", err)
			}
			return runShellFunc(ctx, model, tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))
		},
	}
}

func init() {
	cmd.RootCmd.AddCommand(NewShellCmd(app))
}
