package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/cristianoliveira/commandflow/cmd"
	"github.com/spf13/cobra"
)

type suggestClient interface {
	Suggestions(tokens []string) ([]string, error)
	SuggestionsLine(line string) ([]string, error)
}

const suggestCommandLong = `Print completions for the last token of a command line, one per line.

An empty last argument asks for completions of the next token.

USAGE:
    commandflow suggest <token...>
    commandflow suggest --line "<command line>"

EXAMPLES:
    # Complete a command label
    commandflow suggest gr

    # Complete the next argument of calc round
    commandflow suggest calc round 2.5 ""

    # Trailing whitespace in --line means the next token
    commandflow suggest --line "config "`

// NewSuggestCmd creates the suggest command with explicit dependencies.
func NewSuggestCmd(client suggestClient) *cobra.Command {
	if client == nil {
		panic("NewSuggestCmd: client dependency cannot be nil")
	}

	var line bool
	suggestCmd := &cobra.Command{
		Use:   "suggest <token...>",
		Short: "Complete the last token of a command line",
		Long:  suggestCommandLong,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggest(client, cmd.OutOrStdout(), args, line)
		},
	}
	suggestCmd.Flags().BoolVar(&line, "line", false, "Tokenize the arguments as one command line")
	suggestCmd.Flags().SetInterspersed(false)
	return suggestCmd
}

func runSuggest(client suggestClient, w io.Writer, args []string, line bool) error {
	var (
		suggestions []string
		err         error
	)
	if line {
		suggestions, err = client.SuggestionsLine(strings.Join(args, " "))
	} else {
		if len(args) == 0 {
			args = []string{""}
		}
		suggestions, err = client.Suggestions(args)
	}
	if err != nil {
		return fmt.Errorf("suggest: %w", err)
	}
	for _, s := range suggestions {
		fmt.Fprintln(w, s)
	}
	return nil
}

func init() {
	cmd.RootCmd.AddCommand(NewSuggestCmd(app))
}
