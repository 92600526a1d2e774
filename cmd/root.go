// Package cmd holds the root cobra command shared by the commandflow binary.
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/cristianoliveira/commandflow/internal/version"
	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:           "commandflow",
	Short:         "Dispatch command lines through a catalog of typed commands.",
	Long:          `Dispatch command lines through a catalog of typed commands.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// commandOrder is the order subcommands appear in the help text.
var commandOrder = []string{
	"exec",
	"suggest",
	"shell",
	"commands",
	"history",
	"help",
	"version",
}

// Execute runs the root command. Errors are returned for the caller to report.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.Version = version.String()
	RootCmd.SetVersionTemplate("commandflow version {{.Version}}\n")
	RootCmd.CompletionOptions.HiddenDefaultCmd = true
	RootCmd.PersistentFlags().String("catalog", "", "Path to a TOML command catalog")

	RootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != cmd.Root() {
			fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
			return
		}
		printHelpText(cmd.OutOrStdout(), cmd)
	})
}

func printHelpText(w io.Writer, root *cobra.Command) {
	var cmdLines []string
	for _, name := range commandOrder {
		var found *cobra.Command
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = c
				break
			}
		}
		if found == nil {
			continue
		}
		cmdLines = append(cmdLines, fmt.Sprintf("    %-22s %s", found.Use, found.Short))
	}

	fmt.Fprintf(w, `commandflow %s

Dispatch command lines through a catalog of typed commands.

USAGE:
    commandflow [COMMAND] [OPTIONS]

COMMANDS:
%s

OPTIONS:
    --catalog PATH  Load commands from a TOML catalog
    -h, --help      Show help message
`, root.Version, strings.Join(cmdLines, "\n"))
}
