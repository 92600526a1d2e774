package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cristianoliveira/commandflow/cmd"
	"github.com/cristianoliveira/commandflow/pkg/flow"
	"github.com/spf13/cobra"
)

type commandsClient interface {
	Commands() ([]*flow.Command, error)
}

// commandInfo is the JSON shape of one catalog command.
type commandInfo struct {
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases,omitempty"`
	Usage       string   `json:"usage"`
	Permission  string   `json:"permission,omitempty"`
	Description string   `json:"description,omitempty"`
}

// NewCommandsCmd creates the commands command with explicit dependencies.
func NewCommandsCmd(client commandsClient) *cobra.Command {
	if client == nil {
		panic("NewCommandsCmd: client dependency cannot be nil")
	}

	var format string
	commandsCmd := &cobra.Command{
		Use:   "commands",
		Short: "List the catalog commands you may run",
		Long: `List the catalog commands the configured permissions allow, with their
aliases, argument syntax and description.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			commands, err := client.Commands()
			if err != nil {
				return fmt.Errorf("commands: %w", err)
			}
			return printCommands(cmd.OutOrStdout(), commands, format)
		},
	}
	commandsCmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")
	return commandsCmd
}

func describe(c *flow.Command) commandInfo {
	usage := c.Name()
	if args := flow.RenderPart(c.Part()); args != "" {
		usage += " " + args
	}
	return commandInfo{
		Name:        c.Name(),
		Aliases:     c.Aliases(),
		Usage:       usage,
		Permission:  c.Permission(),
		Description: c.Description(),
	}
}

func printCommands(w io.Writer, commands []*flow.Command, format string) error {
	infos := make([]commandInfo, 0, len(commands))
	for _, c := range commands {
		infos = append(infos, describe(c))
	}

	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	case "table", "":
	default:
		return fmt.Errorf("commands: unknown format %q", format)
	}

	if len(infos) == 0 {
		fmt.Fprintln(w, "No commands available")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tALIASES\tUSAGE\tPERMISSION\tDESCRIPTION")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			info.Name,
			dash(strings.Join(info.Aliases, ",")),
			info.Usage,
			dash(info.Permission),
			info.Description)
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	cmd.RootCmd.AddCommand(NewCommandsCmd(app))
}
