package main

import (
	"os"

	"github.com/cristianoliveira/commandflow/cmd"
	"github.com/cristianoliveira/commandflow/internal/colors"
	"github.com/cristianoliveira/commandflow/internal/config"
	"github.com/cristianoliveira/commandflow/internal/errors"
	"github.com/cristianoliveira/commandflow/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:], cmd.Execute))
}

// run loads configuration and logging around execute and maps its error to
// an exit code.
func run(args []string, execute func() error) int {
	config.Load()
	colors.SetDebug(config.GetBool("debug", false))
	colors.SetQuiet(config.GetBool("quiet", false))

	logCfg := logging.FromGlobalConfig()
	logCfg.Command = subcommand(args)
	if err := logging.InitGlobal(logCfg); err != nil {
		colors.Warning("logging disabled:", err.Error())
	}
	defer logging.ShutdownGlobal()
	defer app.Close()

	logging.Info("startup", "command", logCfg.Command)
	if err := execute(); err != nil {
		logging.Error("command failed", "command", logCfg.Command, "error", err.Error())
		errors.Report(errors.NewDefaultCLIHandler(), err)
		return 1
	}
	logging.Info("completed", "command", logCfg.Command)
	return 0
}

// subcommand returns the first non-flag argument, or "root".
func subcommand(args []string) string {
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "--catalog":
			i++
		case arg != "" && arg[0] != '-':
			return arg
		}
	}
	return "root"
}
