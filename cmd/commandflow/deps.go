package main

import (
	"github.com/cristianoliveira/commandflow/cmd"
)

// app backs every subcommand; the catalog path is read from the persistent
// --catalog flag once the command line is parsed.
var app = newClient(func() string {
	path, _ := cmd.RootCmd.PersistentFlags().GetString("catalog")
	return path
})
