// Command tb keeps a personal trade book and reports its realized P&L.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/etnz/tradebook/cmd"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	// exits when invoked by the shell to complete the command line.
	cmd.Completion(commander, flag.CommandLine).Complete(commander.Name())

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
