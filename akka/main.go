// Command akka manages a crypto portfolio session from the command line.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/akka/cmd"
	"github.com/etnz/akka/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	cmd.Register(commander)

	// Handles COMP_LINE when invoked by the shell, and exits.
	completion(commander).Complete("akka")

	flag.Parse()

	// Unknown subcommands are looked up as akka-<subcommand> in PATH.
	if name := flag.Arg(0); name != "" && !registered(commander, name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

func registered(c *subcommands.Commander, name string) bool {
	found := false
	c.VisitCommands(func(_ *subcommands.CommandGroup, sc subcommands.Command) {
		if sc.Name() == name {
			found = true
		}
	})
	return found
}

// completion describes the command line for shell completion, from the
// registered subcommands and their flags.
func completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flags(flag.CommandLine),
	}
	symbols := predict.Set(cmd.Symbols())
	c.VisitCommands(func(_ *subcommands.CommandGroup, sc subcommands.Command) {
		fs := flag.NewFlagSet(sc.Name(), flag.ContinueOnError)
		sc.SetFlags(fs)
		sub := &complete.Command{Flags: flags(fs)}
		if _, ok := sub.Flags["s"]; ok {
			sub.Flags["s"] = symbols
		}
		switch sc.Name() {
		case "topic":
			sub.Args = predict.Set(docs.All())
		case "swap":
			// elsewhere -from and -to name counterparties.
			sub.Flags["from"], sub.Flags["to"] = symbols, symbols
		}
		root.Sub[sc.Name()] = sub
	})
	return root
}

func flags(fs *flag.FlagSet) map[string]complete.Predictor {
	m := map[string]complete.Predictor{}
	fs.VisitAll(func(f *flag.Flag) {
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			m[f.Name] = predict.Nothing
			return
		}
		m[f.Name] = predict.Something
	})
	return m
}
