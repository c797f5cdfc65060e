package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/akka/docs"
	"github.com/google/subcommands"
)

type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "read the documentation" }
func (*topicCmd) Usage() string {
	return `akka topic [<topic>...]

  Without argument, lists the topics. '*' displays them all.
`
}
func (*topicCmd) SetFlags(f *flag.FlagSet) {}

func (*topicCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	names := f.Args()
	if len(names) == 0 {
		names = []string{"readme"}
	}
	md, err := docs.Topics(names...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
