package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/akka/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd is the subcommand for the AI assistant.
type assistCmd struct {
	model string
}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "start an interactive session with the AI assistant" }
func (*assistCmd) Usage() string {
	return `akka assist [-m <model>] [question...]

  Starts an interactive session with an assistant that can read the session's
  holdings, transactions and prices. It never changes the ledger.
  Requires GEMINI_API_KEY (or GOOGLE_API_KEY) in the environment.
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.model, "m", "", "Gemini model. Defaults to $GEMINI_MODEL.")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var prompts []string
	if f.NArg() > 0 {
		prompts = append(prompts, strings.Join(f.Args(), " "))
	}

	a, err := openApp(ctx, true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	model := a.cfg.GeminiModel
	if c.model != "" {
		model = c.model
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	tools := append(agent.PortfolioTools(a.ledger.Snapshot, a.prices), agent.DocumentationTool())
	assistant := agent.New(os.Stdout, os.Stdin, model, agent.NewTrader(model), agent.NewAccountant(model, tools))
	assistant.Render = func(md string) string {
		out, err := glamour.Render(md, "auto")
		if err != nil {
			return md
		}
		return out
	}

	if err := assistant.Run(ctx, client, prompts...); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
