package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/akka"
	"github.com/etnz/akka/server"
	"github.com/google/subcommands"
)

type serveCmd struct {
	addr     string
	passcode string
	schedule string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the session over a JSON HTTP API" }
func (*serveCmd) Usage() string {
	return `akka serve [-addr <host:port>] [-passcode <code>] [-schedule <cron>]

  Serves the session ledger over HTTP and refreshes prices in the background
  when COINMARKETCAP_API_KEY is set. Every operation is saved to the session.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address. Defaults to $AKKA_HTTP_ADDR.")
	f.StringVar(&c.passcode, "passcode", "", "Passcode required in the "+server.PasscodeHeader+" header. Defaults to $AKKA_PASSCODE.")
	f.StringVar(&c.schedule, "schedule", "", "Price refresh schedule. Defaults to $AKKA_QUOTE_SCHEDULE.")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if c.addr != "" {
		a.cfg.HTTPAddr = c.addr
	}
	if c.passcode != "" {
		a.cfg.Passcode = c.passcode
	}
	if c.schedule != "" {
		a.cfg.QuoteSchedule = c.schedule
	}

	if a.cfg.CMCAPIKey != "" {
		refresher := a.refresher(a.ledger.Registry())
		if err := refresher.Start(a.cfg.QuoteSchedule); err != nil {
			fmt.Fprintf(os.Stderr, "Error scheduling price refresh %q: %v\n", a.cfg.QuoteSchedule, err)
			return subcommands.ExitUsageError
		}
		defer refresher.Stop()
	} else {
		a.log.Warn().Msg("COINMARKETCAP_API_KEY is not set, serving fallback prices")
	}

	srv := server.New(server.Config{
		Addr:     a.cfg.HTTPAddr,
		Passcode: a.cfg.Passcode,
		Log:      a.log,
		Ledger:   a.ledger,
		Prices:   a.prices,
		Persist: func(ctx context.Context, _ *akka.Ledger) error {
			return a.save(ctx)
		},
	})

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			a.log.Error().Err(err).Msg("server failed")
			return subcommands.ExitFailure
		}
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		a.log.Error().Err(err).Msg("shutdown failed")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
