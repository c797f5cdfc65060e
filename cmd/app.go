// Package cmd implements the akka command line application.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/akka"
	"github.com/etnz/akka/cmc"
	"github.com/etnz/akka/config"
	"github.com/etnz/akka/session"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&holdingCmd{}, "reports")
	c.Register(&txCmd{}, "reports")
	c.Register(&pricesCmd{}, "reports")
	c.Register(&trendingCmd{}, "reports")

	c.Register(&buyCmd{}, "operations")
	c.Register(&sellCmd{}, "operations")
	c.Register(&sendCmd{}, "operations")
	c.Register(&receiveCmd{}, "operations")
	c.Register(&depositCmd{}, "operations")
	c.Register(&swapCmd{}, "operations")

	c.Register(&serveCmd{}, "")
	c.Register(&assistCmd{}, "")
	c.Register(&topicCmd{}, "")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	sessionID  = flag.String("session", "", "Session to operate on. Defaults to $AKKA_SESSION_ID.")
	sessionDir = flag.String("session-dir", "", "Folder storing file sessions. Defaults to $AKKA_SESSION_DIR.")
	redisURL   = flag.String("redis", "", "Redis URL storing sessions instead of files. Defaults to $AKKA_REDIS_URL.")
	demo       = flag.Bool("demo", false, "Seed a new session with the demo account.")
	Verbose    = flag.Bool("v", false, "Verbose logging.")
)

// settings returns the configuration from the environment, overridden by the
// global flags.
func settings() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if *sessionID != "" {
		cfg.SessionID = *sessionID
	}
	if *sessionDir != "" {
		cfg.SessionDir = *sessionDir
	}
	if *redisURL != "" {
		cfg.RedisURL = *redisURL
	}
	return cfg, nil
}

// newLogger returns a console logger on stderr.
func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if *Verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()
}

// openStore returns the session store selected by the configuration.
func openStore(cfg config.Config) (session.Store, error) {
	if cfg.RedisURL != "" {
		return session.NewRedisStore(cfg.RedisURL, cfg.SessionTTL)
	}
	return session.FileStore{Dir: cfg.SessionDir}, nil
}

// app is what every command needs to work on the current session.
type app struct {
	cfg    config.Config
	log    zerolog.Logger
	store  session.Store
	prices *akka.PriceBook
	ledger *akka.Ledger
}

// openApp loads the session ledger, valued with fallback prices that are
// refreshed once when refresh is true.
func openApp(ctx context.Context, refresh bool) (*app, error) {
	cfg, err := settings()
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: newLogger(cfg), prices: akka.NewPriceBook(akka.FallbackPrices(cfg.BaseCurrency))}

	registry, err := akka.DefaultRegistry(cfg.BaseCurrency)
	if err != nil {
		return nil, err
	}
	if refresh && cfg.CMCAPIKey != "" {
		if err := a.refresher(registry).Refresh(ctx); err != nil {
			a.log.Warn().Err(err).Msg("using fallback prices")
		}
	}

	if a.store, err = openStore(cfg); err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	var seed func() akka.State
	if *demo {
		seed = func() akka.State { return akka.DemoState(cfg.BaseCurrency) }
	}
	a.ledger, err = session.Load(ctx, a.store, cfg.SessionID, registry, seed, akka.WithQuotes(a.prices))
	if err != nil {
		return nil, fmt.Errorf("load session %q: %w", cfg.SessionID, err)
	}
	return a, nil
}

// refresher returns a quote refresher fetching from CoinMarketCap. It needs
// an API key.
func (a *app) refresher(registry *akka.Registry) *akka.Refresher {
	fetcher := cmc.New(a.cfg.CMCAPIKey, registry.Base(), a.cfg.CMCRate)
	var symbols []string
	for s := range registry.Symbols() {
		symbols = append(symbols, s)
	}
	return akka.NewRefresher(a.prices, fetcher, symbols, a.log)
}

// save persists the ledger into the session.
func (a *app) save(ctx context.Context) error {
	return session.Save(ctx, a.store, a.cfg.SessionID, a.ledger)
}

func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// Symbols lists the asset symbols every session knows.
func Symbols() []string {
	symbols := make([]string, 0, len(akka.DefaultAssets))
	for _, a := range akka.DefaultAssets {
		symbols = append(symbols, a.Symbol)
	}
	return symbols
}
