package akka

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultQuoteSchedule is the cadence at which quotes are refreshed.
const DefaultQuoteSchedule = "@every 30s"

// Fetcher retrieves the latest unit prices of symbols. It may return a
// partial set.
type Fetcher interface {
	Fetch(ctx context.Context, symbols []string) (Prices, error)
}

// QuoteFetcher is a Fetcher that also reports market data. The Refresher
// prefers it when available.
type QuoteFetcher interface {
	FetchQuotes(ctx context.Context, symbols []string) ([]Quote, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, symbols []string) (Prices, error)

func (f FetcherFunc) Fetch(ctx context.Context, symbols []string) (Prices, error) {
	return f(ctx, symbols)
}

// Refresher periodically fetches quotes into a PriceBook. It is independent
// of the ledger: a failed fetch is logged and the book keeps its previous
// prices.
type Refresher struct {
	book    *PriceBook
	fetcher Fetcher
	symbols []string
	timeout time.Duration
	log     zerolog.Logger

	cron *cron.Cron
	mu   sync.Mutex // serializes refreshes
	ctx  context.Context
	stop context.CancelFunc
}

// NewRefresher creates a refresher for symbols.
func NewRefresher(book *PriceBook, fetcher Fetcher, symbols []string, log zerolog.Logger) *Refresher {
	ctx, stop := context.WithCancel(context.Background())
	return &Refresher{
		book:    book,
		fetcher: fetcher,
		symbols: symbols,
		timeout: 10 * time.Second,
		log:     log.With().Str("component", "quotes").Logger(),
		cron:    cron.New(cron.WithSeconds()),
		ctx:     ctx,
		stop:    stop,
	}
}

// Refresh fetches quotes once and updates the book on success.
func (r *Refresher) Refresh(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if qf, ok := r.fetcher.(QuoteFetcher); ok {
		quotes, err := qf.FetchQuotes(ctx, r.symbols)
		if err != nil {
			r.log.Warn().Err(err).Msg("quote refresh failed, keeping previous prices")
			return err
		}
		r.book.UpdateQuotes(quotes, time.Now())
		r.log.Debug().Int("prices", len(quotes)).Msg("quotes refreshed")
		return nil
	}

	prices, err := r.fetcher.Fetch(ctx, r.symbols)
	if err != nil {
		r.log.Warn().Err(err).Msg("quote refresh failed, keeping previous prices")
		return err
	}
	r.book.Update(prices, time.Now())
	r.log.Debug().Int("prices", len(prices)).Msg("quotes refreshed")
	return nil
}

// Start refreshes once, then on schedule (a cron spec, e.g. "@every 30s").
func (r *Refresher) Start(schedule string) error {
	_, err := r.cron.AddFunc(schedule, func() {
		_ = r.Refresh(r.ctx)
	})
	if err != nil {
		return err
	}
	go func() { _ = r.Refresh(r.ctx) }()
	r.cron.Start()
	r.log.Info().Str("schedule", schedule).Msg("quote refresher started")
	return nil
}

// Stop cancels any fetch in flight and waits for running jobs to return.
func (r *Refresher) Stop() {
	r.stop()
	<-r.cron.Stop().Done()
	r.log.Info().Msg("quote refresher stopped")
}
