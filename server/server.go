// Package server exposes a ledger over a JSON HTTP API.
package server

import (
	"context"
	"crypto/subtle"
	"net/http"
	"sync"
	"time"

	"github.com/etnz/akka"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// PasscodeHeader carries the passcode on every API request.
const PasscodeHeader = "X-Akka-Passcode"

// Config holds server configuration
type Config struct {
	Addr     string
	Passcode string // empty disables the gate
	Log      zerolog.Logger
	Ledger   *akka.Ledger
	Prices   *akka.PriceBook

	// Persist is called after every successful operation, typically to save
	// the session. Calls never overlap. It may be nil.
	Persist func(ctx context.Context, l *akka.Ledger) error
}

// Server represents the HTTP server
type Server struct {
	router   *chi.Mux
	server   *http.Server
	log      zerolog.Logger
	ledger   *akka.Ledger
	prices   *akka.PriceBook
	passcode string
	persist  func(ctx context.Context, l *akka.Ledger) error

	persistMu sync.Mutex
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		log:      cfg.Log.With().Str("component", "server").Logger(),
		ledger:   cfg.Ledger,
		prices:   cfg.Prices,
		passcode: cfg.Passcode,
		persist:  cfg.Persist,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(30 * time.Second))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", PasscodeHeader},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.passcodeMiddleware)

		r.Get("/portfolio", s.handlePortfolio)
		r.Get("/transactions", s.handleTransactions)
		r.Get("/prices", s.handlePrices)
		r.Get("/trending", s.handleTrending)

		r.Post("/buy", s.handleBuy)
		r.Post("/sell", s.handleSell)
		r.Post("/send", s.handleSend)
		r.Post("/receive", s.handleReceive)
		r.Post("/deposit", s.handleDeposit)
		r.Post("/swap", s.handleSwap)
	})
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler { return s.router }

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Bool("passcode", s.passcode != "").Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

// passcodeMiddleware rejects requests without the configured passcode.
func (s *Server) passcodeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.passcode != "" {
			got := r.Header.Get(PasscodeHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(s.passcode)) != 1 {
				s.writeError(w, http.StatusUnauthorized, "invalid passcode")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
