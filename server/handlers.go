package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/akka"
)

// amount is a decimal sent either as a JSON string or a JSON number.
type amount string

func (a *amount) UnmarshalJSON(b []byte) error {
	*a = amount(strings.Trim(string(b), `"`))
	return nil
}

// opRequest is the body of every POST operation.
type opRequest struct {
	Symbol       string `json:"symbol"`
	Quantity     amount `json:"quantity"`
	CounterValue amount `json:"counterValue"` // buy and sell, estimated when empty
	Amount       amount `json:"amount"`       // deposit
	Counterparty string `json:"counterparty"`
	From         string `json:"from"` // swap
	To           string `json:"to"`   // swap
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.ledger.Snapshot())
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filters []func(akka.Transaction) bool
	if k := q.Get("kind"); k != "" {
		kind, err := akka.ParseCommandType(k)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		filters = append(filters, akka.ByKind(kind))
	}
	if sym := q.Get("symbol"); sym != "" {
		filters = append(filters, akka.BySymbol(sym))
	}
	limit := -1
	if l := q.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", l))
			return
		}
		limit = n
	}

	txs := []akka.Transaction{}
	for tx := range s.ledger.Transactions(filters...) {
		if limit >= 0 && len(txs) >= limit {
			break
		}
		txs = append(txs, tx)
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"transactions": txs})
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	resp := struct {
		Base    string      `json:"base"`
		Updated *time.Time  `json:"updated,omitempty"`
		Prices  akka.Prices `json:"prices"`
	}{Base: s.ledger.Base(), Prices: akka.Prices{}}
	if s.prices != nil {
		resp.Prices = s.prices.All()
		if at := s.prices.Updated(); !at.IsZero() {
			resp.Updated = &at
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", l))
			return
		}
		limit = n
	}
	resp := struct {
		Base     string       `json:"base"`
		Trending []akka.Quote `json:"trending"`
	}{Base: s.ledger.Base(), Trending: []akka.Quote{}}
	if s.prices != nil {
		resp.Trending = append(resp.Trending, s.prices.Trending(limit)...)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	s.operate(w, r, func(req opRequest) (akka.Receipt, error) {
		qty, err := akka.ParseQuantity(string(req.Quantity))
		if err != nil {
			return akka.Receipt{}, err
		}
		value, err := s.counterValue(req, qty, true)
		if err != nil {
			return akka.Receipt{}, err
		}
		return s.ledger.Buy(req.Symbol, qty, value)
	})
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	s.operate(w, r, func(req opRequest) (akka.Receipt, error) {
		qty, err := akka.ParseQuantity(string(req.Quantity))
		if err != nil {
			return akka.Receipt{}, err
		}
		value, err := s.counterValue(req, qty, false)
		if err != nil {
			return akka.Receipt{}, err
		}
		return s.ledger.Sell(req.Symbol, qty, value)
	})
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	s.operate(w, r, func(req opRequest) (akka.Receipt, error) {
		qty, err := akka.ParseQuantity(string(req.Quantity))
		if err != nil {
			return akka.Receipt{}, err
		}
		return s.ledger.Send(req.Symbol, qty, req.Counterparty)
	})
}

func (s *Server) handleReceive(w http.ResponseWriter, r *http.Request) {
	s.operate(w, r, func(req opRequest) (akka.Receipt, error) {
		qty, err := akka.ParseQuantity(string(req.Quantity))
		if err != nil {
			return akka.Receipt{}, err
		}
		return s.ledger.Receive(req.Symbol, qty, req.Counterparty)
	})
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	s.operate(w, r, func(req opRequest) (akka.Receipt, error) {
		m, err := akka.ParseMoney(string(req.Amount), s.ledger.Base())
		if err != nil {
			return akka.Receipt{}, err
		}
		return s.ledger.Deposit(m, req.Counterparty)
	})
}

func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, func(req opRequest) (string, any, error) {
		qty, err := akka.ParseQuantity(string(req.Quantity))
		if err != nil {
			return "", nil, err
		}
		receipt, err := s.ledger.Swap(req.From, req.To, qty)
		if err != nil {
			return "", nil, err
		}
		return receipt.Buy.ID, map[string]any{
			"sell":      receipt.Sell,
			"buy":       receipt.Buy,
			"fee":       akka.DefaultSwapFee,
			"portfolio": receipt.Snapshot,
		}, nil
	})
}

// counterValue returns the counter value of the request, or estimates it at
// the current price when the request has none. Purchases include the fee.
func (s *Server) counterValue(req opRequest, qty akka.Quantity, withFee bool) (akka.Money, error) {
	base := s.ledger.Base()
	if req.CounterValue != "" {
		return akka.ParseMoney(string(req.CounterValue), base)
	}
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if _, ok := s.ledger.Registry().Asset(symbol); !ok {
		return akka.Money{}, fmt.Errorf("%w: %q is not a tradable asset", akka.ErrUnknownSymbol, req.Symbol)
	}
	if s.prices == nil {
		return akka.Money{}, fmt.Errorf("%w: counterValue is required", akka.ErrInvalidAmount)
	}
	value, ok := akka.Estimate(s.prices, symbol, qty, base)
	if !ok {
		return akka.Money{}, fmt.Errorf("%w: no price for %s, counterValue is required", akka.ErrInvalidAmount, symbol)
	}
	if withFee {
		value = akka.WithFee(value, akka.DefaultBuyFee)
	}
	return value, nil
}

// operate decodes the request, runs op and writes the receipt or the error.
func (s *Server) operate(w http.ResponseWriter, r *http.Request, op func(opRequest) (akka.Receipt, error)) {
	s.apply(w, r, func(req opRequest) (string, any, error) {
		receipt, err := op(req)
		if err != nil {
			return "", nil, err
		}
		return receipt.Transaction.ID, map[string]any{
			"transaction": receipt.Transaction,
			"portfolio":   receipt.Snapshot,
		}, nil
	})
}

// apply decodes the request and runs op. On success the session is
// persisted and the response op built is written.
func (s *Server) apply(w http.ResponseWriter, r *http.Request, op func(opRequest) (id string, response any, err error)) {
	var req opRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	id, response, err := op(req)
	if err != nil {
		s.writeError(w, statusOf(err), err.Error())
		return
	}

	if err := s.save(r.Context()); err != nil {
		// the operation is applied, only its persistence is late.
		s.log.Error().Err(err).Str("tx", id).Msg("Failed to persist session")
	}
	s.writeJSON(w, http.StatusOK, response)
}

// save persists the ledger. Saves run one at a time, each reading the ledger
// inside the critical section, so a slow save never overwrites a newer one.
func (s *Server) save(ctx context.Context) error {
	if s.persist == nil {
		return nil
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	return s.persist(ctx, s.ledger)
}

// statusOf maps ledger errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, akka.ErrInsufficientFunds), errors.Is(err, akka.ErrInsufficientHoldings):
		return http.StatusUnprocessableEntity
	case errors.Is(err, akka.ErrUnknownSymbol):
		return http.StatusNotFound
	case errors.Is(err, akka.ErrInvalidAmount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]any{
		"error": message,
	})
}
