// Package cmc fetches crypto quotes from the CoinMarketCap API.
package cmc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/akka"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the CoinMarketCap pro API root.
const DefaultBaseURL = "https://pro-api.coinmarketcap.com/v1"

// Client retrieves latest quotes converted to a fiat currency.
// It implements akka.Fetcher.
type Client struct {
	BaseURL string
	APIKey  string
	Convert string // fiat currency quotes are converted to

	http    *http.Client
	limiter *rate.Limiter
}

// New returns a client converting quotes to currency, issuing at most rps
// requests per second.
func New(apiKey, currency string, rps float64) *Client {
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		BaseURL: DefaultBaseURL,
		APIKey:  apiKey,
		Convert: currency,
		http:    &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Fetch returns the latest price of each symbol known to CoinMarketCap.
// Unknown symbols are absent from the result.
func (c *Client) Fetch(ctx context.Context, symbols []string) (akka.Prices, error) {
	quotes, err := c.FetchQuotes(ctx, symbols)
	if err != nil {
		return nil, err
	}
	return akka.QuotePrices(quotes), nil
}

// FetchQuotes returns the latest quote of each symbol known to
// CoinMarketCap, in the order of symbols. The 24h change and the market
// capitalization are zero when not reported.
func (c *Client) FetchQuotes(ctx context.Context, symbols []string) ([]akka.Quote, error) {
	if len(symbols) == 0 {
		return nil, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("quote rate limit: %w", err)
	}

	q := url.Values{}
	q.Set("symbol", strings.Join(symbols, ","))
	q.Set("convert", c.Convert)
	addr := c.BaseURL + "/cryptocurrency/quotes/latest?" + q.Encode()

	var jobj any
	if err := c.jwget(ctx, addr, &jobj); err != nil {
		return nil, err
	}

	var quotes []akka.Quote
	var errs error
	for _, sym := range symbols {
		quote, err := jsonpath.Get(fmt.Sprintf("$.data.%s.quote.%s", sym, c.Convert), jobj)
		if err != nil {
			// not listed
			continue
		}
		price, ok := number(quote, "price")
		if !ok || price <= 0 {
			errs = errors.Join(errs, fmt.Errorf("invalid price for %s: %v", sym, field(quote, "price")))
			continue
		}
		change, _ := number(quote, "percent_change_24h")
		mcap, _ := number(quote, "market_cap")
		quotes = append(quotes, akka.Quote{
			Symbol:    sym,
			Price:     akka.M(price, c.Convert),
			Change24h: decimal.NewFromFloat(change).Round(2),
			MarketCap: akka.M(math.Round(mcap), c.Convert),
		})
	}
	if len(quotes) == 0 && errs != nil {
		return nil, errs
	}
	return quotes, nil
}

// field returns the value of key in a decoded JSON object, nil if absent.
func field(obj any, key string) any {
	v, err := jsonpath.Get("$."+key, obj)
	if err != nil {
		return nil
	}
	return v
}

// number returns the finite float value of key in a decoded JSON object.
func number(obj any, key string) (float64, bool) {
	v, ok := field(obj, key).(float64)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// jwget performs an HTTP GET request and unmarshals the JSON response into
// data.
func (c *Client) jwget(ctx context.Context, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-CMC_PRO_API_KEY", c.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v%s", req.URL.Host, req.URL.Path, resp.Status, statusMessage(buf.Bytes()))
	}
	return json.Unmarshal(buf.Bytes(), data)
}

// statusMessage extracts the API error message from an error body, if any.
func statusMessage(body []byte) string {
	var jobj any
	if json.Unmarshal(body, &jobj) != nil {
		return ""
	}
	msg, err := jsonpath.Get("$.status.error_message", jobj)
	if s, ok := msg.(string); err == nil && ok && s != "" {
		return ": " + s
	}
	return ""
}
