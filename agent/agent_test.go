package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/etnz/akka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func portfolio(t *testing.T) (func() akka.Snapshot, *akka.PriceBook) {
	t.Helper()
	registry, err := akka.DefaultRegistry("EUR")
	require.NoError(t, err)
	prices := akka.NewPriceBook(akka.FallbackPrices("EUR"))
	l, err := akka.Restore(registry, akka.DemoState("EUR"), akka.WithQuotes(prices))
	require.NoError(t, err)
	return l.Snapshot, prices
}

func call(lib Library, name string, args map[string]any) *genai.FunctionResponse {
	return lib(context.Background(), &genai.FunctionCall{ID: "1", Name: name, Args: args})
}

func TestPortfolioTools(t *testing.T) {
	lib := NewLibrary(PortfolioTools(portfolio(t)))

	resp := call(lib, "Holdings", nil)
	require.Contains(t, resp.Response, "output")
	assert.Contains(t, resp.Response["output"], "| BTC | 0.125 |")
	assert.Equal(t, "Holdings", resp.Name)
	assert.Equal(t, "1", resp.ID)

	resp = call(lib, "Transactions", map[string]any{"kind": "buy", "limit": float64(1)})
	out := resp.Response["output"].(string)
	assert.Contains(t, out, "| BTC |")
	assert.NotContains(t, out, "| ADA |", "limit keeps the newest buy only")

	resp = call(lib, "Transactions", map[string]any{"kind": "withdraw"})
	assert.Contains(t, resp.Response["error"], "unknown transaction kind")

	resp = call(lib, "Prices", nil)
	assert.Contains(t, resp.Response["output"], "| MATIC |")

	resp = call(lib, "Trade", nil)
	assert.Contains(t, resp.Response["error"], "unknown function Trade")
}

func TestPortfolioTools_Live(t *testing.T) {
	registry, _ := akka.DefaultRegistry("EUR")
	l := akka.NewLedger(registry)
	lib := NewLibrary(PortfolioTools(l.Snapshot, nil))

	before := call(lib, "Holdings", nil).Response["output"].(string)
	_, err := l.Receive("SOL", akka.Q(3), "friend")
	require.NoError(t, err)
	after := call(lib, "Holdings", nil).Response["output"].(string)

	assert.NotContains(t, before, "SOL")
	assert.Contains(t, after, "| SOL | 3 |")
	assert.Contains(t, call(lib, "Prices", nil).Response["error"], "no prices")
}

func TestExpert_Call_InvalidArgs(t *testing.T) {
	e := NewTrader(DefaultModel)
	resp := e.Call(context.Background(), "7", map[string]any{"question": 42})
	assert.Equal(t, "Trader", resp.Name)
	assert.True(t, strings.Contains(resp.Response["error"].(string), "expected a string"))
}

func TestDeclarations(t *testing.T) {
	tools := PortfolioTools(portfolio(t))
	accountant := NewAccountant(DefaultModel, tools)
	a := New(nil, strings.NewReader(""), DefaultModel, NewTrader(DefaultModel), accountant)

	decls := a.Facilitator.Config.Tools[0].FunctionDeclarations
	require.Len(t, decls, 2)
	assert.Equal(t, "Trader", decls[0].Name)
	assert.Equal(t, "Accountant", decls[1].Name)
	assert.Equal(t, []string{"question"}, decls[1].Parameters.Required)

	var names []string
	for _, d := range accountant.Config.Tools[0].FunctionDeclarations {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"Holdings", "Transactions", "Prices"}, names)
}

func TestDocumentationTool(t *testing.T) {
	lib := NewLibrary([]Function{DocumentationTool()})

	resp := call(lib, "Documentation", map[string]any{"topic": "operations"})
	assert.Contains(t, resp.Response["output"], "# Operations")

	resp = call(lib, "Documentation", map[string]any{"topic": "margin-trading"})
	assert.Contains(t, resp.Response["error"], "not found")
}
