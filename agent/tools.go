package agent

import (
	"context"
	"fmt"
	"iter"

	"github.com/etnz/akka"
	"github.com/etnz/akka/docs"
	"github.com/etnz/akka/renderer"
	"google.golang.org/genai"
)

// Library resolves a function call made by a model.
type Library func(context.Context, *genai.FunctionCall) *genai.FunctionResponse

// Function is a tool a model can call.
type Function interface {
	Declaration() *genai.FunctionDeclaration
	Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

// NewLibrary dispatches calls to the function with the same name.
func NewLibrary[T Function](functions []T) Library {
	return func(ctx context.Context, call *genai.FunctionCall) *genai.FunctionResponse {
		for _, f := range functions {
			if f.Declaration().Name == call.Name {
				return f.Call(ctx, call.ID, call.Args)
			}
		}
		return failure(call.ID, call.Name, fmt.Errorf("unknown function %s", call.Name))
	}
}

// NewDeclaration lists the declarations of functions.
func NewDeclaration[T Function](functions []T) []*genai.FunctionDeclaration {
	result := make([]*genai.FunctionDeclaration, 0, len(functions))
	for _, f := range functions {
		result = append(result, f.Declaration())
	}
	return result
}

// Func implements a simple Function
type Func struct {
	Decl *genai.FunctionDeclaration
	Func func(ctx context.Context, args map[string]any) (string, error)
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	out, err := f.Func(ctx, args)
	if err != nil {
		return failure(id, f.Decl.Name, err)
	}
	return success(id, f.Decl.Name, out)
}

// PortfolioTools returns the read-only tools over the portfolio. snapshot is
// called on every use so that answers follow the live ledger.
func PortfolioTools(snapshot func() akka.Snapshot, prices *akka.PriceBook) []Function {
	markdown := &genai.Schema{Type: genai.TypeString, Description: "A markdown document."}
	return []Function{
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name: "Holdings",
				Description: `Holdings lists the assets held with their quantity, current price, value and cost basis,
				the fiat balance, the total portfolio value and the net worth.`,
				Response: markdown,
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				return renderer.HoldingMarkdown(snapshot()), nil
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Transactions",
				Description: "Transactions lists the transaction history, newest first, optionally filtered.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"kind":   {Type: genai.TypeString, Description: "Only this kind: buy, sell, send, receive or deposit.", Enum: []string{"buy", "sell", "send", "receive", "deposit"}},
						"symbol": {Type: genai.TypeString, Description: "Only transactions on this asset or currency, e.g. BTC."},
						"limit":  {Type: genai.TypeInteger, Description: "Maximum number of transactions returned."},
					},
				},
				Response: markdown,
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				var filters []func(akka.Transaction) bool
				if k, ok := args["kind"].(string); ok && k != "" {
					kind, err := akka.ParseCommandType(k)
					if err != nil {
						return "", err
					}
					filters = append(filters, akka.ByKind(kind))
				}
				if sym, ok := args["symbol"].(string); ok && sym != "" {
					filters = append(filters, akka.BySymbol(sym))
				}
				txs := snapshot().Transactions(filters...)
				// JSON numbers decode as float64.
				if limit, ok := args["limit"].(float64); ok && limit >= 0 {
					txs = take(txs, int(limit))
				}
				return renderer.Transactions(txs), nil
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Prices",
				Description: "Prices lists the latest known unit price of every asset, in the base currency.",
				Response:    markdown,
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				if prices == nil {
					return "", fmt.Errorf("no prices available")
				}
				return renderer.PricesMarkdown(prices.All(), prices.Updated()), nil
			},
		},
	}
}

// DocumentationTool reads the user documentation of akka, for questions on how
// to use it.
func DocumentationTool() Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Documentation",
			Description: "Documentation returns a topic of the akka user manual, or every topic with '*'.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"topic": {Type: genai.TypeString, Enum: append(docs.All(), "*")},
				},
				Required: []string{"topic"},
			},
			Response: &genai.Schema{Type: genai.TypeString, Description: "A markdown document."},
		},
		Func: func(ctx context.Context, args map[string]any) (string, error) {
			topic, _ := args["topic"].(string)
			return docs.Topic(topic)
		},
	}
}

func take[T any](seq iter.Seq[T], n int) iter.Seq[T] {
	return func(yield func(T) bool) {
		if n <= 0 {
			return
		}
		i := 0
		for v := range seq {
			if !yield(v) {
				return
			}
			if i++; i >= n {
				return
			}
		}
	}
}
