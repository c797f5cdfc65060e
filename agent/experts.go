package agent

import (
	"google.golang.org/genai"
)

func instructions(text string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: text}}}
}

// creates the facilitator
func newFacilitator(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: instructions(`
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and keep context of your previous questions.

			The user holds a crypto portfolio valued in a fiat base currency. They are here to
			understand their holdings, their history, and the news about the assets they hold.
			Never recommend a trade as a certainty; you cannot execute operations on the ledger.

			Devise a plan of questions to ask to each expert and come up with the best response.
			Answer in markdown.
		`),
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader returns an expert of the crypto markets grounded on Google Search.
func NewTrader(model string) *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader of crypto assets,
		aware of the latest news about coins, tokens and exchanges.
		Ask the Trader whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: instructions(`
			You are an expert in crypto trading. You leverage Google Search to
			ground your assertions, and you know how to relate the latest news to the user's request.
			`),
		},
	}
}

// NewAccountant returns the expert that reads the user's portfolio with tools.
func NewAccountant(model string, tools []Function) *Expert {
	return &Expert{
		Name: "Accountant",
		Description: `This is the Accountant. They read the user's portfolio: holdings, valuations,
		transaction history and current prices.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(tools)},
			},
			SystemInstruction: instructions(`
				You are an accountant in charge of the user's portfolio.
				Use the available Tools to answer questions about holdings, values, fiat balance,
				transaction history and prices. Values are quantity times the current price;
				the cost basis is what was paid. Pardon the approximate language of other experts
				and figure out what they meant.
			`),
		},
		Library: NewLibrary(tools),
	}
}
