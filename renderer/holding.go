package renderer

import (
	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
)

// Holding is the composition of a portfolio on a day.
type Holding struct {
	Portfolio string
	Date      date.Date
	Positions []Position
}

// Position is a line of a Holding.
type Position struct {
	Symbol   string
	Quantity folio.Quantity
}

// NewHolding lists a composition in symbol order.
func NewHolding(name string, on date.Date, c folio.Composition) *Holding {
	h := &Holding{Portfolio: name, Date: on}
	for _, s := range c.Symbols() {
		h.Positions = append(h.Positions, Position{Symbol: s, Quantity: c[s]})
	}
	return h
}

// RenderHolding renders the composition of a portfolio.
func RenderHolding(h *Holding) string {
	return renderTemplate("holding", "holding.md", nil, h)
}

// Valuation is a portfolio priced on a day.
type Valuation struct {
	Portfolio string
	folio.PortfolioWithValue
}

// RenderValue renders a portfolio valuation with its per symbol details.
func RenderValue(name string, v folio.PortfolioWithValue) string {
	return renderTemplate("value", "value.md", nil, Valuation{Portfolio: name, PortfolioWithValue: v})
}

// CostBasis is the amount invested in a portfolio up to a day.
type CostBasis struct {
	Portfolio string
	Date      date.Date
	Amount    folio.Money
}

// RenderCostBasis renders the cost basis of a portfolio.
func RenderCostBasis(c CostBasis) string {
	return renderTemplate("cost", "cost.md", nil, c)
}
