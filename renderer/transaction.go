package renderer

import (
	"fmt"

	"github.com/etnz/folio"
)

// Transaction renders a transaction to a string.
func Transaction(tx folio.Transaction) string {
	switch tx.Type {
	case folio.Buy:
		return fmt.Sprintf("Bought %s of %s on %s, fee %s", tx.Quantity, tx.Symbol, tx.Date, tx.Fee)
	case folio.Sell:
		return fmt.Sprintf("Sold %s of %s on %s, fee %s", tx.Quantity, tx.Symbol, tx.Date, tx.Fee)
	default:
		return tx.String()
	}
}

// Transactions is the transaction list of a portfolio.
type Transactions struct {
	Portfolio    string
	Format       folio.Format
	Transactions []folio.Transaction
}

// RenderTransactions renders the transactions of a portfolio as a table.
func RenderTransactions(p *folio.Portfolio) string {
	return renderTemplate("transactions", "transactions.md", nil, Transactions{
		Portfolio:    p.Name(),
		Format:       p.Format(),
		Transactions: p.Transactions(),
	})
}

// Plans is the list of recurring plans of a portfolio.
type Plans struct {
	Portfolio string
	Plans     []folio.Plan
}

// RenderPlans renders recurring plans as a table.
func RenderPlans(name string, plans []folio.Plan) string {
	return renderTemplate("plans", "plans.md", nil, Plans{Portfolio: name, Plans: plans})
}

// RenderSymbols renders the symbol universe of a price source.
func RenderSymbols(listings []folio.Listing) string {
	return renderTemplate("symbols", "symbols.md", nil, listings)
}
