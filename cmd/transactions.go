package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

// tradeCmd adds a buy or a sell to a portfolio.
type tradeCmd struct {
	typ      folio.TxType
	name     string
	date     string
	symbol   string
	quantity int64
	fee      string
}

func newTradeCmd(typ folio.TxType) *tradeCmd { return &tradeCmd{typ: typ} }

func (c *tradeCmd) Name() string { return strings.ToLower(string(c.typ)) }
func (c *tradeCmd) Synopsis() string {
	if c.typ == folio.Sell {
		return "sell shares to trim or close a position"
	}
	return "purchase shares to open or add to a position"
}
func (c *tradeCmd) Usage() string {
	return fmt.Sprintf(`folio %s -n <name> -s <symbol> -q <quantity> [-d <date>] [-fee <fee>]

  Adds a %s transaction to a flexible portfolio. The symbol must be traded on that day.
`, c.Name(), c.Name())
}

func (c *tradeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Portfolio name")
	f.StringVar(&c.date, "d", date.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&c.symbol, "s", "", "Symbol")
	f.Int64Var(&c.quantity, "q", 0, "Number of shares")
	f.StringVar(&c.fee, "fee", "0", "Transaction fee")
}

func (c *tradeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" || c.symbol == "" || c.quantity <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	fee, err := folio.ParseMoney(c.fee)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing fee: %v\n", err)
		return subcommands.ExitUsageError
	}
	tx := folio.Transaction{Type: c.typ, Symbol: c.symbol, Quantity: folio.Q(c.quantity), Date: day, Fee: fee}

	return run(ctx, func(ctx context.Context, a *app) error {
		if err := a.load(c.name); err != nil {
			return err
		}
		if _, err := a.session.AddTransactions(ctx, tx); err != nil {
			return err
		}
		if err := a.save(); err != nil {
			return err
		}
		fmt.Println(renderer.Transaction(tx))
		return nil
	})
}
