package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/folio"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

type createCmd struct {
	name       string
	inflexible bool
	file       string
}

func (*createCmd) Name() string     { return "create" }
func (*createCmd) Synopsis() string { return "create a new portfolio" }
func (*createCmd) Usage() string {
	return `folio create -n <name> [-inflexible] [-f <file>]

  Creates a portfolio, empty or from a file of transactions, one per line:

    BUY,AAPL,10,2022-10-10,1.5

  Every transaction is checked against the market: the symbol must exist and be traded on
  that day. An inflexible portfolio only holds buys and cannot be changed afterwards.
`
}

func (c *createCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Portfolio name")
	f.BoolVar(&c.inflexible, "inflexible", false, "Create an inflexible portfolio")
	f.StringVar(&c.file, "f", "", "Transactions file")
}

func (c *createCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	format := folio.Flexible
	if c.inflexible {
		format = folio.Inflexible
	}

	return run(ctx, func(ctx context.Context, a *app) error {
		if a.exists(c.name) {
			return fmt.Errorf("portfolio %q already exists", c.name)
		}
		var txs []folio.Transaction
		if c.file != "" {
			r, err := os.Open(c.file)
			if err != nil {
				return err
			}
			defer r.Close()
			if txs, err = folio.DecodeTransactions(r); err != nil {
				return err
			}
		}
		p, err := a.session.CreateAndSet(ctx, c.name, format, txs)
		if err != nil {
			return err
		}
		if err := a.save(); err != nil {
			return err
		}
		printMarkdown(renderer.RenderTransactions(p))
		return nil
	})
}
