package cmd

import (
	"context"
	"flag"

	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

type txCmd struct {
	name string
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list all transactions of a portfolio" }
func (*txCmd) Usage() string {
	return `folio tx -n <name>

  Lists the transactions of the portfolio in chronological order.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.name, "n", "", "Portfolio name")
}

func (p *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.name == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		if err := a.load(p.name); err != nil {
			return err
		}
		printMarkdown(renderer.RenderTransactions(a.session.Portfolio()))
		return nil
	})
}

type symbolsCmd struct{}

func (*symbolsCmd) Name() string     { return "symbols" }
func (*symbolsCmd) Synopsis() string { return "list the symbols that can be traded" }
func (*symbolsCmd) Usage() string {
	return `folio symbols

  Lists the symbols known by the price source.
`
}

func (*symbolsCmd) SetFlags(*flag.FlagSet) {}

func (*symbolsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app) error {
		listings, err := a.session.Symbols(ctx)
		if err != nil {
			return err
		}
		printMarkdown(renderer.RenderSymbols(listings))
		return nil
	})
}
