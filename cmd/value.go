package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/folio/date"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

type valueCmd struct {
	name string
	date string
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "value a portfolio on a date" }
func (*valueCmd) Usage() string {
	return `folio value -n <name> [-d <date>]

  Prices every position at the close of the day. Fails if a price is missing, for instance
  on a week-end or a market holiday.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Portfolio name")
	f.StringVar(&c.date, "d", date.Today().String(), "Valuation date")
}

func (c *valueCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	on, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	return run(ctx, func(ctx context.Context, a *app) error {
		if err := a.load(c.name); err != nil {
			return err
		}
		v, err := a.session.Value(ctx, on)
		if err != nil {
			return err
		}
		printMarkdown(renderer.RenderValue(c.name, v))
		return nil
	})
}

type costCmd struct {
	name string
	date string
}

func (*costCmd) Name() string     { return "cost" }
func (*costCmd) Synopsis() string { return "compute the cost basis of a portfolio on a date" }
func (*costCmd) Usage() string {
	return `folio cost -n <name> [-d <date>]

  Sums the amount invested by every buy up to the date, priced at the close of its day, plus
  every transaction fee.
`
}

func (c *costCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Portfolio name")
	f.StringVar(&c.date, "d", date.Today().String(), "Cost basis date")
}

func (c *costCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	on, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	return run(ctx, func(ctx context.Context, a *app) error {
		if err := a.load(c.name); err != nil {
			return err
		}
		amount, err := a.session.CostBasis(ctx, on)
		if err != nil {
			return err
		}
		printMarkdown(renderer.RenderCostBasis(renderer.CostBasis{Portfolio: c.name, Date: on, Amount: amount}))
		return nil
	})
}
