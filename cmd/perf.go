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

type perfCmd struct {
	name  string
	start string
	end   string
}

func (*perfCmd) Name() string     { return "perf" }
func (*perfCmd) Synopsis() string { return "chart the value of a portfolio over a period" }
func (*perfCmd) Usage() string {
	return `folio perf -n <name> -s <start> [-e <end>]

  Draws the value of the portfolio over the period as a bar chart of asterisks. The period is
  split into days, weeks, months, quarters, years or 2-year spans depending on its length.
  The start date must be a trading day.
`
}

func (c *perfCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Portfolio name")
	f.StringVar(&c.start, "s", "", "Start date")
	f.StringVar(&c.end, "e", date.Today().String(), "End date")
}

func (c *perfCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" || c.start == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	start, err := date.Parse(c.start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
		return subcommands.ExitUsageError
	}
	end, err := date.Parse(c.end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
		return subcommands.ExitUsageError
	}

	return run(ctx, func(ctx context.Context, a *app) error {
		if err := a.load(c.name); err != nil {
			return err
		}
		report, err := a.session.Performance(ctx, start, end)
		if err != nil {
			return err
		}
		printMarkdown(renderer.RenderPerformance(report))
		return nil
	})
}
