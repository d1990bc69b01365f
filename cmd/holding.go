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

// holdingCmd holds the flags for the 'holding' subcommand.
type holdingCmd struct {
	name string
	date string
}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "display the composition of a portfolio on a date" }
func (*holdingCmd) Usage() string {
	return `folio holding -n <name> [-d <date>]

  Displays the quantity held of each symbol at the end of a day. No price is needed.
`
}

func (c *holdingCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Portfolio name")
	f.StringVar(&c.date, "d", date.Today().String(), "Date of the composition")
}

func (c *holdingCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
		p := a.session.Portfolio()
		printMarkdown(renderer.RenderHolding(renderer.NewHolding(p.Name(), on, p.Composition(on))))
		return nil
	})
}
