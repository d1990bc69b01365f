package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

type planCmd struct {
	name    string
	title   string
	amount  string
	every   int
	start   string
	end     string
	fee     string
	weights string
}

func (*planCmd) Name() string     { return "plan" }
func (*planCmd) Synopsis() string { return "add a recurring investment plan, or list them" }
func (*planCmd) Usage() string {
	return `folio plan -n <name> [-title <plan> -amount <amount> -every <days> -start <date> [-end <date>] [-fee <fee>] -w <SYMBOL:PCT,...>]

  Without -title, lists the plans of the portfolio.

  Otherwise adds a plan investing the amount every few days from the start date, split across
  the weighted symbols. Weights are percentages and must sum to 100. Each buy pays the fee.
  Plans are executed by 'folio run'.
`
}

func (c *planCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Portfolio name")
	f.StringVar(&c.title, "title", "", "Plan name")
	f.StringVar(&c.amount, "amount", "", "Amount invested each time, fees included")
	f.IntVar(&c.every, "every", 30, "Days between two investments")
	f.StringVar(&c.start, "start", date.Today().String(), "First investment date")
	f.StringVar(&c.end, "end", "", "Last possible investment date, open ended if empty")
	f.StringVar(&c.fee, "fee", "0", "Fee paid on each buy")
	f.StringVar(&c.weights, "w", "", "Weights, e.g. AAPL:60,MSFT:40")
}

func (c *planCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	if c.title == "" {
		return run(ctx, func(ctx context.Context, a *app) error {
			if err := a.load(c.name); err != nil {
				return err
			}
			printMarkdown(renderer.RenderPlans(c.name, a.session.Plans()))
			return nil
		})
	}

	plan, err := c.plan()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		if err := a.load(c.name); err != nil {
			return err
		}
		if err := a.session.AddPlan(plan); err != nil {
			return err
		}
		if err := a.save(); err != nil {
			return err
		}
		printMarkdown(renderer.RenderPlans(c.name, a.session.Plans()))
		return nil
	})
}

// plan builds the plan from the flags.
func (c *planCmd) plan() (folio.Plan, error) {
	amount, err := folio.ParseMoney(c.amount)
	if err != nil {
		return folio.Plan{}, err
	}
	fee, err := folio.ParseMoney(c.fee)
	if err != nil {
		return folio.Plan{}, err
	}
	start, err := date.Parse(c.start)
	if err != nil {
		return folio.Plan{}, err
	}
	var end date.Date
	if c.end != "" {
		if end, err = date.Parse(c.end); err != nil {
			return folio.Plan{}, err
		}
	}
	weights, err := folio.ParseWeights(c.weights)
	if err != nil {
		return folio.Plan{}, err
	}
	return folio.NewPlan(c.title, amount, c.every, start, end, fee, weights)
}

type runCmd struct {
	name  string
	today string
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "execute the recurring plans of a portfolio" }
func (*runCmd) Usage() string {
	return `folio run -n <name> [-d <today>]

  Adds every buy due by the plans of the portfolio since their last run. When a due date is not
  a trading day the following days are tried.
`
}

func (c *runCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Portfolio name")
	f.StringVar(&c.today, "d", date.Today().String(), "Run the plans as of this date")
}

func (c *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	today, err := date.Parse(c.today)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	return run(ctx, func(ctx context.Context, a *app) error {
		if err := a.load(c.name); err != nil {
			return err
		}
		txs, err := a.session.RunPlans(ctx, today)
		if err != nil {
			return err
		}
		if len(txs) == 0 {
			fmt.Println("Nothing to do.")
			return nil
		}
		if err := a.save(); err != nil {
			return err
		}
		for _, tx := range txs {
			fmt.Println(renderer.Transaction(tx))
		}
		return nil
	})
}
