package folio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/folio/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MaxProbeDays is the maximum number of days after a nominal buy date that are tried when
// the nominal date cannot be priced.
const MaxProbeDays = 6

var hundred = decimal.NewFromInt(100)

// Weight is the share of a plan amount invested in a symbol, in percent.
type Weight struct {
	Symbol  string          `json:"symbol"`
	Percent decimal.Decimal `json:"percent"`
}

// Plan is a recurring investment: every Frequency days from Start until End, Amount is invested
// across the weighted symbols, each buy paying Fee.
type Plan struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Amount    Money     `json:"amount"`
	Frequency int       `json:"frequency"` // in days
	Start     date.Date `json:"start"`
	End       date.Date `json:"end"`      // zero for an open ended plan
	Fee       Money     `json:"fee"`      // per transaction
	LastRun   date.Date `json:"last_run"` // zero until the first buy
	Weights   []Weight  `json:"weights"`
}

// NewPlan creates a plan with a new identifier.
func NewPlan(name string, amount Money, frequency int, start, end date.Date, fee Money, weights []Weight) (Plan, error) {
	p := Plan{
		ID:        uuid.New(),
		Name:      name,
		Amount:    amount,
		Frequency: frequency,
		Start:     start,
		End:       end,
		Fee:       fee,
		Weights:   weights,
	}
	return p, p.Validate()
}

// ParseWeights parses "SYMBOL:PERCENT" pairs separated by commas.
func ParseWeights(s string) ([]Weight, error) {
	var ws []Weight
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		symbol, pct, ok := strings.Cut(field, ":")
		if !ok {
			return nil, fmt.Errorf("invalid weight %q, want SYMBOL:PERCENT", field)
		}
		p, err := decimal.NewFromString(strings.TrimSpace(pct))
		if err != nil {
			return nil, fmt.Errorf("invalid weight %q: %w", field, err)
		}
		ws = append(ws, Weight{Symbol: strings.TrimSpace(symbol), Percent: p})
	}
	return ws, nil
}

// investable returns the amount left for shares once every transaction fee is paid.
func (p Plan) investable() Money {
	return p.Amount.Sub(p.Fee.Mul(Q(len(p.Weights))))
}

// Symbols returns the plan symbols in their weight order.
func (p Plan) Symbols() []string {
	s := make([]string, len(p.Weights))
	for i, w := range p.Weights {
		s[i] = w.Symbol
	}
	return s
}

// Validate checks the plan consistency.
func (p Plan) Validate() error {
	var errs []error
	if !p.Amount.IsPositive() {
		errs = append(errs, fmt.Errorf("amount must be positive, got %s", p.Amount))
	}
	if p.Fee.IsNegative() {
		errs = append(errs, fmt.Errorf("fee must not be negative, got %s", p.Fee))
	}
	if p.Frequency < 1 {
		errs = append(errs, fmt.Errorf("frequency must be at least 1 day, got %d", p.Frequency))
	}
	if p.Start.IsZero() {
		errs = append(errs, errors.New("start date is missing"))
	}
	if !p.End.IsZero() && p.End.Before(p.Start) {
		errs = append(errs, fmt.Errorf("end date %s is before start date %s", p.End, p.Start))
	}
	if len(p.Weights) == 0 {
		errs = append(errs, errors.New("no symbol to buy"))
	}
	total := decimal.Zero
	seen := make(map[string]bool)
	for _, w := range p.Weights {
		if w.Symbol == "" {
			errs = append(errs, errors.New("weight symbol is missing"))
		}
		if seen[w.Symbol] {
			errs = append(errs, fmt.Errorf("symbol %q is listed twice", w.Symbol))
		}
		seen[w.Symbol] = true
		if !w.Percent.IsPositive() {
			errs = append(errs, fmt.Errorf("weight of %q must be positive, got %s", w.Symbol, w.Percent))
		}
		total = total.Add(w.Percent)
	}
	if len(p.Weights) > 0 && !total.Equal(hundred) {
		errs = append(errs, fmt.Errorf("weights must sum to 100, got %s", total))
	}
	if len(p.Weights) > 0 && !p.investable().IsPositive() {
		errs = append(errs, fmt.Errorf("fees %s x %d leave nothing to invest from %s", p.Fee, len(p.Weights), p.Amount))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid plan %q: %w", p.Name, err)
	}
	return nil
}

// Advance returns a copy of the plan with LastRun set to the latest generated buy date.
// The plan is returned unchanged when there is no transaction.
func (p Plan) Advance(txs []Transaction) Plan {
	for _, tx := range txs {
		if tx.Date.After(p.LastRun) {
			p.LastRun = tx.Date
		}
	}
	return p
}

// Runner generates the buy transactions of recurring plans.
type Runner struct {
	src     PriceSource
	log     *zap.SugaredLogger
	metrics *Metrics
}

// NewRunner creates a Runner using src to price the buys.
func NewRunner(src PriceSource, opts ...Option) *Runner {
	o := newOptions(opts)
	return &Runner{src: o.metrics.wrap(src), log: o.log, metrics: o.metrics}
}

// Run returns the buys due for plan from its last run up to today, in chronological order.
//
// Buys happen every Frequency days, starting on Start. When a nominal buy date cannot be priced
// the following days are tried, at most min(6, Frequency-1) of them and never after today. A
// period without any price is skipped. Run does not modify the plan, see [Plan.Advance].
func (r *Runner) Run(ctx context.Context, today date.Date, plan Plan) ([]Transaction, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	horizon := today
	if !plan.End.IsZero() {
		horizon = date.Min(horizon, plan.End)
	}
	current := plan.LastRun
	if current.IsZero() {
		current = plan.Start.Add(-plan.Frequency)
	}
	probes := min(MaxProbeDays, plan.Frequency-1)
	investable := plan.investable()

	var txs []Transaction
	for next := current.Add(plan.Frequency); !next.After(horizon); next = next.Add(plan.Frequency) {
		on, prices, err := r.probe(ctx, next, probes, today, plan.Symbols())
		if err != nil {
			return nil, err
		}
		if prices == nil {
			r.log.Debugw("plan period skipped", "plan", plan.Name, "date", next)
			r.metrics.skippedPeriod()
			continue
		}
		for _, w := range plan.Weights {
			amount := Money{value: investable.value.Mul(w.Percent).Div(hundred)}
			txs = append(txs, NewBuy(on, w.Symbol, amount.DivPrice(prices[w.Symbol]), plan.Fee))
		}
	}
	r.metrics.plannedBuys(len(txs))
	return txs, nil
}

// probe looks for the first day from 'on' where every symbol is priced.
// Any lookup failure moves to the next day. It returns nil prices when none of the probed days
// can be priced.
func (r *Runner) probe(ctx context.Context, on date.Date, probes int, today date.Date, symbols []string) (date.Date, Prices, error) {
	for i := 0; i <= probes; i++ {
		day := on.Add(i)
		if day.After(today) {
			break
		}
		prices, err := FetchPrices(ctx, r.src, day, symbols)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return date.Date{}, nil, ctxErr
			}
			r.log.Debugw("plan probe failed", "date", day, "error", err)
			continue
		}
		if prices.allPositive() {
			return day, prices, nil
		}
	}
	return date.Date{}, nil, nil
}
