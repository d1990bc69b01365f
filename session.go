package folio

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync/atomic"

	"github.com/etnz/folio/date"
	"go.uber.org/zap"
)

// ErrNoPortfolio is returned by Session operations that need a current portfolio.
var ErrNoPortfolio = errors.New("no current portfolio")

// ErrConflict is returned when the current portfolio was replaced during an update.
var ErrConflict = errors.New("current portfolio changed during the update")

// state is the immutable content of the session slot.
type state struct {
	portfolio *Portfolio
	plans     []Plan
}

// Session owns the current portfolio and its plans, and runs every operation against one
// PriceSource.
//
// The current portfolio is never modified: updates build a new one that replaces it atomically.
// A Session is safe for concurrent use.
type Session struct {
	src       PriceSource
	validator *Validator
	engine    *Engine
	runner    *Runner
	log       *zap.SugaredLogger
	current   atomic.Pointer[state]
}

// NewSession creates a session without current portfolio.
func NewSession(src PriceSource, opts ...Option) *Session {
	o := newOptions(opts)
	return &Session{
		src:       src,
		validator: NewValidator(src, opts...),
		engine:    NewEngine(src, opts...),
		runner:    NewRunner(src, opts...),
		log:       o.log,
	}
}

// Init checks that the price source symbol universe can be listed.
func (s *Session) Init(ctx context.Context) error {
	u, err := FetchUniverse(ctx, s.src)
	if err != nil {
		return err
	}
	s.log.Debugw("price source ready", "symbols", len(u))
	return nil
}

// Symbols lists the symbol universe of the price source.
func (s *Session) Symbols(ctx context.Context) ([]Listing, error) {
	u, err := FetchUniverse(ctx, s.src)
	if err != nil {
		return nil, err
	}
	listings := make([]Listing, 0, len(u))
	for _, l := range u {
		listings = append(listings, l)
	}
	slices.SortFunc(listings, func(a, b Listing) int { return cmp.Compare(a.Symbol, b.Symbol) })
	return listings, nil
}

// Create validates the transactions against the market and creates a portfolio. The current
// portfolio is unchanged.
func (s *Session) Create(ctx context.Context, name string, format Format, txs []Transaction) (*Portfolio, error) {
	if err := s.validator.Check(ctx, txs); err != nil {
		return nil, err
	}
	return NewPortfolio(name, format, txs)
}

// CreateAndSet creates a portfolio like Create and makes it the current one, without plans.
func (s *Session) CreateAndSet(ctx context.Context, name string, format Format, txs []Transaction) (*Portfolio, error) {
	p, err := s.Create(ctx, name, format, txs)
	if err != nil {
		return nil, err
	}
	s.Set(p, nil)
	return p, nil
}

// Set makes p and its plans the current portfolio. A nil p clears the current portfolio.
func (s *Session) Set(p *Portfolio, plans []Plan) {
	if p == nil {
		s.current.Store(nil)
		s.log.Infow("current portfolio cleared")
		return
	}
	s.current.Store(&state{portfolio: p, plans: slices.Clone(plans)})
	s.log.Infow("current portfolio set", "portfolio", p.Name(), "transactions", p.Len(), "plans", len(plans))
}

// Load reads a portfolio in text format, and optionally its plans in JSONL, and makes it the
// current portfolio.
func (s *Session) Load(name string, portfolio io.Reader, plans io.Reader) error {
	p, err := DecodePortfolio(name, portfolio)
	if err != nil {
		return err
	}
	var ps []Plan
	if plans != nil {
		if ps, err = DecodePlans(plans); err != nil {
			return fmt.Errorf("cannot read plans of %q: %w", name, err)
		}
	}
	s.Set(p, ps)
	return nil
}

// Save writes the current portfolio in text format.
func (s *Session) Save(w io.Writer) error {
	st, err := s.state()
	if err != nil {
		return err
	}
	return EncodePortfolio(w, st.portfolio)
}

// SavePlans writes the current portfolio plans in JSONL.
func (s *Session) SavePlans(w io.Writer) error {
	st, err := s.state()
	if err != nil {
		return err
	}
	return EncodePlans(w, st.plans)
}

// String returns the current portfolio in text format.
func (s *Session) String() string {
	var buf bytes.Buffer
	if err := s.Save(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// Portfolio returns the current portfolio, or nil.
func (s *Session) Portfolio() *Portfolio {
	if st := s.current.Load(); st != nil {
		return st.portfolio
	}
	return nil
}

// Plans returns a copy of the current portfolio plans.
func (s *Session) Plans() []Plan {
	if st := s.current.Load(); st != nil {
		return slices.Clone(st.plans)
	}
	return nil
}

func (s *Session) state() (*state, error) {
	st := s.current.Load()
	if st == nil {
		return nil, ErrNoPortfolio
	}
	return st, nil
}

// swap replaces old by next in the slot.
func (s *Session) swap(old, next *state) error {
	if !s.current.CompareAndSwap(old, next) {
		return ErrConflict
	}
	return nil
}

// AddTransactions validates the transactions against the market and replaces the current
// portfolio by one that also holds them.
func (s *Session) AddTransactions(ctx context.Context, txs ...Transaction) (*Portfolio, error) {
	st, err := s.state()
	if err != nil {
		return nil, err
	}
	if st.portfolio.IsReadOnly() {
		return nil, fmt.Errorf("cannot add transactions to %q: %w: %w", st.portfolio.Name(), ErrValidation, ErrReadOnly)
	}
	if err := s.validator.Check(ctx, txs); err != nil {
		return nil, err
	}
	p, err := st.portfolio.WithTransactions(txs...)
	if err != nil {
		return nil, err
	}
	if err := s.swap(st, &state{portfolio: p, plans: st.plans}); err != nil {
		return nil, err
	}
	s.log.Infow("transactions added", "portfolio", p.Name(), "count", len(txs))
	return p, nil
}

// AddPlan attaches a recurring plan to the current portfolio.
func (s *Session) AddPlan(plan Plan) error {
	st, err := s.state()
	if err != nil {
		return err
	}
	if st.portfolio.IsReadOnly() {
		return fmt.Errorf("cannot add plan %q to %q: %w", plan.Name, st.portfolio.Name(), ErrReadOnly)
	}
	if err := plan.Validate(); err != nil {
		return err
	}
	plans := append(slices.Clone(st.plans), plan)
	return s.swap(st, &state{portfolio: st.portfolio, plans: plans})
}

// RunPlans generates the buys due by every plan up to today, adds them to the current portfolio
// and advances the plans. It returns the added transactions.
func (s *Session) RunPlans(ctx context.Context, today date.Date) ([]Transaction, error) {
	st, err := s.state()
	if err != nil {
		return nil, err
	}
	var all []Transaction
	plans := slices.Clone(st.plans)
	for i, plan := range plans {
		txs, err := s.runner.Run(ctx, today, plan)
		if err != nil {
			return nil, fmt.Errorf("cannot run plan %q: %w", plan.Name, err)
		}
		plans[i] = plan.Advance(txs)
		all = append(all, txs...)
	}
	if len(all) == 0 {
		return nil, nil
	}
	if err := s.validator.Check(ctx, all); err != nil {
		return nil, err
	}
	p, err := st.portfolio.WithTransactions(all...)
	if err != nil {
		return nil, err
	}
	if err := s.swap(st, &state{portfolio: p, plans: plans}); err != nil {
		return nil, err
	}
	s.log.Infow("plans run", "portfolio", p.Name(), "plans", len(plans), "transactions", len(all))
	stableSort(all)
	return all, nil
}

// Value prices the current portfolio on a day. Any missing price is an error.
func (s *Session) Value(ctx context.Context, on date.Date) (PortfolioWithValue, error) {
	st, err := s.state()
	if err != nil {
		return PortfolioWithValue{}, err
	}
	return s.engine.Value(ctx, st.portfolio, on)
}

// CostBasis computes the cost basis of the current portfolio on a day.
func (s *Session) CostBasis(ctx context.Context, on date.Date) (Money, error) {
	st, err := s.state()
	if err != nil {
		return Money{}, err
	}
	return s.engine.CostBasis(ctx, st.portfolio, on)
}

// Values prices the current portfolio on every day of a range, omitting days without price.
func (s *Session) Values(ctx context.Context, from, to date.Date) (*date.History[Money], error) {
	st, err := s.state()
	if err != nil {
		return nil, err
	}
	return s.engine.Values(ctx, st.portfolio, from, to)
}

// Performance reports the current portfolio value over a range.
func (s *Session) Performance(ctx context.Context, from, to date.Date) (*PerformanceReport, error) {
	st, err := s.state()
	if err != nil {
		return nil, err
	}
	return s.engine.Performance(ctx, st.portfolio, from, to)
}
