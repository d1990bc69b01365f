package folio

import (
	"context"
	"time"

	"github.com/etnz/folio/date"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts price source usage and scheduling activity.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	QuoteRequests    *prometheus.CounterVec
	SkippedDays      prometheus.Counter
	SkippedPeriods   prometheus.Counter
	PlannedBuys      prometheus.Counter
	RangeScanSeconds prometheus.Histogram
}

// NewMetrics creates the metrics and registers them in reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		QuoteRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "folio",
			Name:      "quote_requests_total",
			Help:      "Number of quote requests by outcome (ok, missing, error).",
		}, []string{"outcome"}),
		SkippedDays: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "folio",
			Name:      "range_skipped_days_total",
			Help:      "Number of days omitted from range scans because they could not be priced.",
		}),
		SkippedPeriods: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "folio",
			Name:      "plan_skipped_periods_total",
			Help:      "Number of plan periods skipped because no price was found.",
		}),
		PlannedBuys: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "folio",
			Name:      "plan_buys_total",
			Help:      "Number of buy transactions generated by recurring plans.",
		}),
		RangeScanSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "folio",
			Name:      "range_scan_duration_seconds",
			Help:      "Duration of range valuations.",
			Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60},
		}),
	}
	reg.MustRegister(m.QuoteRequests, m.SkippedDays, m.SkippedPeriods, m.PlannedBuys, m.RangeScanSeconds)
	return m
}

func (m *Metrics) quote(err error) {
	if m == nil {
		return
	}
	switch {
	case err == nil:
		m.QuoteRequests.WithLabelValues("ok").Inc()
	case isMissingPrice(err):
		m.QuoteRequests.WithLabelValues("missing").Inc()
	default:
		m.QuoteRequests.WithLabelValues("error").Inc()
	}
}

func (m *Metrics) skippedDay() {
	if m != nil {
		m.SkippedDays.Inc()
	}
}

func (m *Metrics) skippedPeriod() {
	if m != nil {
		m.SkippedPeriods.Inc()
	}
}

func (m *Metrics) plannedBuys(n int) {
	if m != nil {
		m.PlannedBuys.Add(float64(n))
	}
}

func (m *Metrics) rangeScan(start time.Time) {
	if m != nil {
		m.RangeScanSeconds.Observe(time.Since(start).Seconds())
	}
}

// meteredSource counts the quote requests of a PriceSource.
type meteredSource struct {
	PriceSource
	m *Metrics
}

func (s meteredSource) Quote(ctx context.Context, on date.Date, symbol string) (Quote, error) {
	q, err := s.PriceSource.Quote(ctx, on, symbol)
	s.m.quote(err)
	return q, err
}

func (m *Metrics) wrap(src PriceSource) PriceSource {
	if m == nil {
		return src
	}
	return meteredSource{PriceSource: src, m: m}
}
