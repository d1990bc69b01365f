package folio

import (
	"context"
	"fmt"

	"github.com/etnz/folio/date"
	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

// MaxMarkers is the width of the widest bar of a linear scale.
const MaxMarkers = 45

// Granularity returns the bucket period used to display a range.
//
// The first rule that matches wins: up to 30 days, up to 23 weeks, 5 to 30 months, less than
// 29 quarters, up to 30 years. Longer ranges use 2-year buckets.
func Granularity(r date.Range) date.Period {
	days, weeks, months, years := r.Units()
	switch {
	case days <= 30:
		return date.Daily
	case weeks <= 23:
		return date.Weekly
	case months >= 5 && months <= 30:
		return date.Monthly
	case months/3 < 29:
		return date.Quarterly
	case years <= 30:
		return date.Yearly
	default:
		return date.Biennial
	}
}

// Bucket is one line of a performance report.
type Bucket struct {
	Label  string
	Period date.Range // days covered by the bucket, clamped to the report range
	Sample date.Date  // representative day
	Found  date.Date  // day the value was read from, on or before Sample
	Value  Money
	Known  bool // false when no value exists between the report start and Sample
}

// NewBuckets splits a range into buckets of the given period and reads each bucket value from
// a daily series.
//
// The representative day is the bucket last day, except for weeks where it is the Friday. When
// the series has no value on that day, the closest previous value is used, but never one from
// before the range start.
func NewBuckets(r date.Range, period date.Period, series *date.History[Money]) []Bucket {
	var buckets []Bucket
	for cur := r.From; !cur.After(r.To); {
		end := date.Min(cur.EndOf(period), r.To)
		b := Bucket{
			Label:  label(period, cur, end),
			Period: date.Range{From: cur, To: end},
			Sample: end,
		}
		if period == date.Weekly {
			if friday := cur.EndOf(date.Weekly).Add(-2); b.Period.Contains(friday) {
				b.Sample = friday
			}
		}
		if series != nil {
			b.Found, b.Value, b.Known = series.ValueAsOf(b.Sample, r.From)
		}
		buckets = append(buckets, b)
		cur = end.Add(1)
	}
	return buckets
}

func label(period date.Period, from, to date.Date) string {
	switch period {
	case date.Weekly:
		return fmt.Sprintf("Week: %s to %s", from, to)
	case date.Monthly:
		return fmt.Sprintf("%d-%d", to.Year(), int(to.Month()))
	case date.Quarterly:
		return fmt.Sprintf("%d-Quarter %d", to.Year(), to.Quarter())
	case date.Yearly:
		return fmt.Sprintf("%d", from.Year())
	case date.Biennial:
		return fmt.Sprintf("%d to %d", from.Year(), to.Year())
	default:
		return from.String()
	}
}

// ScaleKind tells how values map to markers.
type ScaleKind int

const (
	// ZeroScale is used when every value is zero, no marker is drawn.
	ZeroScale ScaleKind = iota
	// FlatScale is used when every non zero value is the same, each is drawn with one marker.
	FlatScale
	// LinearScale draws (value - Base) / Unit markers.
	LinearScale
)

// Scale maps a value to a number of markers.
type Scale struct {
	Kind ScaleKind
	Unit Money
	Base Money
}

// NewScale computes the scale of a set of values.
//
// Zeros are excluded from the minimum. The base is set one unit and one dollar below the
// minimum so that the smallest non zero value always gets at least one marker.
func NewScale(values []Money) Scale {
	var hi, lo Money
	hasLo := false
	for _, v := range values {
		if v.GreaterThan(hi) {
			hi = v
		}
		if !v.IsZero() && (!hasLo || v.LessThan(lo)) {
			lo, hasLo = v, true
		}
	}
	switch {
	case !hasLo:
		return Scale{Kind: ZeroScale}
	case hi.Equal(lo):
		return Scale{Kind: FlatScale, Unit: hi}
	}
	unit := Money{value: hi.value.Sub(lo.value).Div(decimal.NewFromInt(MaxMarkers))}
	return Scale{Kind: LinearScale, Unit: unit, Base: lo.Sub(unit).Sub(M(1))}
}

// Markers returns the number of markers for a value. Zero values get none.
func (s Scale) Markers(v Money) int {
	if v.IsZero() {
		return 0
	}
	switch s.Kind {
	case FlatScale:
		return 1
	case LinearScale:
		return int(v.value.Sub(s.Base.value).Div(s.Unit.value).Floor().IntPart())
	default:
		return 0
	}
}

// String describes the scale to the reader of a chart.
func (s Scale) String() string {
	switch s.Kind {
	case FlatScale:
		return fmt.Sprintf("one asterisk is %s", s.Unit)
	case LinearScale:
		return fmt.Sprintf("one asterisk is %s more than a base amount of %s", s.Unit, s.Base)
	default:
		return "all values are zero"
	}
}

// Summary holds descriptive statistics of the known bucket values.
type Summary struct {
	Count  int
	Min    Money
	Max    Money
	Mean   Money
	Median Money
	StdDev Money // sample standard deviation, zero with less than two values
}

func summarize(values []Money) Summary {
	s := Summary{Count: len(values)}
	if len(values) == 0 {
		return s
	}
	data := make(stats.Float64Data, len(values))
	for i, v := range values {
		data[i] = v.AsFloat()
	}
	if v, err := stats.Min(data); err == nil {
		s.Min = M(v)
	}
	if v, err := stats.Max(data); err == nil {
		s.Max = M(v)
	}
	if v, err := stats.Mean(data); err == nil {
		s.Mean = M(v)
	}
	if v, err := stats.Median(data); err == nil {
		s.Median = M(v)
	}
	if len(values) > 1 {
		if v, err := stats.StandardDeviationSample(data); err == nil {
			s.StdDev = M(v)
		}
	}
	return s
}

// PerformanceReport shows the value of a portfolio over a range in at most a few dozen buckets.
type PerformanceReport struct {
	Portfolio   string
	Range       date.Range
	Granularity date.Period
	Buckets     []Bucket
	Markers     []int // markers per bucket, same order
	Scale       Scale
	Summary     Summary
}

// NewPerformanceReport builds a report from a daily value series.
func NewPerformanceReport(name string, r date.Range, series *date.History[Money]) (*PerformanceReport, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	g := Granularity(r)
	report := &PerformanceReport{
		Portfolio:   name,
		Range:       r,
		Granularity: g,
		Buckets:     NewBuckets(r, g, series),
	}
	known := make([]Money, 0, len(report.Buckets))
	for _, b := range report.Buckets {
		if b.Known {
			known = append(known, b.Value)
		}
	}
	report.Scale = NewScale(known)
	report.Summary = summarize(known)
	report.Markers = make([]int, len(report.Buckets))
	for i, b := range report.Buckets {
		report.Markers[i] = report.Scale.Markers(b.Value)
	}
	return report, nil
}

// Performance values the portfolio over a range and condenses it into a report.
//
// The range start must be a priced day.
func (e *Engine) Performance(ctx context.Context, p *Portfolio, from, to date.Date) (*PerformanceReport, error) {
	series, err := e.Values(ctx, p, from, to)
	if err != nil {
		return nil, err
	}
	if _, ok := series.Get(from); !ok {
		return nil, fmt.Errorf("cannot report performance of %q from %s: %w", p.Name(), from, ErrPriceNotFound)
	}
	return NewPerformanceReport(p.Name(), date.Range{From: from, To: to}, series)
}
