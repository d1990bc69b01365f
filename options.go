package folio

import (
	"go.uber.org/zap"
)

// DefaultWorkers is the default number of days priced concurrently during a range scan.
const DefaultWorkers = 8

// Option configures an Engine, Runner, Validator or Session.
type Option func(*options)

type options struct {
	log     *zap.SugaredLogger
	metrics *Metrics
	workers int
}

func newOptions(opts []Option) options {
	o := options{log: zap.NewNop().Sugar(), workers: DefaultWorkers}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithMetrics records activity in m.
func WithMetrics(m *Metrics) Option { return func(o *options) { o.metrics = m } }

// WithWorkers bounds the number of days priced concurrently during range scans.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}
