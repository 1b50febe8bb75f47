package engine

import (
	"github.com/LerianStudio/ledger-replay/replay/log"
	"github.com/LerianStudio/ledger-replay/replay/opentelemetry/metrics"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Rejections are logged at debug level and the
// run summary at info level.
func WithLogger(logger log.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics sets the metrics factory used to count processed transactions.
func WithMetrics(factory *metrics.MetricsFactory) Option {
	return func(e *Engine) {
		if factory != nil {
			e.metrics = factory
		}
	}
}

// WithRunID tags every log line of the engine with run_id.
func WithRunID(runID string) Option {
	return func(e *Engine) {
		e.runID = runID
	}
}
