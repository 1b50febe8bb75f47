package metrics

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/LerianStudio/ledger-replay/replay/log"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// MetricsFactory creates and caches OpenTelemetry instruments by name.
type MetricsFactory struct {
	meter      metric.Meter
	counters   sync.Map // string -> metric.Int64Counter
	gauges     sync.Map // string -> metric.Int64Gauge
	histograms sync.Map // string -> metric.Int64Histogram
	logger     log.Logger
}

// ErrNilMeter indicates that a nil OTEL meter was provided.
var ErrNilMeter = errors.New("metric meter cannot be nil")

// Metric describes an instrument.
type Metric struct {
	Name        string
	Description string
	Unit        string
	// Buckets are histogram bucket boundaries; ignored by counters and gauges.
	Buckets []float64
}

var (
	// MetricTransactionsProcessed counts every transaction the engine consumed,
	// labelled by kind and outcome (applied or rejected).
	MetricTransactionsProcessed = Metric{
		Name:        "ledger_replay_transactions_processed",
		Unit:        "1",
		Description: "Number of transactions consumed by the replay engine.",
	}

	// MetricAccountsTracked reports how many accounts a run ended with.
	MetricAccountsTracked = Metric{
		Name:        "ledger_replay_accounts_tracked",
		Unit:        "1",
		Description: "Number of accounts referenced during a replay run.",
	}

	// MetricRunDuration measures a whole replay run in milliseconds.
	MetricRunDuration = Metric{
		Name:        "ledger_replay_run_duration",
		Unit:        "ms",
		Description: "Wall time of a replay run.",
		Buckets:     []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 10000, 60000},
	}
)

// NewMetricsFactory creates a new MetricsFactory instance.
func NewMetricsFactory(meter metric.Meter, logger log.Logger) (*MetricsFactory, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}

	return &MetricsFactory{
		meter:  meter,
		logger: log.OrNop(logger),
	}, nil
}

// NewNopFactory returns a MetricsFactory backed by OpenTelemetry's no-op meter.
func NewNopFactory() *MetricsFactory {
	return &MetricsFactory{
		meter:  noop.NewMeterProvider().Meter("nop"),
		logger: log.NewNop(),
	}
}

// Counter creates or retrieves a counter and returns a builder for it.
func (f *MetricsFactory) Counter(m Metric) (*CounterBuilder, error) {
	counter, err := getOrCreate(f, &f.counters, m, func() (metric.Int64Counter, error) {
		return f.meter.Int64Counter(m.Name, metric.WithDescription(m.Description), metric.WithUnit(m.Unit))
	})
	if err != nil {
		return nil, err
	}

	return &CounterBuilder{counter: counter}, nil
}

// Gauge creates or retrieves a gauge and returns a builder for it.
func (f *MetricsFactory) Gauge(m Metric) (*GaugeBuilder, error) {
	gauge, err := getOrCreate(f, &f.gauges, m, func() (metric.Int64Gauge, error) {
		return f.meter.Int64Gauge(m.Name, metric.WithDescription(m.Description), metric.WithUnit(m.Unit))
	})
	if err != nil {
		return nil, err
	}

	return &GaugeBuilder{gauge: gauge}, nil
}

// Histogram creates or retrieves a histogram and returns a builder for it.
func (f *MetricsFactory) Histogram(m Metric) (*HistogramBuilder, error) {
	histogram, err := getOrCreate(f, &f.histograms, m, func() (metric.Int64Histogram, error) {
		opts := []metric.Int64HistogramOption{metric.WithDescription(m.Description), metric.WithUnit(m.Unit)}
		if len(m.Buckets) > 0 {
			opts = append(opts, metric.WithExplicitBucketBoundaries(m.Buckets...))
		}

		return f.meter.Int64Histogram(m.Name, opts...)
	})
	if err != nil {
		return nil, err
	}

	return &HistogramBuilder{histogram: histogram}, nil
}

func getOrCreate[T any](f *MetricsFactory, cache *sync.Map, m Metric, create func() (T, error)) (T, error) {
	var zero T

	if cached, exists := cache.Load(m.Name); exists {
		if instrument, ok := cached.(T); ok {
			return instrument, nil
		}

		return zero, fmt.Errorf("instrument cache contains invalid type for %q", m.Name)
	}

	instrument, err := create()
	if err != nil {
		f.logger.Log(context.Background(), log.LevelError, "failed to create metric instrument",
			log.String("metric_name", m.Name), log.Err(err))

		return zero, fmt.Errorf("create instrument %q: %w", m.Name, err)
	}

	actual, _ := cache.LoadOrStore(m.Name, instrument)
	if stored, ok := actual.(T); ok {
		return stored, nil
	}

	return zero, fmt.Errorf("instrument cache contains invalid type for %q", m.Name)
}
