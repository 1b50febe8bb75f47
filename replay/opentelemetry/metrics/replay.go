package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// Outcome labels of MetricTransactionsProcessed.
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
)

// RecordTransactionProcessed counts one consumed transaction.
func (f *MetricsFactory) RecordTransactionProcessed(ctx context.Context, kind, outcome string) error {
	b, err := f.Counter(MetricTransactionsProcessed)
	if err != nil {
		return err
	}

	return b.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	).AddOne(ctx)
}

// RecordAccountsTracked sets the account gauge at the end of a run.
func (f *MetricsFactory) RecordAccountsTracked(ctx context.Context, count int) error {
	b, err := f.Gauge(MetricAccountsTracked)
	if err != nil {
		return err
	}

	return b.Set(ctx, int64(count))
}

// RecordRunDuration records the wall time of one run.
func (f *MetricsFactory) RecordRunDuration(ctx context.Context, milliseconds int64) error {
	b, err := f.Histogram(MetricRunDuration)
	if err != nil {
		return err
	}

	return b.Record(ctx, milliseconds)
}
