// Package metrics wraps an OpenTelemetry meter with lazily created, cached
// instruments and records the replay engine's transaction and account metrics.
package metrics
