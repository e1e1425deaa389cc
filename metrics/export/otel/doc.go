// Package otel publishes campusdesk metrics as OpenTelemetry observable instruments.
//
// [NewExporter] registers one Int64ObservableCounter per counter and one
// Int64ObservableGauge per latency bucket. A single callback reads the desk snapshot on
// each collection cycle.
//
// # What this package must NOT do
//
//   - Own the MeterProvider; callers supply the Meter.
//   - Mutate desk state.
package otel
