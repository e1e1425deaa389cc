// Package prometheus publishes campusdesk metrics through prometheus/client_golang.
//
// [Collector] implements prometheus.Collector over a desk's metrics snapshot: one
// campusdesk_*_total counter per metric, the campusdesk_api_latency_seconds histogram
// and the dropped-notice and dropped-session-update counters. [NewRegistry] wraps it in a
// private registry with the Go and process collectors, and [Handler] serves that
// registry.
//
// # What this package must NOT do
//
//   - Register metrics in the global Prometheus registry.
//   - Mutate desk state.
package prometheus
