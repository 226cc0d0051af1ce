// Package prometheus renders jwtgate metrics in Prometheus text
// exposition format.
//
// [NewPrometheusExporter] accepts a [jwtgate.Engine] and exposes an
// [http.Handler] that renders all jwtgate counters and histograms.
// Counter names are prefixed jwtgate_*_total; the single histogram is
// jwtgate_validate_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount
//     the Handler.
//   - Mutate engine state.
package prometheus
