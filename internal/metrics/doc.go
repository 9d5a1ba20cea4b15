// Package metrics registers the Prometheus collectors cinepick exposes on
// /metrics.
package metrics
