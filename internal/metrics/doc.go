// Package metrics provides Prometheus instrumentation for clipforge.
//
// clipforge is a short-lived CLI, so metrics live on a private registry and
// are exported by writing a node_exporter textfile (metrics.textfile) when a
// command finishes. All metrics are prefixed with "clipforge_".
//
//   - clipforge_conversions_total{kind,outcome}: submissions by result
//   - clipforge_conversion_duration_seconds{kind}: engine wall time
//   - clipforge_session_busy: 1 while a conversion runs
//   - clipforge_output_bytes_total: bytes delivered
package metrics
