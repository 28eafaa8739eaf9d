// Package metrics records build pipeline observations.
//
// Components take a Recorder and default to NoopRecorder, so metrics collection
// never needs nil checks. PrometheusRecorder is the real implementation and is
// served by HTTPHandler on the preview server's /metrics endpoint.
//
// Observed values:
//
//   - build duration and outcome (success, warning, failed)
//   - stage durations and results for load, verify and write
//   - posts loaded and per-document failures
//   - markdown render duration per document
package metrics
