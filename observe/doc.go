// Package observe provides telemetry for the admission-control layer:
// OpenTelemetry tracing and metrics plus structured JSON logging.
//
// The Observer wires exporters (OTLP, Prometheus, stdout) behind a
// single config surface. Admission decisions are recorded through the
// Metrics interface and spanned through the Tracer; credential-bearing
// log fields are redacted by the logger.
package observe
