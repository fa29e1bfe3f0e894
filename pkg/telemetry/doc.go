// Package telemetry provides observers that export case executions to
// zerolog, Prometheus and OpenTelemetry, plus the YAML configuration that
// selects them.
package telemetry
