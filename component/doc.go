// Package component defines lifecycle-managed infrastructure pieces (HTTP
// server, database, telemetry exporters) and a registry that starts them in
// order, stops them in reverse and aggregates their health.
//
// Aggregated health is itself a result: Registry.Check succeeds with every
// component's Health when all are healthy or degraded, and fails with a
// Generic error naming the first unhealthy component otherwise.
package component
