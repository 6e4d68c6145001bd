// Package dispatch implements the driven Dispatcher port over net/http.
//
// A Client performs exactly one HTTP call per Dispatch. Before any network
// traffic it enforces the method allow-list and optional body validation.
// Responses are normalised into the domain.Response envelope: JSON bodies
// (and every container upload response) are decoded, anything else is
// returned as an opaque payload. Transport failures never escape as Go
// errors; they come back as 500 envelopes.
//
// Each call is traced with OpenTelemetry, counted in Prometheus when a
// registerer is configured, and paced against the X-Ratelimit headers the
// API returns.
package dispatch
