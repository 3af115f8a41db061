// Package transport sends the HTTP requests of a probe run.
//
// Client wraps net/http with a per-request timeout, a response body size
// limit and latency measurement. Every call returns a model.Outcome; errors
// travel inside the outcome instead of being returned, so a worker can
// classify the result in one place.
//
// Each worker owns its own Client and closes it when it stops. A Client can
// be routed through Tor by passing the dialer of a tor.Client with
// WithDialContext.
package transport
