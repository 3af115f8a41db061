// Package stats collects request latencies from concurrent workers and
// summarizes them once a run has finished.
//
// Collector is safe for concurrent use. Samples are appended under a
// mutex and never removed; Summary reads a consistent snapshot.
package stats
