// Package model defines the data structures shared by the probe engine,
// the HTTP transport and the report writers.
//
// This package contains the following main types:
//   - Method: The closed set of HTTP methods a run can use (GET, POST)
//   - Outcome: The result of a single request attempt
//   - RunReport: The aggregated result of one probe run
//
// Models live in their own package so that transport, probe and report can
// all depend on them without importing each other.
package model
