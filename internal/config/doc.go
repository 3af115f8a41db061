// Package config holds the settings of a probe run.
//
// A Config starts from NewConfig defaults, is updated from an optional
// YAML file (see FindConfigFile and File.Apply) and then from the command
// line flags the user actually set. Validate is called once before the run
// starts and returns one of the sentinel errors in errors.go.
package config
