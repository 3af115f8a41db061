package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoURL is returned when no seed URL is given.
	ErrNoURL = errors.New("no URL specified: pass it as an argument or with --url")

	// ErrInvalidURL is returned when the seed is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid URL: must be an absolute http or https URL")

	// ErrInvalidRequestCount is returned when the total request count is negative.
	ErrInvalidRequestCount = errors.New("invalid number of requests: must be zero or more")

	// ErrInvalidWorkers is returned when fewer than one worker is configured.
	ErrInvalidWorkers = errors.New("invalid number of processes: must be at least 1")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidProbeTimeout is returned when the probe timeout is not positive.
	ErrInvalidProbeTimeout = errors.New("invalid probe timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the body size limit is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown are set.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrConflictingTorOptions is returned when both --tor and --tor-proxy are set.
	ErrConflictingTorOptions = errors.New("conflicting Tor options: --tor and --tor-proxy cannot be used together")
)
