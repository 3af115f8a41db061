package model

import (
	"time"

	"github.com/google/uuid"
)

// RunReport is the aggregated result of one probe run.
//
// Durations are encoded in JSON as integer nanoseconds, the default
// encoding of time.Duration.
type RunReport struct {
	// RunID uniquely identifies the run in logs and reports.
	RunID string `json:"runId"`

	// SeedURL is the normalized seed target.
	SeedURL string `json:"seedUrl"`

	// Method is the HTTP method used by the workers.
	Method Method `json:"method"`

	// FollowLinks is true when the run was in crawl mode.
	FollowLinks bool `json:"followLinks"`

	// Workers is the number of concurrent workers.
	Workers int `json:"workers"`

	// StartedAt is when the run began (before the initial probe).
	StartedAt time.Time `json:"startedAt"`

	// Elapsed is the total wall-clock time of the run.
	Elapsed time.Duration `json:"elapsed"`

	// ProbeLatency is the latency of the initial liveness probe.
	ProbeLatency time.Duration `json:"probeLatency"`

	// Requested is the configured total number of requests.
	Requested int `json:"requested"`

	// Attempted is the number of requests actually issued by workers.
	// It equals Requested unless the run was cancelled.
	Attempted int `json:"attempted"`

	// Completed is the number of successful requests (timing samples).
	Completed int `json:"completed"`

	// Failed is the number of attempts that failed, either at the
	// transport level or with a non-success status.
	Failed int `json:"failed"`

	// Mean, Max and Min summarize the successful request latencies.
	// They are zero when Completed is zero.
	Mean time.Duration `json:"mean"`
	Max  time.Duration `json:"max"`
	Min  time.Duration `json:"min"`

	// UniqueSites is the number of distinct URLs reached by crawling.
	UniqueSites int `json:"uniqueSites"`

	// BlacklistedPaths lists the paths added to the filter set because
	// they returned a non-success status, in insertion order.
	BlacklistedPaths []string `json:"blacklistedPaths,omitempty"`

	// Cancelled is true when the run stopped before every worker had
	// issued its share of requests.
	Cancelled bool `json:"cancelled"`
}

// NewRunReport creates a RunReport for the given seed with a fresh run ID.
func NewRunReport(seedURL string, method Method, followLinks bool, workers int) *RunReport {
	return &RunReport{
		RunID:            uuid.NewString(),
		SeedURL:          seedURL,
		Method:           method,
		FollowLinks:      followLinks,
		Workers:          workers,
		StartedAt:        time.Now(),
		BlacklistedPaths: make([]string, 0),
	}
}

// HasSamples reports whether at least one request succeeded.
func (r *RunReport) HasSamples() bool {
	return r.Completed > 0
}

// SuccessRate returns the percentage of attempted requests that succeeded.
// It returns 0 when nothing was attempted.
func (r *RunReport) SuccessRate() float64 {
	if r.Attempted == 0 {
		return 0
	}
	return float64(r.Completed) / float64(r.Attempted) * 100
}
