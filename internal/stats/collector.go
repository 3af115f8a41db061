package stats

import (
	"sync"
	"time"
)

// Summary holds the statistics computed from a set of latency samples.
// All durations are zero when Count is zero.
type Summary struct {
	// Count is the number of samples.
	Count int

	// Total is the sum of all samples.
	Total time.Duration

	// Mean is the arithmetic mean of all samples.
	Mean time.Duration

	// Max is the largest sample.
	Max time.Duration

	// Min is the smallest sample.
	Min time.Duration
}

// IsEmpty reports whether the summary was computed from zero samples.
func (s Summary) IsEmpty() bool {
	return s.Count == 0
}

// Collector accumulates latency samples from concurrent workers.
type Collector struct {
	mu      sync.Mutex
	samples []time.Duration
}

// NewCollector creates an empty Collector.
// The capacity hint preallocates room for the expected number of samples.
func NewCollector(capacity int) *Collector {
	if capacity < 0 {
		capacity = 0
	}
	return &Collector{
		samples: make([]time.Duration, 0, capacity),
	}
}

// Add records one latency sample.
func (c *Collector) Add(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples = append(c.samples, d)
}

// Len returns the number of samples recorded so far.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.samples)
}

// Samples returns a copy of all samples in insertion order.
func (c *Collector) Samples() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.samples))
	copy(out, c.samples)
	return out
}

// Summary computes count, mean, max and min over the recorded samples.
// An empty collector yields a zero Summary.
func (c *Collector) Summary() Summary {
	return Summarize(c.Samples())
}

// Summarize computes a Summary over the given samples.
func Summarize(samples []time.Duration) Summary {
	if len(samples) == 0 {
		return Summary{}
	}

	s := Summary{
		Count: len(samples),
		Max:   samples[0],
		Min:   samples[0],
	}
	for _, d := range samples {
		s.Total += d
		if d > s.Max {
			s.Max = d
		}
		if d < s.Min {
			s.Min = d
		}
	}
	s.Mean = s.Total / time.Duration(s.Count)

	return s
}
