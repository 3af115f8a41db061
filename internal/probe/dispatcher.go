package probe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/url"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/crawlprobe/internal/crawler"
	"github.com/nao1215/crawlprobe/internal/model"
	"github.com/nao1215/crawlprobe/internal/stats"
)

// defaultTimeout is used for RequestTimeout and ProbeTimeout when unset.
const defaultTimeout = 10 * time.Second

// Sender sends one HTTP request and reports its outcome.
// transport.Client satisfies it.
type Sender interface {
	Send(ctx context.Context, method model.Method, url string, timeout time.Duration) model.Outcome
	Close()
}

// SenderFactory creates the Sender owned by one worker (or by the probe).
type SenderFactory func() Sender

// Options is the immutable description of one run.
type Options struct {
	// SeedURL is the absolute URL every worker starts from and falls back to.
	SeedURL string

	// TotalRequests is the number of worker requests, excluding the probe.
	TotalRequests int

	// Workers is the number of concurrent workers.
	Workers int

	// FollowLinks enables crawl mode.
	FollowLinks bool

	// Method is used for worker requests. The probe always uses GET.
	Method model.Method

	// RequestTimeout bounds each worker request. Zero means 10s.
	RequestTimeout time.Duration

	// ProbeTimeout bounds the liveness probe. Zero means 10s.
	ProbeTimeout time.Duration

	// Filters are the static link filters. Nil means crawler.DefaultFilters.
	Filters []string
}

// Dispatcher runs the probe and the worker pool.
type Dispatcher struct {
	opts      Options
	newSender SenderFactory
	logger    *slog.Logger
	out       io.Writer
	randSeed  *uint64
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for per-request warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithOutput sets where the "Probing: <url>" line is written.
func WithOutput(w io.Writer) Option {
	return func(d *Dispatcher) {
		if w != nil {
			d.out = w
		}
	}
}

// WithRandSeed makes link selection reproducible. Worker i uses the
// PCG source (seed, i).
func WithRandSeed(seed uint64) Option {
	return func(d *Dispatcher) {
		d.randSeed = &seed
	}
}

// New validates opts and creates a Dispatcher.
func New(opts Options, newSender SenderFactory, options ...Option) (*Dispatcher, error) {
	if opts.Workers < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWorkers, opts.Workers)
	}
	if opts.TotalRequests < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRequestCount, opts.TotalRequests)
	}
	if u, err := url.Parse(opts.SeedURL); err != nil || !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeedURL, opts.SeedURL)
	}
	if newSender == nil {
		return nil, ErrNilSenderFactory
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultTimeout
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = defaultTimeout
	}
	if opts.Filters == nil {
		opts.Filters = crawler.DefaultFilters()
	}

	d := &Dispatcher{
		opts:      opts,
		newSender: newSender,
		logger:    slog.Default(),
		out:       io.Discard,
	}
	for _, opt := range options {
		opt(d)
	}
	return d, nil
}

// runState is shared by all workers of one run.
type runState struct {
	filters   *crawler.FilterSet
	visited   *crawler.VisitedSet
	timings   *stats.Collector
	attempted atomic.Int64
	failed    atomic.Int64
}

// Run probes the seed and, if it answers 200, runs the worker pool to
// completion and returns the report.
//
// A failed probe returns ErrProbeFailed and no report. Cancelling ctx stops
// workers from starting new requests while in-flight requests finish; the
// partial report is returned with Cancelled set and a nil error.
func (d *Dispatcher) Run(ctx context.Context) (*model.RunReport, error) {
	o := d.opts
	report := model.NewRunReport(o.SeedURL, o.Method, o.FollowLinks, o.Workers)
	report.Requested = o.TotalRequests
	logger := d.logger.With("run_id", report.RunID)

	fmt.Fprintf(d.out, "Probing: %s\n", o.SeedURL)
	probe := d.probe(ctx)
	report.ProbeLatency = probe.Latency
	if !probe.Succeeded() {
		if probe.Failed() {
			return nil, fmt.Errorf("%w: %w", ErrProbeFailed, probe.Err)
		}
		return nil, fmt.Errorf("%w: %s returned status %d", ErrProbeFailed, o.SeedURL, probe.StatusCode)
	}
	logger.Debug("initial check passed", "url", o.SeedURL, "latency", probe.Latency)

	state := &runState{
		filters: crawler.NewFilterSet(o.Filters),
		visited: crawler.NewVisitedSet(),
		timings: stats.NewCollector(o.TotalRequests),
	}
	staticFilters := state.filters.Len()

	shares := Partition(o.TotalRequests, o.Workers)
	logger.Debug("starting workers", "workers", len(shares), "requests", o.TotalRequests, "follow_links", o.FollowLinks)

	var g errgroup.Group
	for i, n := range shares {
		w, err := d.newWorker(i, n, state, logger)
		if err != nil {
			return nil, err
		}
		g.Go(func() error {
			w.run(ctx)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // workers never return errors

	summary := state.timings.Summary()
	report.Attempted = int(state.attempted.Load())
	report.Completed = summary.Count
	report.Failed = int(state.failed.Load())
	report.Mean = summary.Mean
	report.Max = summary.Max
	report.Min = summary.Min
	report.UniqueSites = state.visited.Len()
	report.BlacklistedPaths = append(report.BlacklistedPaths, state.filters.Entries()[staticFilters:]...)
	report.Cancelled = report.Attempted < report.Requested || ctx.Err() != nil
	report.Elapsed = time.Since(report.StartedAt)

	logger.Debug("run finished",
		"attempted", report.Attempted,
		"completed", report.Completed,
		"failed", report.Failed,
		"elapsed", report.Elapsed,
	)
	return report, nil
}

// probe sends the liveness GET with its own short-lived sender.
func (d *Dispatcher) probe(ctx context.Context) model.Outcome {
	s := d.newSender()
	defer s.Close()
	return s.Send(ctx, model.MethodGet, d.opts.SeedURL, d.opts.ProbeTimeout)
}

func (d *Dispatcher) newWorker(id, assigned int, state *runState, logger *slog.Logger) (*worker, error) {
	var src rand.Source
	if d.randSeed != nil {
		src = rand.NewPCG(*d.randSeed, uint64(id)) //nolint:gosec // id is a small non-negative index
	} else {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}

	picker, err := crawler.NewPicker(d.opts.SeedURL, state.filters, state.visited, rand.New(src)) //nolint:gosec // link choice, not security
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeedURL, err)
	}

	return &worker{
		id:          id,
		assigned:    assigned,
		seed:        d.opts.SeedURL,
		method:      d.opts.Method,
		timeout:     d.opts.RequestTimeout,
		followLinks: d.opts.FollowLinks,
		newSender:   d.newSender,
		picker:      picker,
		state:       state,
		logger:      logger.With("worker", id),
	}, nil
}
