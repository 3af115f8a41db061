package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/crawlprobe/internal/crawler"
	"github.com/nao1215/crawlprobe/internal/model"
	"github.com/nao1215/crawlprobe/internal/tor"
)

// Default configuration values.
const (
	// AppName is used for XDG paths and the default User-Agent.
	AppName = "crawlprobe"

	// DefaultRequests is the default total number of requests.
	DefaultRequests = 100

	// DefaultWorkers is the default number of concurrent workers.
	DefaultWorkers = 10

	// DefaultTimeout bounds each worker request.
	DefaultTimeout = 10 * time.Second

	// DefaultProbeTimeout bounds the initial liveness probe.
	DefaultProbeTimeout = 10 * time.Second

	// DefaultUserAgent identifies probe traffic in server logs.
	DefaultUserAgent = "crawlprobe/1.0 (+https://github.com/nao1215/crawlprobe)"

	// DefaultMaxBodySize limits how much of each response body is read.
	DefaultMaxBodySize int64 = 10 * 1024 * 1024

	// DefaultTorStartupTimeout bounds the embedded Tor bootstrap.
	DefaultTorStartupTimeout = tor.DefaultStartupTimeout
)

// Config holds every setting of one probe run.
type Config struct {
	// URL is the seed URL. Use NormalizeURL before storing user input.
	URL string

	// Requests is the total number of worker requests.
	Requests int

	// Workers is the number of concurrent workers.
	Workers int

	// FollowLinks enables crawl mode.
	FollowLinks bool

	// FollowRedirects makes the transport follow 3xx responses.
	// When false a redirect counts as a failing path.
	FollowRedirects bool

	// Method is used for every worker request. The probe always uses GET.
	Method model.Method

	// Timeout bounds each worker request.
	Timeout time.Duration

	// ProbeTimeout bounds the initial liveness probe.
	ProbeTimeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// MaxBodySize limits how many bytes of each response body are read.
	// Zero means DefaultMaxBodySize.
	MaxBodySize int64

	// Filters are the static link filters. The filter set of a run starts
	// with these and grows with failing paths.
	Filters []string

	// Headers are extra request headers.
	Headers map[string]string

	// Cookie is a raw Cookie header value.
	Cookie string

	// Verbose lowers the log level to Debug.
	Verbose bool

	// JSONReport selects the JSON report.
	JSONReport bool

	// MarkdownReport selects the Markdown report.
	MarkdownReport bool

	// ReportFile receives the report instead of stdout when set.
	ReportFile string

	// ConfigFilePath is the explicit --config path, if any.
	ConfigFilePath string

	// UseEmbeddedTor starts a private Tor daemon for the run.
	UseEmbeddedTor bool

	// TorProxyAddress is an external Tor SOCKS5 proxy ("host:port").
	TorProxyAddress string

	// TorStartupTimeout bounds the embedded Tor bootstrap.
	TorStartupTimeout time.Duration
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		Requests:          DefaultRequests,
		Workers:           DefaultWorkers,
		Method:            model.MethodGet,
		Timeout:           DefaultTimeout,
		ProbeTimeout:      DefaultProbeTimeout,
		UserAgent:         DefaultUserAgent,
		MaxBodySize:       DefaultMaxBodySize,
		Filters:           crawler.DefaultFilters(),
		Headers:           make(map[string]string),
		TorStartupTimeout: DefaultTorStartupTimeout,
	}
}

// UsesTor reports whether requests are routed through Tor.
func (c *Config) UsesTor() bool {
	return c.UseEmbeddedTor || c.TorProxyAddress != ""
}

// Validate returns the first problem found, or nil.
func (c *Config) Validate() error {
	if c.URL == "" {
		return ErrNoURL
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, c.URL)
	}

	if c.Requests < 0 {
		return ErrInvalidRequestCount
	}
	if c.Workers < 1 {
		return ErrInvalidWorkers
	}
	if !c.Method.IsValid() {
		return model.ErrUnknownMethod
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.ProbeTimeout <= 0 {
		return ErrInvalidProbeTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.UseEmbeddedTor && c.TorProxyAddress != "" {
		return ErrConflictingTorOptions
	}

	return tor.ValidateHost(u.Hostname(), c.UsesTor())
}

// XDGConfigDir returns the per-user configuration directory,
// e.g. ~/.config/crawlprobe on Linux.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGConfigFile returns the configuration file path inside XDGConfigDir.
func XDGConfigFile() string {
	return filepath.Join(XDGConfigDir(), "config.yaml")
}
