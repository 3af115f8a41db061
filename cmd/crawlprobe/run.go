package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nao1215/crawlprobe/internal/config"
	crawllog "github.com/nao1215/crawlprobe/internal/log"
	"github.com/nao1215/crawlprobe/internal/model"
	"github.com/nao1215/crawlprobe/internal/probe"
	"github.com/nao1215/crawlprobe/internal/report"
	"github.com/nao1215/crawlprobe/internal/tor"
	"github.com/nao1215/crawlprobe/internal/transport"
)

var (
	noticeColor = color.New(color.FgYellow)
	okColor     = color.New(color.FgGreen)
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [url]",
		Short: "Send concurrent requests to a URL and report response times",
		Long: `Run checks that the URL answers 200, then sends the requested number of
requests from a pool of concurrent workers and prints the average and
maximum response time of the successful ones.

A URL without scheme defaults to https. Paths that answer with a status
other than 200 are never followed again in crawl mode.

Examples:
  # 100 GET requests from 10 workers
  crawlprobe run https://example.com

  # 1000 POST requests from 50 workers
  crawlprobe run example.com -n 1000 -p 50 --type post

  # Crawl the site by following links, JSON report
  crawlprobe run https://example.com -f --json

  # Probe an onion service through an external Tor proxy
  crawlprobe run http://<address>.onion --tor-proxy 127.0.0.1:9050`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRunCmd,
	}

	// Target flags
	cmd.Flags().StringP("url", "u", "", "Target URL (alternative to the positional argument)")
	cmd.Flags().IntP("number", "n", config.DefaultRequests, "Total number of requests")
	cmd.Flags().IntP("processes", "p", config.DefaultWorkers, "Number of concurrent workers")
	cmd.Flags().BoolP("follow-links", "f", false, "Follow a random link from each response")
	cmd.Flags().Bool("follow-redirects", false, "Follow HTTP redirects instead of counting them as failures")
	cmd.Flags().String("type", "get", "HTTP method: get or post")

	// Request flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout, "Timeout for each request")
	cmd.Flags().Duration("probe-timeout", config.DefaultProbeTimeout, "Timeout for the initial check")
	cmd.Flags().String("user-agent", config.DefaultUserAgent, "User-Agent header")
	cmd.Flags().StringArrayP("header", "H", nil, `Extra request header as "Name: value" (repeatable)`)
	cmd.Flags().String("cookie", "", "Cookie header sent with every request")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .crawlprobe or $XDG_CONFIG_HOME/crawlprobe/config.yaml)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false, "Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false, "Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "", "Write report to specified file path (creates directories if needed)")

	// Tor flags
	cmd.Flags().Bool("tor", false, "Start an embedded Tor daemon and send requests through it")
	cmd.Flags().String("tor-proxy", "", "Send requests through an existing Tor SOCKS5 proxy (e.g. 127.0.0.1:9050)")
	cmd.Flags().Duration("tor-timeout", config.DefaultTorStartupTimeout, "Timeout for embedded Tor startup")

	return cmd
}

func runRunCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logJSON, _ := cmd.Flags().GetBool("log-json") //nolint:errcheck // persistent flag defined on root
	logger := crawllog.New(cmd.ErrOrStderr(), crawllog.Options{Verbose: cfg.Verbose, JSON: logJSON})
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runProbe(ctx, cmd, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig starts from the defaults, applies the configuration file and
// then every flag the user set explicitly.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	if path := config.FindConfigFile(configPath); path != "" {
		file, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
		if err := file.Apply(cfg); err != nil {
			return nil, fmt.Errorf("failed to apply config file %s: %w", path, err)
		}
		cfg.ConfigFilePath = path
	}

	if flags.Changed("number") {
		if cfg.Requests, err = flags.GetInt("number"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("processes") {
		if cfg.Workers, err = flags.GetInt("processes"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("follow-links") {
		if cfg.FollowLinks, err = flags.GetBool("follow-links"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("follow-redirects") {
		if cfg.FollowRedirects, err = flags.GetBool("follow-redirects"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("type") {
		raw, err := flags.GetString("type")
		if err != nil {
			return nil, err
		}
		if cfg.Method, err = model.ParseMethod(raw); err != nil {
			return nil, fmt.Errorf("configuration error: %w", err)
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("probe-timeout") {
		if cfg.ProbeTimeout, err = flags.GetDuration("probe-timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("header") {
		raw, err := flags.GetStringArray("header")
		if err != nil {
			return nil, err
		}
		if err := applyHeaders(cfg, raw); err != nil {
			return nil, err
		}
	}
	if flags.Changed("cookie") {
		if cfg.Cookie, err = flags.GetString("cookie"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("tor-proxy") {
		if cfg.TorProxyAddress, err = flags.GetString("tor-proxy"); err != nil {
			return nil, err
		}
	}

	if cfg.UseEmbeddedTor, err = flags.GetBool("tor"); err != nil {
		return nil, err
	}
	if cfg.UseEmbeddedTor && !flags.Changed("tor-proxy") {
		cfg.TorProxyAddress = ""
	}
	if cfg.TorStartupTimeout, err = flags.GetDuration("tor-timeout"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	rawURL, err := flags.GetString("url")
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		rawURL = args[0]
	}
	normalized, defaulted := config.NormalizeURL(rawURL)
	if defaulted {
		noticeColor.Fprintln(cmd.ErrOrStderr(), `No protocol given. Defaulting to "https"`) //nolint:errcheck // best effort notice
	}
	cfg.URL = normalized

	return cfg, nil
}

// applyHeaders parses "Name: value" pairs into cfg.Headers.
func applyHeaders(cfg *config.Config, raw []string) error {
	if cfg.Headers == nil {
		cfg.Headers = make(map[string]string, len(raw))
	}
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return fmt.Errorf("invalid header %q (expected \"Name: value\")", h)
		}
		cfg.Headers[name] = strings.TrimSpace(value)
	}
	return nil
}

// runProbe wires the transport, optional Tor connection and dispatcher,
// runs them and writes the report.
func runProbe(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	stderr := cmd.ErrOrStderr()

	opts := []transport.Option{
		transport.WithUserAgent(cfg.UserAgent),
		transport.WithHeaders(cfg.Headers),
		transport.WithCookie(cfg.Cookie),
		transport.WithMaxBodySize(cfg.MaxBodySize),
		transport.WithFollowRedirects(cfg.FollowRedirects),
	}

	if cfg.UsesTor() {
		dial, cleanup, err := connectTor(ctx, stderr, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		// Onion services commonly use self-signed certificates.
		opts = append(opts,
			transport.WithDialContext(dial),
			transport.WithInsecureSkipVerify(isOnionURL(cfg.URL)),
		)
	}

	newSender := func() probe.Sender {
		return transport.NewClient(opts...)
	}

	dispatcher, err := probe.New(probe.Options{
		SeedURL:        cfg.URL,
		TotalRequests:  cfg.Requests,
		Workers:        cfg.Workers,
		FollowLinks:    cfg.FollowLinks,
		Method:         cfg.Method,
		RequestTimeout: cfg.Timeout,
		ProbeTimeout:   cfg.ProbeTimeout,
		Filters:        cfg.Filters,
	}, newSender,
		probe.WithLogger(logger),
		probe.WithOutput(stderr),
	)
	if err != nil {
		return err
	}

	runReport, err := dispatcher.Run(ctx)
	if err != nil {
		return err
	}

	if runReport.Cancelled {
		noticeColor.Fprintf(stderr, "Interrupted after %d of %d requests. Reporting partial results.\n", //nolint:errcheck // best effort notice
			runReport.Attempted, runReport.Requested)
	}

	return outputReport(cmd.OutOrStdout(), cfg, runReport)
}

// connectTor starts the embedded daemon or connects to the configured
// proxy, checks it and returns a dialer plus a cleanup function.
func connectTor(ctx context.Context, stderr io.Writer, cfg *config.Config, logger *slog.Logger) (transport.DialContextFunc, func(), error) {
	var (
		client  *tor.Client
		err     error
		cleanup = func() {}
	)

	if cfg.UseEmbeddedTor {
		fmt.Fprintln(stderr, "Starting embedded Tor daemon...")
		fmt.Fprintf(stderr, "This may take 1-3 minutes while Tor bootstraps and connects to the network.\n\n")

		embedded := tor.NewEmbeddedTor(tor.WithStartupTimeout(cfg.TorStartupTimeout))
		if err := embedded.Start(ctx); err != nil {
			return nil, nil, fmt.Errorf("failed to start embedded Tor: %w", err)
		}
		cleanup = func() {
			if err := embedded.Stop(); err != nil {
				logger.Warn("failed to stop embedded Tor", "error", err)
			}
		}

		okColor.Fprintf(stderr, "Embedded Tor daemon started (SOCKS proxy %s)\n\n", embedded.SocksAddr()) //nolint:errcheck // best effort notice
		client, err = embedded.NewClient()
	} else {
		client, err = tor.NewClient(cfg.TorProxyAddress)
	}
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to create Tor client: %w", err)
	}

	status := client.CheckConnection(ctx)
	if err := status.Err(); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("tor proxy check failed (%s): %w", client.ProxyAddress(), err)
	}
	logger.Debug("tor proxy ready", "proxy", client.ProxyAddress(), "status", status.String())

	return client.DialContext, cleanup, nil
}

func isOnionURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return tor.IsOnionHost(u.Hostname())
}

// outputReport writes the report to the --output file, or to stdout.
func outputReport(stdout io.Writer, cfg *config.Config, runReport *model.RunReport) error {
	output := stdout
	if cfg.ReportFile != "" {
		if dir := filepath.Dir(cfg.ReportFile); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports may contain header values and paths of private sites.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	format := report.FormatText
	switch {
	case cfg.JSONReport:
		format = report.FormatJSON
	case cfg.MarkdownReport:
		format = report.FormatMarkdown
	}

	var writer report.Writer
	if format == report.FormatText {
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	} else {
		writer = report.NewWriter(format, output)
	}

	if _, err := writer.Write(runReport); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// isProbeFailure reports whether err means the target did not pass the
// initial check.
func isProbeFailure(err error) bool {
	return errors.Is(err, probe.ErrProbeFailed)
}
