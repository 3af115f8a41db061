package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for crawlprobe.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawlprobe",
		Short: "Concurrent HTTP load and crawl probe",
		Long: `crawlprobe sends a fixed number of HTTP requests to a target from a pool
of concurrent workers and reports average and maximum response times.

With --follow-links each worker picks its next target at random from the
links found in the previous response, so the load spreads over the site.
Targets can be reached through Tor with --tor or --tor-proxy.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON lines")

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and exits with status 1 on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		if isProbeFailure(err) {
			color.New(color.FgRed).Fprintln(os.Stderr, "Initial URL check failed.") //nolint:errcheck // exiting anyway
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
