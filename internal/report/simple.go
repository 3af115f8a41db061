package report

import (
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nao1215/crawlprobe/internal/model"
)

// SimpleWriter outputs the human-readable run summary.
//
// Numbers are formatted with an English message printer, so large request
// counts get thousands separators ("Completed 1,000 requests.").
type SimpleWriter struct {
	baseWriter

	printer *message.Printer

	// verbose adds the run ID, elapsed time and blacklisted paths.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// WithLanguage sets the language used for number formatting.
func WithLanguage(tag language.Tag) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.printer = message.NewPrinter(tag)
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		printer:    message.NewPrinter(language.English),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the summary. A run without successful requests prints
// only "No successful requests recorded." followed by the failure and
// cancellation lines.
func (w *SimpleWriter) Write(report *model.RunReport) (int, error) {
	var sb strings.Builder
	p := w.printer

	if !report.HasSamples() {
		sb.WriteString("No successful requests recorded.\n")
		w.writeFooter(&sb, report)
		return io.WriteString(w.output, sb.String())
	}

	p.Fprintf(&sb, "Connected to %s (initial check in %.2fs)\n\n", report.SeedURL, report.ProbeLatency.Seconds())

	p.Fprintf(&sb, "Completed %d requests.\n", report.Completed)
	p.Fprintf(&sb, "Average response time: %.3fs\n", report.Mean.Seconds())
	p.Fprintf(&sb, "Maximum response time: %.3fs\n", report.Max.Seconds())
	if w.verbose {
		p.Fprintf(&sb, "Minimum response time: %.3fs\n", report.Min.Seconds())
	}
	if report.FollowLinks {
		p.Fprintf(&sb, "This included %d unique sites\n", report.UniqueSites)
	}

	w.writeFooter(&sb, report)
	return io.WriteString(w.output, sb.String())
}

// writeFooter writes the failure and cancellation lines, which are omitted
// for a clean run.
func (w *SimpleWriter) writeFooter(sb *strings.Builder, report *model.RunReport) {
	p := w.printer

	if report.Failed > 0 {
		p.Fprintf(sb, "Failed requests: %d of %d (%.1f%% succeeded)\n",
			report.Failed, report.Attempted, report.SuccessRate())
	}
	if report.Cancelled {
		p.Fprintf(sb, "Run cancelled after %d of %d requests.\n", report.Attempted, report.Requested)
	}
	if !w.verbose {
		return
	}
	if len(report.BlacklistedPaths) > 0 {
		p.Fprintf(sb, "Blacklisted paths: %s\n", strings.Join(report.BlacklistedPaths, ", "))
	}
	p.Fprintf(sb, "Run %s finished in %.2fs\n", report.RunID, report.Elapsed.Seconds())
}
