package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/crawlprobe/internal/model"
)

// MarkdownWriter outputs the run report as a Markdown document.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeTimings(md, report)
	w.writeOutcome(md, report)
	w.writeBlacklist(md, report)
	w.writeFooter(md, report)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.RunReport) {
	md.H1("crawlprobe Report")
	md.PlainText("")

	mode := "single URL"
	if report.FollowLinks {
		mode = "crawl"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed URL", "`" + report.SeedURL + "`"},
			{"Method", report.Method.String()},
			{"Mode", mode},
			{"Workers", strconv.Itoa(report.Workers)},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Initial check", formatSeconds(report.ProbeLatency, 2)},
			{"Status", statusText(report)},
		},
	})
	md.PlainText("")
}

func statusText(report *model.RunReport) string {
	if report.Cancelled {
		return "⚠️ Cancelled (partial results)"
	}
	return "✅ Complete"
}

func (w *MarkdownWriter) writeTimings(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Response Times")
	md.PlainText("")

	if !report.HasSamples() {
		md.Warningf("No successful requests recorded.")
		md.PlainText("")
		return
	}

	rows := [][]string{
		{"Completed requests", strconv.Itoa(report.Completed)},
		{"Average", formatSeconds(report.Mean, 3)},
		{"Maximum", formatSeconds(report.Max, 3)},
		{"Minimum", formatSeconds(report.Min, 3)},
	}
	if report.FollowLinks {
		rows = append(rows, []string{"Unique sites", strconv.Itoa(report.UniqueSites)})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeOutcome writes the request counts and, when anything was attempted,
// a pie chart of successful vs failed requests.
func (w *MarkdownWriter) writeOutcome(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Requests")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Requested", "Attempted", "Succeeded", "Failed"},
		Rows: [][]string{{
			strconv.Itoa(report.Requested),
			strconv.Itoa(report.Attempted),
			strconv.Itoa(report.Completed),
			strconv.Itoa(report.Failed),
		}},
	})
	md.PlainText("")

	if report.Attempted == 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Request Outcomes"),
		piechart.WithShowData(true),
	)
	if report.Completed > 0 {
		chart.LabelAndIntValue("Succeeded", uint64(report.Completed)) //nolint:gosec // non-negative count
	}
	if report.Failed > 0 {
		chart.LabelAndIntValue("Failed", uint64(report.Failed)) //nolint:gosec // non-negative count
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")

	if report.Failed > 0 {
		md.Cautionf("%d of %d requests failed (%.1f%% succeeded).",
			report.Failed, report.Attempted, report.SuccessRate())
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeBlacklist(md *markdown.Markdown, report *model.RunReport) {
	if len(report.BlacklistedPaths) == 0 {
		return
	}

	md.H2("Blacklisted Paths")
	md.PlainText("")
	md.BulletList(report.BlacklistedPaths...)
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown, report *model.RunReport) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Run `%s` finished in %s*", report.RunID, formatSeconds(report.Elapsed, 2))
}

func formatSeconds(d time.Duration, precision int) string {
	return strconv.FormatFloat(d.Seconds(), 'f', precision, 64) + "s"
}
