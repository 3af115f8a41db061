package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/nao1215/crawlprobe/internal/model"
)

// createTestReport creates a finished crawl report with sample data.
func createTestReport() *model.RunReport {
	report := model.NewRunReport("https://example.com", model.MethodGet, true, 3)
	report.ProbeLatency = 123 * time.Millisecond
	report.Requested = 10
	report.Attempted = 10
	report.Completed = 8
	report.Failed = 2
	report.Mean = 200 * time.Millisecond
	report.Max = 300 * time.Millisecond
	report.Min = 100 * time.Millisecond
	report.UniqueSites = 4
	report.BlacklistedPaths = []string{"/broken", "/gone"}
	report.Elapsed = 2 * time.Second
	return report
}

// TestSimpleWriter tests the human-readable summary.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes statistics", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"Connected to https://example.com (initial check in 0.12s)\n\n",
			"Completed 8 requests.\n",
			"Average response time: 0.200s\n",
			"Maximum response time: 0.300s\n",
			"This included 4 unique sites\n",
			"Failed requests: 2 of 10 (80.0% succeeded)\n",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, output)
			}
		}
		if strings.Contains(output, "Minimum") || strings.Contains(output, "Blacklisted") {
			t.Errorf("expected verbose lines to be hidden:\n%s", output)
		}
	})

	t.Run("omits unique sites without crawling", func(t *testing.T) {
		t.Parallel()

		report := createTestReport()
		report.FollowLinks = false

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(buf.String(), "unique sites") {
			t.Errorf("unexpected unique sites line:\n%s", buf.String())
		}
	})

	t.Run("reports no successful requests", func(t *testing.T) {
		t.Parallel()

		report := model.NewRunReport("https://example.com", model.MethodGet, false, 1)
		report.Requested = 5
		report.Attempted = 5
		report.Failed = 5

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "No successful requests recorded.") {
			t.Errorf("expected no-samples line, got:\n%s", output)
		}
		if !strings.HasPrefix(output, "No successful requests recorded.\n") {
			t.Errorf("expected the no-samples line first, got:\n%s", output)
		}
		if strings.Contains(output, "Connected to") || strings.Contains(output, "Average") || strings.Contains(output, "NaN") {
			t.Errorf("unexpected header or statistics:\n%s", output)
		}
		if !strings.Contains(output, "Failed requests: 5 of 5 (0.0% succeeded)") {
			t.Errorf("expected the failure line, got:\n%s", output)
		}
	})

	t.Run("uses thousands separators", func(t *testing.T) {
		t.Parallel()

		report := createTestReport()
		report.Completed = 12345

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithLanguage(language.English)).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "Completed 12,345 requests.") {
			t.Errorf("expected grouped count, got:\n%s", buf.String())
		}
	})

	t.Run("verbose adds details", func(t *testing.T) {
		t.Parallel()

		report := createTestReport()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"Minimum response time: 0.100s",
			"Blacklisted paths: /broken, /gone",
			report.RunID,
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("reports cancellation", func(t *testing.T) {
		t.Parallel()

		report := createTestReport()
		report.Attempted = 6
		report.Failed = 0
		report.Cancelled = true

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "Run cancelled after 6 of 10 requests.") {
			t.Errorf("expected cancellation line, got:\n%s", buf.String())
		}
	})

	t.Run("returns bytes written", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("expected %d bytes, got %d", buf.Len(), n)
		}
	})
}

// TestJSONWriter tests the JSON writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes valid JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		report := createTestReport()
		if _, err := NewJSONWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded["seedUrl"] != "https://example.com" {
			t.Errorf("unexpected seedUrl %v", decoded["seedUrl"])
		}
		if decoded["method"] != "GET" {
			t.Errorf("unexpected method %v", decoded["method"])
		}
		if decoded["runId"] != report.RunID {
			t.Errorf("unexpected runId %v", decoded["runId"])
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Error("expected compact output with a trailing newline")
		}
	})

	t.Run("pretty print", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"seedUrl\"") {
			t.Errorf("expected indented output, got:\n%s", buf.String())
		}
	})

	t.Run("omits empty blacklist", func(t *testing.T) {
		t.Parallel()

		report := createTestReport()
		report.BlacklistedPaths = nil

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(buf.String(), "blacklistedPaths") {
			t.Errorf("unexpected blacklistedPaths in %s", buf.String())
		}
	})
}

// TestMarkdownWriter tests the Markdown writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes tables and chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# crawlprobe Report",
			"`https://example.com`",
			"## Response Times",
			"0.200s",
			"Unique sites",
			"```mermaid",
			"Request Outcomes",
			"Succeeded",
			"## Blacklisted Paths",
			"/broken",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("no samples", func(t *testing.T) {
		t.Parallel()

		report := model.NewRunReport("https://example.com", model.MethodPost, false, 1)

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "No successful requests recorded.") {
			t.Error("expected no-samples warning")
		}
		if strings.Contains(output, "```mermaid") {
			t.Error("expected no chart when nothing was attempted")
		}
		if strings.Contains(output, "Blacklisted") {
			t.Error("expected no blacklist section")
		}
	})

	t.Run("cancelled status", func(t *testing.T) {
		t.Parallel()

		report := createTestReport()
		report.Cancelled = true

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "Cancelled") {
			t.Error("expected cancelled status")
		}
	})
}

// TestNewWriter tests format selection.
func TestNewWriter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format Format
		name   string
		want   string
	}{
		{format: FormatText, name: "text", want: "Completed 8 requests."},
		{format: FormatJSON, name: "json", want: `"completed": 8`},
		{format: FormatMarkdown, name: "markdown", want: "# crawlprobe Report"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if tt.format.String() != tt.name {
				t.Errorf("Format.String() = %q, want %q", tt.format.String(), tt.name)
			}

			var buf bytes.Buffer
			if _, err := NewWriter(tt.format, &buf).Write(createTestReport()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("expected output to contain %q, got:\n%s", tt.want, buf.String())
			}
		})
	}
}
