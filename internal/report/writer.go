package report

import (
	"io"

	"github.com/nao1215/crawlprobe/internal/model"
)

// Writer outputs a run report.
type Writer interface {
	// Write outputs the report and returns the number of bytes written.
	Write(report *model.RunReport) (int, error)
}

// Format selects a Writer implementation.
type Format int

const (
	// FormatText is the human-readable summary.
	FormatText Format = iota
	// FormatJSON is indented JSON.
	FormatJSON
	// FormatMarkdown is a Markdown document.
	FormatMarkdown
)

// String returns the flag-style name of the format.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatMarkdown:
		return "markdown"
	default:
		return "text"
	}
}

// NewWriter returns the Writer for format writing to output.
// Unknown formats fall back to text.
func NewWriter(format Format, output io.Writer) Writer {
	switch format {
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint())
	case FormatMarkdown:
		return NewMarkdownWriter(output)
	default:
		return NewSimpleWriter(output)
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

