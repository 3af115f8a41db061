// Package report renders a model.RunReport for humans and tools.
//
// Three writers are provided:
//   - SimpleWriter: the plain text summary printed at the end of a run
//   - JSONWriter: the full RunReport as JSON
//   - MarkdownWriter: a property table and a success/failure pie chart
//
// All of them implement Writer, so the CLI picks one by flag and treats
// them the same.
package report
