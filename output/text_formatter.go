package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tainthound/jsflow/taintmodel"
)

// TextFormatter formats issues as human-readable text.
type TextFormatter struct {
	writer  io.Writer
	options *OutputOptions
	logger  *Logger
}

// NewTextFormatter creates a text formatter.
func NewTextFormatter(opts *OutputOptions, logger *Logger) *TextFormatter {
	if opts == nil {
		opts = NewDefaultOptions()
	}
	return &TextFormatter{
		writer:  os.Stdout,
		options: opts,
		logger:  logger,
	}
}

// NewTextFormatterWithWriter creates a formatter with custom writer (for testing).
func NewTextFormatterWithWriter(w io.Writer, opts *OutputOptions, logger *Logger) *TextFormatter {
	tf := NewTextFormatter(opts, logger)
	tf.writer = w
	return tf
}

// Format outputs all issues as formatted text.
func (f *TextFormatter) Format(issues []taintmodel.Issue, summary *Summary) error {
	if len(issues) == 0 {
		f.writeNoFindings()
		return nil
	}

	f.writeHeader()
	f.writeResults(issues)
	f.writeSummary(summary)

	if f.options.ShouldShowStatistics() {
		f.writeStatistics(summary)
	}

	return nil
}

func (f *TextFormatter) writeHeader() {
	fmt.Fprintln(f.writer, "jsflow taint analysis")
	fmt.Fprintln(f.writer)
}

func (f *TextFormatter) writeNoFindings() {
	fmt.Fprintln(f.writer, "jsflow taint analysis")
	fmt.Fprintln(f.writer)
	fmt.Fprintln(f.writer, "No security issues found.")
}

func (f *TextFormatter) writeResults(issues []taintmodel.Issue) {
	fmt.Fprintln(f.writer, "Results:")
	fmt.Fprintln(f.writer)

	grouped := f.groupBySeverity(issues)

	severityOrder := []taintmodel.Severity{taintmodel.SeverityError, taintmodel.SeverityWarning, taintmodel.SeverityInfo}
	for _, sev := range severityOrder {
		if items, ok := grouped[sev]; ok && len(items) > 0 {
			f.writeSeverityGroup(sev, items)
		}
	}
}

func (f *TextFormatter) groupBySeverity(issues []taintmodel.Issue) map[taintmodel.Severity][]taintmodel.Issue {
	grouped := make(map[taintmodel.Severity][]taintmodel.Issue)
	for _, issue := range issues {
		grouped[issue.Severity] = append(grouped[issue.Severity], issue)
	}
	return grouped
}

func (f *TextFormatter) writeSeverityGroup(severity taintmodel.Severity, issues []taintmodel.Issue) {
	title := fmt.Sprintf("%s Issues (%d):", strings.Title(string(severity)), len(issues))
	fmt.Fprintln(f.writer, title)
	fmt.Fprintln(f.writer)

	showDetailed := severity == taintmodel.SeverityError

	for _, issue := range issues {
		if showDetailed {
			f.writeDetailedFinding(issue)
		} else {
			f.writeAbbreviatedFinding(issue)
		}
	}
	fmt.Fprintln(f.writer)
}

func (f *TextFormatter) writeDetailedFinding(issue taintmodel.Issue) {
	fmt.Fprintf(f.writer, "  [%s] %s\n", issue.Severity, issue.Type)
	fmt.Fprintln(f.writer)

	fmt.Fprintf(f.writer, "    %s\n", f.formatLocation(issue.Location))
	fmt.Fprintf(f.writer, "    %s\n", issue.Message)

	if issue.Suggestion != "" {
		fmt.Fprintf(f.writer, "    Suggestion: %s\n", issue.Suggestion)
	}
	if issue.SinkFunctionName != "" {
		fmt.Fprintf(f.writer, "    Sink: %s\n", issue.SinkFunctionName)
	}
	fmt.Fprintln(f.writer)
}

func (f *TextFormatter) writeAbbreviatedFinding(issue taintmodel.Issue) {
	location := f.formatLocation(issue.Location)
	fmt.Fprintf(f.writer, "  [%s] %s: %s\n", issue.Severity, issue.Type, location)
}

func (f *TextFormatter) formatLocation(loc taintmodel.Location) string {
	path := loc.File
	if loc.Line > 0 {
		return fmt.Sprintf("%s:%d", path, loc.Line)
	}
	return path
}

func (f *TextFormatter) writeSummary(summary *Summary) {
	fmt.Fprintln(f.writer, "Summary:")
	fmt.Fprintf(f.writer, "  %d findings across %d files\n", summary.TotalFindings, summary.FilesScanned)

	var parts []string
	for _, sev := range []string{"error", "warning", "info"} {
		if count, ok := summary.BySeverity[sev]; ok && count > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", count, sev))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(f.writer, "  %s\n", strings.Join(parts, " | "))
	}
	fmt.Fprintln(f.writer)
}

func (f *TextFormatter) writeStatistics(summary *Summary) {
	fmt.Fprintln(f.writer, "Findings by type:")
	for t, count := range summary.ByType {
		fmt.Fprintf(f.writer, "  %s: %d findings\n", t, count)
	}
	fmt.Fprintln(f.writer)
}

// Summary holds aggregated statistics for a scan.
type Summary struct {
	TotalFindings int
	FilesScanned  int
	BySeverity    map[string]int
	ByType        map[string]int
	Duration      string
}

// BuildSummary creates a Summary from a flat issue list.
func BuildSummary(issues []taintmodel.Issue, filesScanned int) *Summary {
	summary := &Summary{
		TotalFindings: len(issues),
		FilesScanned:  filesScanned,
		BySeverity:    make(map[string]int),
		ByType:        make(map[string]int),
	}

	for _, issue := range issues {
		summary.BySeverity[string(issue.Severity)]++
		summary.ByType[string(issue.Type)]++
	}

	return summary
}
