package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/tainthound/jsflow/taintmodel"
)

// JSONFormatter formats issues as JSON.
type JSONFormatter struct {
	writer  io.Writer
	options *OutputOptions
}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter(opts *OutputOptions) *JSONFormatter {
	if opts == nil {
		opts = NewDefaultOptions()
	}
	return &JSONFormatter{
		writer:  os.Stdout,
		options: opts,
	}
}

// NewJSONFormatterWithWriter creates a formatter with custom writer (for testing).
func NewJSONFormatterWithWriter(w io.Writer, opts *OutputOptions) *JSONFormatter {
	jf := NewJSONFormatter(opts)
	jf.writer = w
	return jf
}

// JSONOutput represents the complete JSON output structure.
type JSONOutput struct {
	Tool    JSONTool     `json:"tool"`
	Scan    JSONScan     `json:"scan"`
	Results []JSONResult `json:"results"`
	Summary JSONSummary  `json:"summary"`
	Errors  []string     `json:"errors,omitempty"`
}

// JSONTool contains tool metadata.
type JSONTool struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	URL     string `json:"url"`
}

// JSONScan contains scan metadata.
type JSONScan struct {
	ID            string  `json:"id"`
	Target        string  `json:"target"`
	Timestamp     string  `json:"timestamp"`
	Duration      float64 `json:"duration"`
	FilesAnalyzed int     `json:"files_analyzed"` //nolint:tagliatelle
}

// JSONResult represents a single finding.
type JSONResult struct {
	Type             string       `json:"type"`
	Message          string       `json:"message"`
	Severity         string       `json:"severity"`
	Location         JSONLocation `json:"location"`
	Suggestion       string       `json:"suggestion,omitempty"`
	SinkFunctionName string       `json:"sink_function_name,omitempty"` //nolint:tagliatelle
}

// JSONLocation contains finding location.
type JSONLocation struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

// JSONSummary contains aggregated statistics.
type JSONSummary struct {
	Total           int            `json:"total"`
	BySeverity      map[string]int `json:"by_severity"` //nolint:tagliatelle
	ByType          map[string]int `json:"by_type"`      //nolint:tagliatelle
	AnnotationsInferred int        `json:"annotations_inferred"` //nolint:tagliatelle
}

// ScanInfo contains metadata about the scan.
type ScanInfo struct {
	ID            string
	Target        string
	Version       string
	Duration      time.Duration
	FilesAnalyzed int
	Errors        []string
}

// Format outputs an AnalysisResult (or ProjectAnalysisResult, merged by the
// caller into a flat issue list) as JSON.
func (f *JSONFormatter) Format(issues []taintmodel.Issue, annotationsInferred int, scanInfo ScanInfo) error {
	output := f.buildOutput(issues, annotationsInferred, scanInfo)

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func (f *JSONFormatter) buildOutput(issues []taintmodel.Issue, annotationsInferred int, scanInfo ScanInfo) JSONOutput {
	version := scanInfo.Version
	if version == "" {
		version = "unknown"
	}

	return JSONOutput{
		Tool: JSONTool{
			Name:    "jsflow",
			Version: version,
			URL:     "https://github.com/tainthound/jsflow",
		},
		Scan: JSONScan{
			ID:            scanInfo.ID,
			Target:        scanInfo.Target,
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
			Duration:      scanInfo.Duration.Seconds(),
			FilesAnalyzed: scanInfo.FilesAnalyzed,
		},
		Results: f.buildResults(issues),
		Summary: f.buildSummary(issues, annotationsInferred),
		Errors:  scanInfo.Errors,
	}
}

func (f *JSONFormatter) buildResults(issues []taintmodel.Issue) []JSONResult {
	results := make([]JSONResult, 0, len(issues))
	for _, issue := range issues {
		results = append(results, JSONResult{
			Type:     string(issue.Type),
			Message:  issue.Message,
			Severity: string(issue.Severity),
			Location: JSONLocation{
				File:   issue.Location.File,
				Line:   issue.Location.Line,
				Column: issue.Location.Column,
			},
			Suggestion:       issue.Suggestion,
			SinkFunctionName: issue.SinkFunctionName,
		})
	}
	return results
}

func (f *JSONFormatter) buildSummary(issues []taintmodel.Issue, annotationsInferred int) JSONSummary {
	bySeverity := make(map[string]int)
	byType := make(map[string]int)
	for _, issue := range issues {
		bySeverity[string(issue.Severity)]++
		byType[string(issue.Type)]++
	}
	return JSONSummary{
		Total:               len(issues),
		BySeverity:          bySeverity,
		ByType:              byType,
		AnnotationsInferred: annotationsInferred,
	}
}
