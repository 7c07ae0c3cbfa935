package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	sarif "github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/tainthound/jsflow/taintmodel"
)

// SARIFFormatter formats issues as SARIF 2.1.0.
type SARIFFormatter struct {
	writer  io.Writer
	options *OutputOptions
}

// NewSARIFFormatter creates a SARIF formatter.
func NewSARIFFormatter(opts *OutputOptions) *SARIFFormatter {
	if opts == nil {
		opts = NewDefaultOptions()
	}
	return &SARIFFormatter{
		writer:  os.Stdout,
		options: opts,
	}
}

// NewSARIFFormatterWithWriter creates a formatter with custom writer (for testing).
func NewSARIFFormatterWithWriter(w io.Writer, opts *OutputOptions) *SARIFFormatter {
	sf := NewSARIFFormatter(opts)
	sf.writer = w
	return sf
}

// Format outputs all issues as SARIF.
func (f *SARIFFormatter) Format(issues []taintmodel.Issue) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return err
	}

	run := sarif.NewRunWithInformationURI("jsflow", "https://github.com/tainthound/jsflow")

	f.buildRules(issues, run)
	for _, issue := range issues {
		f.buildResult(issue, run)
	}

	report.AddRun(run)

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func (f *SARIFFormatter) buildRules(issues []taintmodel.Issue, run *sarif.Run) map[string]bool {
	seen := make(map[string]bool)

	for _, issue := range issues {
		id := string(issue.Type)
		if seen[id] {
			continue
		}
		seen[id] = true

		sarifRule := run.AddRule(id).
			WithDescription(ruleDescription(issue.Type)).
			WithName(ruleName(issue.Type)).
			WithHelpURI("https://github.com/tainthound/jsflow")

		level := f.severityToLevelString(issue.Severity)
		sarifRule.WithDefaultConfiguration(sarif.NewReportingConfiguration().WithLevel(level))
		sarifRule.WithProperties(f.buildRuleProperties(issue.Severity))
	}

	return seen
}

func ruleName(t taintmodel.IssueType) string {
	switch t {
	case taintmodel.IssueSQLInjection:
		return "SQL Injection"
	case taintmodel.IssueCommandInjection:
		return "Command Injection"
	case taintmodel.IssuePathTraversal:
		return "Path Traversal"
	case taintmodel.IssueXSS:
		return "Cross-Site Scripting"
	case taintmodel.IssueCodeInjection:
		return "Code Injection"
	default:
		return string(t)
	}
}

func ruleDescription(t taintmodel.IssueType) string {
	switch t {
	case taintmodel.IssueSQLInjection:
		return "Untrusted input reaches a SQL query without parameterization."
	case taintmodel.IssueCommandInjection:
		return "Untrusted input reaches a shell command."
	case taintmodel.IssuePathTraversal:
		return "Untrusted input reaches a filesystem path."
	case taintmodel.IssueXSS:
		return "Untrusted input reaches a response or DOM write."
	case taintmodel.IssueCodeInjection:
		return "Untrusted input reaches eval or a Function constructor."
	default:
		return "Tainted value reaches a dangerous sink without sanitization."
	}
}

func (f *SARIFFormatter) severityToLevelString(severity taintmodel.Severity) string {
	switch severity {
	case taintmodel.SeverityError:
		return "error"
	case taintmodel.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

func (f *SARIFFormatter) buildRuleProperties(severity taintmodel.Severity) map[string]interface{} {
	props := make(map[string]interface{})
	props["tags"] = []string{"security", "taint-analysis"}
	props["security-severity"] = f.severityToScore(severity)
	props["precision"] = "high"
	return props
}

func (f *SARIFFormatter) severityToScore(severity taintmodel.Severity) string {
	switch severity {
	case taintmodel.SeverityError:
		return "8.0"
	case taintmodel.SeverityWarning:
		return "5.0"
	default:
		return "3.0"
	}
}

func (f *SARIFFormatter) buildResult(issue taintmodel.Issue, run *sarif.Run) {
	message := issue.Message
	if issue.SinkFunctionName != "" {
		message += fmt.Sprintf(" (sink: %s)", issue.SinkFunctionName)
	}

	result := run.CreateResultForRule(string(issue.Type)).
		WithMessage(sarif.NewTextMessage(message))

	f.addLocation(issue, result)
}

func (f *SARIFFormatter) addLocation(issue taintmodel.Issue, result *sarif.Result) {
	region := sarif.NewRegion().WithStartLine(issue.Location.Line)
	if issue.Location.Column > 0 {
		region.WithStartColumn(issue.Location.Column)
	}

	location := sarif.NewLocation().
		WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(
					sarif.NewArtifactLocation().WithUri(issue.Location.File),
				).
				WithRegion(region),
		)

	result.AddLocation(location)
}
